// Package stats computes agreement metrics between automated and human
// annotation sets: per-clip IoU matrices, best-fit confusion counts,
// consolidated clip overlap, and micro-averaged rollups.
package stats

import (
	"math"

	apperrors "github.com/acousticlab/annometer/internal/errors"
	"github.com/acousticlab/annometer/internal/raster"
	"github.com/acousticlab/annometer/internal/types"
)

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

func round6(x float64) float64 {
	return math.Round(x*1000000) / 1000000
}

// ClipIoU builds the (human label count) x (automated label count) matrix
// of Jaccard indices for one clip. Each annotation is rasterized
// individually at the clip's sample rate; entries are intersection sample
// counts divided by the OR-union of the two occupancy rows, rounded to 4
// decimals. Entries with no intersection stay exactly 0.
func ClipIoU(automated, human types.AnnotationSet) ([][]float64, error) {
	meta, err := automated.Meta()
	if err != nil {
		return nil, apperrors.NewValidationError("automated labels: " + err.Error())
	}
	if _, err := human.Meta(); err != nil {
		return nil, apperrors.NewValidationError("human labels: " + err.Error())
	}

	length := int(meta.ClipLength * float64(meta.SampleRate))
	resolution := float64(meta.SampleRate)

	botRows := make([][]uint8, len(automated))
	for j, a := range automated {
		botRows[j] = raster.Rasterize([]raster.Interval{{Offset: a.Offset, Duration: a.Duration}}, resolution, length)
	}
	humanRows := make([][]uint8, len(human))
	for i, a := range human {
		humanRows[i] = raster.Rasterize([]raster.Interval{{Offset: a.Offset, Duration: a.Duration}}, resolution, length)
	}

	matrix := make([][]float64, len(human))
	for i := range humanRows {
		matrix[i] = make([]float64, len(automated))
		for j := range botRows {
			intersection := raster.Intersection(humanRows[i], botRows[j])
			if intersection == 0 {
				continue
			}
			union := raster.Union(humanRows[i], botRows[j])
			matrix[i][j] = round4(float64(intersection) / float64(union))
		}
	}
	return matrix, nil
}
