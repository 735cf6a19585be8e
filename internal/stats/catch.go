package stats

import (
	"time"

	apperrors "github.com/acousticlab/annometer/internal/errors"
	"github.com/acousticlab/annometer/internal/raster"
	"github.com/acousticlab/annometer/internal/types"
)

// CatchRow is one human annotation together with the fraction of it that
// any automated annotation covered.
type CatchRow struct {
	Annotation types.Annotation `json:"annotation"`
	Catch      float64          `json:"catch"`
}

// ClipCatch scores every human annotation of one clip against the
// consolidated automated timeline. A catch of 1 means the label was fully
// covered by automated activity, 0 means none of it was.
func ClipCatch(automated, human types.AnnotationSet) ([]CatchRow, error) {
	meta, err := human.Meta()
	if err != nil {
		return nil, apperrors.NewValidationError("human labels: " + err.Error())
	}
	if _, err := automated.Meta(); err != nil {
		return nil, apperrors.NewValidationError("automated labels: " + err.Error())
	}

	length := int(meta.ClipLength * float64(meta.SampleRate))
	resolution := float64(meta.SampleRate)

	botArr := make([]uint8, length)
	for _, a := range automated {
		raster.Set(botArr, raster.Interval{Offset: a.Offset, Duration: a.Duration}, resolution)
	}

	rows := make([]CatchRow, len(human))
	for i, a := range human {
		humanArr := raster.Rasterize([]raster.Interval{{Offset: a.Offset, Duration: a.Duration}}, resolution, length)
		covered := raster.Intersection(humanArr, botArr)
		total := raster.Count(humanArr)
		catch := 0.0
		if total > 0 {
			catch = round4(float64(covered) / float64(total))
		}
		rows[i] = CatchRow{Annotation: a, Catch: catch}
	}
	return rows, nil
}

// DatasetCatch runs ClipCatch over every clip the human table names, with
// the same per-clip error isolation as AnnotationStatistics. Clips come
// from the human side here because the catch score is a property of each
// human label.
func (e *Evaluator) DatasetCatch(automated, human types.AnnotationSet) ([]CatchRow, int, error) {
	clips := human.Files()

	var rows []CatchRow
	errored := 0
	start := time.Now()
	for n, clip := range clips {
		clipHuman := human.FilterFile(clip)
		clipAutomated := automated.FilterFile(clip)
		if len(clipAutomated) == 0 {
			clipAutomated = automated.FilterFileStem(types.FileStem(clip))
		}

		clipRows, err := ClipCatch(clipAutomated, clipHuman)
		if err != nil {
			errored++
			e.log.ClipErrorLogger(clip, apperrors.NewPerClipError(clip, err))
			continue
		}
		rows = append(rows, clipRows...)
		if (n+1)%progressEvery == 0 {
			e.log.ProgressLogger(n+1, time.Since(start))
			start = time.Now()
		}
	}
	return rows, errored, nil
}
