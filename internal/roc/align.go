// Package roc aligns model confidence curves with human annotation
// timelines and sweeps them into receiver operating characteristic
// curves.
package roc

import (
	"math"

	apperrors "github.com/acousticlab/annometer/internal/errors"
	"github.com/acousticlab/annometer/internal/raster"
	"github.com/acousticlab/annometer/internal/types"
)

// labelResolution is the samples-per-second grid used to derive chunk
// targets from annotation intervals.
const labelResolution = 1000.0

// Pair is a target/confidence pair ready for an ROC sweep. Target and
// Confidence always have the same length.
type Pair struct {
	Target     []uint8   `json:"target"`
	Confidence []float64 `json:"confidence"`
}

// Inputs aligns one clip's human annotations with its confidence curve at
// chunk granularity. The target marks each chunk that overlaps any human
// annotation; the confidence is the maximum model score inside the chunk's
// window. Both sides derive their chunk count independently, and a
// disagreement is a hard error rather than a silent truncation.
func Inputs(human types.AnnotationSet, curve []float64, chunkLength float64) (Pair, error) {
	if chunkLength <= 0 {
		return Pair{}, apperrors.NewValidationError("chunk length must be positive")
	}
	if len(curve) == 0 {
		return Pair{}, apperrors.NewValidationError("confidence curve is empty")
	}
	meta, err := human.Meta()
	if err != nil {
		return Pair{}, apperrors.NewValidationError("human labels: " + err.Error())
	}

	nTarget := int(math.Floor(meta.ClipLength / chunkLength))
	if nTarget == 0 {
		return Pair{}, apperrors.NewValidationError("clip is shorter than one chunk")
	}

	indexPerSecond := float64(len(curve)) / meta.ClipLength
	samplesPerChunk := int(math.Floor(indexPerSecond * chunkLength))
	if samplesPerChunk == 0 {
		return Pair{}, apperrors.NewValidationError("confidence curve is too coarse for the chunk length")
	}
	nConf := len(curve) / samplesPerChunk
	if nConf != nTarget {
		return Pair{}, apperrors.NewAlignmentMismatchError(meta.InFile, nTarget, nConf)
	}

	arrLen := int(meta.ClipLength * labelResolution)
	occupancy := make([]uint8, arrLen)
	for _, a := range human {
		raster.Set(occupancy, raster.Interval{Offset: a.Offset, Duration: a.Duration}, labelResolution)
	}

	target := make([]uint8, nTarget)
	confidence := make([]float64, nTarget)
	for i := 0; i < nTarget; i++ {
		lo := int(float64(i) * chunkLength * labelResolution)
		hi := int(float64(i+1) * chunkLength * labelResolution)
		if raster.Any(occupancy, lo, hi) {
			target[i] = 1
		}
		cLo := int(math.Floor(indexPerSecond * float64(i) * chunkLength))
		cHi := int(math.Floor(indexPerSecond * float64(i+1) * chunkLength))
		confidence[i] = windowMax(curve, cLo, cHi)
	}
	return Pair{Target: target, Confidence: confidence}, nil
}

// RawInputs aligns one clip's human annotations with its confidence curve
// at the curve's own resolution: one target sample per confidence sample.
// A sample is positive when its instant falls inside an annotation,
// endpoints included, so the instant at offset+duration is still marked.
func RawInputs(human types.AnnotationSet, curve []float64) (Pair, error) {
	if len(curve) == 0 {
		return Pair{}, apperrors.NewValidationError("confidence curve is empty")
	}
	meta, err := human.Meta()
	if err != nil {
		return Pair{}, apperrors.NewValidationError("human labels: " + err.Error())
	}

	resolution := float64(len(curve)) / meta.ClipLength
	target := make([]uint8, len(curve))
	for _, a := range human {
		lo := int(math.Ceil(a.Offset * resolution))
		hi := int(math.Floor(a.End() * resolution))
		if lo < 0 {
			lo = 0
		}
		if hi > len(target)-1 {
			hi = len(target) - 1
		}
		for i := lo; i <= hi; i++ {
			target[i] = 1
		}
	}

	confidence := make([]float64, len(curve))
	copy(confidence, curve)
	return Pair{Target: target, Confidence: confidence}, nil
}

// windowMax is the maximum of curve[lo:hi), clamped; an empty window
// scores 0.
func windowMax(curve []float64, lo, hi int) float64 {
	if lo < 0 {
		lo = 0
	}
	if hi > len(curve) {
		hi = len(curve)
	}
	best := 0.0
	for i := lo; i < hi; i++ {
		if curve[i] > best {
			best = curve[i]
		}
	}
	return best
}
