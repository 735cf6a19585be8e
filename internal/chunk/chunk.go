// Package chunk discretizes variable-length annotations into fixed-width
// time bins for windowed evaluation.
package chunk

import (
	"math"

	apperrors "github.com/acousticlab/annometer/internal/errors"
	"github.com/acousticlab/annometer/internal/raster"
	"github.com/acousticlab/annometer/internal/types"
)

// Resolution of the occupancy array used to test window overlap, in
// samples per second (one sample per millisecond).
const chunkResolution = 1000.0

// Chunk converts an annotation set into uniform chunks of chunkLength
// seconds. Every output row has Duration == chunkLength and an Offset that
// is an integer multiple of chunkLength.
//
// A clip shorter than chunkLength produces no rows, and any clip tail
// shorter than chunkLength is dropped, never labelled. A chunk is marked
// positive for a class if any instant of the window overlaps one of that
// class's annotations; annotations of different classes overlapping the
// same window each produce their own row.
func Chunk(set types.AnnotationSet, chunkLength float64) (types.AnnotationSet, error) {
	if chunkLength <= 0 {
		return nil, apperrors.NewValidationError("chunk_length must be positive")
	}

	var out types.AnnotationSet
	for _, key := range set.Clips() {
		clip := set.FilterClip(key)
		meta, err := clip.Meta()
		if err != nil {
			return nil, apperrors.NewPerClipError(key.InFile, err)
		}

		// Clips shorter than one chunk carry no usable windows.
		if meta.ClipLength < chunkLength {
			continue
		}
		numChunks := int(math.Floor(meta.ClipLength / chunkLength))
		arrLen := int(meta.ClipLength * chunkResolution)

		for _, label := range clip.Labels() {
			rows := clip.FilterLabel(label)
			occupancy := make([]uint8, arrLen)
			for _, a := range rows {
				raster.Set(occupancy, raster.Interval{Offset: a.Offset, Duration: a.Duration}, chunkResolution)
			}

			for i := 0; i < numChunks; i++ {
				lo := int(float64(i) * chunkLength * chunkResolution)
				hi := int(float64(i+1) * chunkLength * chunkResolution)
				if hi > arrLen {
					hi = arrLen
				}
				if !raster.Any(occupancy, lo, hi) {
					continue
				}
				out = append(out, types.Annotation{
					Folder:     meta.Folder,
					InFile:     meta.InFile,
					ClipLength: meta.ClipLength,
					Channel:    0,
					Offset:     float64(i) * chunkLength,
					Duration:   chunkLength,
					SampleRate: meta.SampleRate,
					Label:      label,
				})
			}
		}
	}
	return out, nil
}

// NumChunks returns how many complete chunk windows fit in a clip.
func NumChunks(clipLength, chunkLength float64) int {
	if chunkLength <= 0 || clipLength < chunkLength {
		return 0
	}
	return int(math.Floor(clipLength / chunkLength))
}
