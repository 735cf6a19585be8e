package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/acousticlab/annometer/internal/errors"
	"github.com/acousticlab/annometer/internal/types"
)

func annotation(file string, clipLen, offset, duration float64, label string) types.Annotation {
	return types.Annotation{
		Folder:     "./audio/",
		InFile:     file,
		ClipLength: clipLen,
		Channel:    0,
		Offset:     offset,
		Duration:   duration,
		SampleRate: 44100,
		Label:      label,
	}
}

func TestChunkOffsetsAndTailDrop(t *testing.T) {
	// 10s clip, 3s chunks: windows at 0, 3, 6; the trailing 1s is never
	// labelled.
	set := types.AnnotationSet{
		annotation("a.wav", 10, 0.5, 8.0, "bird"),
	}

	chunked, err := Chunk(set, 3)
	require.NoError(t, err)
	require.Len(t, chunked, 3)

	offsets := []float64{}
	for _, row := range chunked {
		assert.Equal(t, 3.0, row.Duration)
		assert.Equal(t, 0, row.Channel)
		assert.Equal(t, "bird", row.Label)
		assert.Equal(t, 10.0, row.ClipLength)
		assert.Equal(t, 44100, row.SampleRate)
		offsets = append(offsets, row.Offset)
	}
	assert.Equal(t, []float64{0, 3, 6}, offsets)
}

func TestChunkAnyOverlapRule(t *testing.T) {
	// An annotation barely entering a window still marks it positive.
	set := types.AnnotationSet{
		annotation("a.wav", 9, 2.9, 0.2, "bird"),
	}

	chunked, err := Chunk(set, 3)
	require.NoError(t, err)
	require.Len(t, chunked, 2)
	assert.Equal(t, 0.0, chunked[0].Offset)
	assert.Equal(t, 3.0, chunked[1].Offset)
}

func TestChunkShortClipYieldsNoRows(t *testing.T) {
	set := types.AnnotationSet{
		annotation("short.wav", 2, 0, 1.5, "bird"),
		annotation("short.wav", 2, 0.5, 1.0, "frog"),
	}

	chunked, err := Chunk(set, 3)
	require.NoError(t, err)
	assert.Empty(t, chunked)
}

func TestChunkMultipleClassesSameWindow(t *testing.T) {
	set := types.AnnotationSet{
		annotation("a.wav", 6, 1, 1, "bird"),
		annotation("a.wav", 6, 1.5, 1, "frog"),
	}

	chunked, err := Chunk(set, 3)
	require.NoError(t, err)
	require.Len(t, chunked, 2)

	labels := map[string]float64{}
	for _, row := range chunked {
		labels[row.Label] = row.Offset
	}
	assert.Equal(t, map[string]float64{"bird": 0, "frog": 0}, labels)
}

func TestChunkIdempotent(t *testing.T) {
	set := types.AnnotationSet{
		annotation("a.wav", 12, 0.2, 4.3, "bird"),
		annotation("a.wav", 12, 7.1, 2.0, "bird"),
		annotation("b.wav", 9, 1.0, 1.0, "frog"),
	}

	once, err := Chunk(set, 3)
	require.NoError(t, err)
	twice, err := Chunk(once, 3)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestChunkMultipleClips(t *testing.T) {
	set := types.AnnotationSet{
		annotation("a.wav", 6, 0, 6, "bird"),
		annotation("b.wav", 6, 3.5, 1, "bird"),
	}

	chunked, err := Chunk(set, 3)
	require.NoError(t, err)
	require.Len(t, chunked, 3)
	assert.Equal(t, "a.wav", chunked[0].InFile)
	assert.Equal(t, "a.wav", chunked[1].InFile)
	assert.Equal(t, "b.wav", chunked[2].InFile)
	assert.Equal(t, 3.0, chunked[2].Offset)
}

func TestChunkKeepsFoldersApart(t *testing.T) {
	// Same filename in two folders is two clips, each chunked on its own
	// and keeping its own folder.
	siteA := annotation("a.wav", 6, 0.5, 1, "bird")
	siteA.Folder = "./siteA/"
	siteB := annotation("a.wav", 6, 4.0, 1, "bird")
	siteB.Folder = "./siteB/"
	set := types.AnnotationSet{siteA, siteB}

	chunked, err := Chunk(set, 3)
	require.NoError(t, err)
	require.Len(t, chunked, 2)
	assert.Equal(t, "./siteA/", chunked[0].Folder)
	assert.Equal(t, 0.0, chunked[0].Offset)
	assert.Equal(t, "./siteB/", chunked[1].Folder)
	assert.Equal(t, 3.0, chunked[1].Offset)
}

func TestChunkHeterogeneousClipIsPerClipError(t *testing.T) {
	set := types.AnnotationSet{
		annotation("a.wav", 10, 0, 1, "bird"),
		{Folder: "./audio/", InFile: "a.wav", ClipLength: 12, SampleRate: 44100, Offset: 2, Duration: 1, Label: "bird"},
	}

	_, err := Chunk(set, 3)
	require.Error(t, err)
	assert.True(t, apperrors.IsPerClipError(err))
}

func TestChunkInvalidLength(t *testing.T) {
	_, err := Chunk(types.AnnotationSet{annotation("a.wav", 10, 0, 1, "bird")}, 0)
	assert.Error(t, err)
}

func TestNumChunks(t *testing.T) {
	tests := []struct {
		name        string
		clipLength  float64
		chunkLength float64
		expected    int
	}{
		{"exact multiple", 9, 3, 3},
		{"with tail", 10, 3, 3},
		{"shorter than chunk", 2, 3, 0},
		{"fractional chunk", 10, 2.5, 4},
		{"zero chunk", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NumChunks(tt.clipLength, tt.chunkLength))
		})
	}
}
