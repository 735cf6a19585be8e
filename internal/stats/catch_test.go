package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acousticlab/annometer/internal/types"
)

func TestClipCatch(t *testing.T) {
	automated := types.AnnotationSet{
		annotation("a.wav", 10, 0, 2, "bird"),
		annotation("a.wav", 10, 5, 1, "bird"),
	}
	human := types.AnnotationSet{
		annotation("a.wav", 10, 0, 2, "bird"), // fully covered
		annotation("a.wav", 10, 4, 2, "bird"), // half covered by [5, 6)
		annotation("a.wav", 10, 8, 1, "bird"), // untouched
	}

	rows, err := ClipCatch(automated, human)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 1.0, rows[0].Catch)
	assert.Equal(t, 0.5, rows[1].Catch)
	assert.Equal(t, 0.0, rows[2].Catch)
}

func TestClipCatchOverlappingAutomated(t *testing.T) {
	// Overlapping automated labels collapse into one timeline; catch never
	// exceeds 1.
	automated := types.AnnotationSet{
		annotation("a.wav", 10, 0, 5, "bird"),
		annotation("a.wav", 10, 2, 5, "frog"),
	}
	human := types.AnnotationSet{annotation("a.wav", 10, 1, 4, "bird")}

	rows, err := ClipCatch(automated, human)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0].Catch)
}

func TestDatasetCatchIsolatesFailures(t *testing.T) {
	automated := types.AnnotationSet{
		annotation("a.wav", 10, 0, 2, "bird"),
		annotation("b.wav", 10, 0, 2, "bird"),
		{InFile: "b.wav", ClipLength: 12, SampleRate: 100, Offset: 4, Duration: 1, Label: "bird"},
	}
	human := types.AnnotationSet{
		annotation("a.wav", 10, 0, 2, "bird"),
		annotation("b.wav", 10, 0, 2, "bird"),
	}

	e := NewEvaluator(nil, 1)
	rows, errored, err := e.DatasetCatch(automated, human)
	require.NoError(t, err)
	assert.Equal(t, 1, errored)
	require.Len(t, rows, 1)
	assert.Equal(t, "a.wav", rows[0].Annotation.InFile)
	assert.Equal(t, 1.0, rows[0].Catch)
}
