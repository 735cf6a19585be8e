package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/acousticlab/annometer/internal/errors"
)

const header = "FOLDER,IN FILE,CLIP LENGTH,CHANNEL,OFFSET,DURATION,SAMPLE RATE,MANUAL ID\n"

func TestReadCSV(t *testing.T) {
	input := header +
		"./audio/,a.wav,10,0,0.5,2.0,44100,bird\n" +
		"./audio/,a.wav,10,0,5.0,1.5,44100,frog\n"

	set, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, set, 2)

	assert.Equal(t, "./audio/", set[0].Folder)
	assert.Equal(t, "a.wav", set[0].InFile)
	assert.Equal(t, 10.0, set[0].ClipLength)
	assert.Equal(t, 0, set[0].Channel)
	assert.Equal(t, 0.5, set[0].Offset)
	assert.Equal(t, 2.0, set[0].Duration)
	assert.Equal(t, 44100, set[0].SampleRate)
	assert.Equal(t, "bird", set[0].Label)
	assert.Equal(t, "frog", set[1].Label)
}

func TestReadCSVMissingColumns(t *testing.T) {
	input := "FOLDER,IN FILE,OFFSET,DURATION\n./audio/,a.wav,0.5,2.0\n"

	_, err := ReadCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestReadCSVUnparseableValueFailsWholeLoad(t *testing.T) {
	input := header +
		"./audio/,a.wav,10,0,0.5,2.0,44100,bird\n" +
		"./audio/,a.wav,10,0,five,2.0,44100,bird\n"

	set, err := ReadCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
	assert.Nil(t, set)
}

func TestReadCSVHeaderCaseInsensitive(t *testing.T) {
	input := "folder,in file,clip length,channel,offset,duration,sample rate,manual id\n" +
		"./audio/,a.wav,10,0,0.5,2.0,44100,bird\n"

	set, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, set, 1)
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
}
