// Package loader reads annotation tables from CSV. The column layout
// follows the field-recording convention of one annotation per row with
// upper-case headers.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/acousticlab/annometer/internal/errors"
	"github.com/acousticlab/annometer/internal/types"
)

// Required columns. OFFSET and DURATION carry seconds; MANUAL ID is the
// class label.
const (
	colFolder     = "FOLDER"
	colInFile     = "IN FILE"
	colClipLength = "CLIP LENGTH"
	colChannel    = "CHANNEL"
	colOffset     = "OFFSET"
	colDuration   = "DURATION"
	colSampleRate = "SAMPLE RATE"
	colLabel      = "MANUAL ID"
)

var requiredColumns = []string{
	colFolder, colInFile, colClipLength, colChannel,
	colOffset, colDuration, colSampleRate, colLabel,
}

// ReadCSV parses an annotation table. Missing columns and unparseable
// cells fail the whole load immediately; a table that cannot be trusted
// must never degrade into a partial evaluation.
func ReadCSV(r io.Reader) (types.AnnotationSet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewSchemaError("annotation table has no header row", nil)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	missing := map[string]string{}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing[col] = "column not found"
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError("annotation table is missing required columns", missing)
	}

	var set types.AnnotationSet
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewSchemaError(
				fmt.Sprintf("annotation table is malformed at line %d", line),
				map[string]string{"csv": err.Error()})
		}

		a, problems := parseRow(record, index)
		if len(problems) > 0 {
			return nil, apperrors.NewSchemaError(
				fmt.Sprintf("annotation table has unparseable values at line %d", line),
				problems)
		}
		set = append(set, a)
	}
	return set, nil
}

func parseRow(record []string, index map[string]int) (types.Annotation, map[string]string) {
	problems := map[string]string{}

	cell := func(col string) string {
		return strings.TrimSpace(record[index[col]])
	}
	parseFloat := func(col string) float64 {
		v, err := strconv.ParseFloat(cell(col), 64)
		if err != nil {
			problems[col] = fmt.Sprintf("not a number: %q", cell(col))
		}
		return v
	}
	parseInt := func(col string) int {
		v, err := strconv.Atoi(cell(col))
		if err != nil {
			problems[col] = fmt.Sprintf("not an integer: %q", cell(col))
		}
		return v
	}

	a := types.Annotation{
		Folder:     cell(colFolder),
		InFile:     cell(colInFile),
		ClipLength: parseFloat(colClipLength),
		Channel:    parseInt(colChannel),
		Offset:     parseFloat(colOffset),
		Duration:   parseFloat(colDuration),
		SampleRate: parseInt(colSampleRate),
		Label:      cell(colLabel),
	}
	return a, problems
}
