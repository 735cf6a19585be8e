package stats

import (
	apperrors "github.com/acousticlab/annometer/internal/errors"
	"github.com/acousticlab/annometer/internal/monitoring"
	"github.com/acousticlab/annometer/internal/raster"
	"github.com/acousticlab/annometer/internal/types"
)

// ClipGeneral consolidates every automated annotation and every human
// annotation of one clip (regardless of label identity) into two binary
// timelines at the clip's sample rate and compares them elementwise.
// Confusion counts are reported in seconds; precision, recall, F1, and
// Global IoU (TP/Union) default to 0 on any zero denominator.
func ClipGeneral(automated, human types.AnnotationSet, log *monitoring.Logger) (types.ConfusionRow, error) {
	meta, err := automated.Meta()
	if err != nil {
		return types.ConfusionRow{}, apperrors.NewValidationError("automated labels: " + err.Error())
	}
	if _, err := human.Meta(); err != nil {
		return types.ConfusionRow{}, apperrors.NewValidationError("human labels: " + err.Error())
	}
	if log == nil {
		log = monitoring.NewLogger()
	}

	length := int(float64(meta.SampleRate) * meta.ClipLength)
	resolution := float64(meta.SampleRate)

	botArr := make([]uint8, length)
	for _, a := range automated {
		raster.Set(botArr, raster.Interval{Offset: a.Offset, Duration: a.Duration}, resolution)
	}
	humanArr := make([]uint8, length)
	for _, a := range human {
		raster.Set(humanArr, raster.Interval{Offset: a.Offset, Duration: a.Duration}, resolution)
	}

	var tp, fn, fp, tn, union int
	for i := 0; i < length; i++ {
		h := humanArr[i] == 1
		b := botArr[i] == 1
		switch {
		case h && b:
			tp++
		case h && !b:
			fn++
		case !h && b:
			fp++
		default:
			tn++
		}
		if h || b {
			union++
		}
	}

	row := types.ConfusionRow{
		Folder:        meta.Folder,
		InFile:        meta.InFile,
		Label:         human[0].Label,
		TruePositive:  float64(tp) / resolution,
		FalseNegative: float64(fn) / resolution,
		FalsePositive: float64(fp) / resolution,
		TrueNegative:  float64(tn) / resolution,
		Union:         float64(union) / resolution,
	}

	if tp+fp == 0 || tp+fn == 0 || union == 0 {
		log.DegenerateMetricLogger(meta.InFile, row.Label, "zero denominator in general clip overlap")
		return row, nil
	}
	precision := row.TruePositive / (row.TruePositive + row.FalsePositive)
	recall := row.TruePositive / (row.TruePositive + row.FalseNegative)
	if precision+recall == 0 {
		log.DegenerateMetricLogger(meta.InFile, row.Label, "precision and recall both zero")
		return row, nil
	}
	row.Precision = precision
	row.Recall = recall
	row.F1 = 2 * recall * precision / (recall + precision)
	row.IoU = row.TruePositive / row.Union
	return row, nil
}
