package stats

import (
	apperrors "github.com/acousticlab/annometer/internal/errors"
	"github.com/acousticlab/annometer/internal/monitoring"
	"github.com/acousticlab/annometer/internal/types"
)

// MatrixScores reduces an IoU matrix and a threshold into confusion counts
// and precision/recall/F1 for one (clip, class).
//
// Matching is asymmetric greedy: each human label takes the maximum IoU
// across automated labels, each automated label the maximum across human
// labels, independently. The same automated label may therefore satisfy
// several human labels and vice versa. This is intentional; it is not a
// one-to-one bipartite assignment and must not be turned into one, since
// downstream consumers depend on its numeric behavior.
func MatrixScores(matrix [][]float64, human types.AnnotationSet, threshold float64, log *monitoring.Logger) (types.ConfusionRow, error) {
	if threshold <= 0 || threshold >= 1 {
		return types.ConfusionRow{}, apperrors.NewValidationError("threshold must be inside (0, 1)")
	}
	meta, err := human.Meta()
	if err != nil {
		return types.ConfusionRow{}, apperrors.NewValidationError("human labels: " + err.Error())
	}
	if log == nil {
		log = monitoring.NewLogger()
	}

	// Best automated match per human label.
	tp, fn := 0, 0
	for _, row := range matrix {
		best := 0.0
		for _, v := range row {
			if v > best {
				best = v
			}
		}
		if best >= threshold {
			tp++
		} else {
			fn++
		}
	}

	// Best human match per automated label.
	fp := 0
	cols := 0
	if len(matrix) > 0 {
		cols = len(matrix[0])
	}
	for j := 0; j < cols; j++ {
		best := 0.0
		for i := range matrix {
			if matrix[i][j] > best {
				best = matrix[i][j]
			}
		}
		if best < threshold {
			fp++
		}
	}

	row := types.ConfusionRow{
		Folder:        meta.Folder,
		InFile:        meta.InFile,
		Label:         human[0].Label,
		TruePositive:  float64(tp),
		FalseNegative: float64(fn),
		FalsePositive: float64(fp),
	}

	if tp+fn == 0 || tp+fp == 0 {
		log.DegenerateMetricLogger(meta.InFile, row.Label, "no labels above or below threshold on one side")
		return row, nil
	}
	recall := round4(float64(tp) / float64(tp+fn))
	precision := round4(float64(tp) / float64(tp+fp))
	if recall+precision == 0 {
		log.DegenerateMetricLogger(meta.InFile, row.Label, "precision and recall both zero")
		return row, nil
	}
	row.Recall = recall
	row.Precision = precision
	row.F1 = round4(2 * recall * precision / (recall + precision))
	return row, nil
}
