package stats

import (
	"github.com/acousticlab/annometer/internal/monitoring"
	"github.com/acousticlab/annometer/internal/types"
)

// GlobalStatistics micro-averages threshold-mode confusion rows across the
// corpus: counts are summed first and the ratios recomputed from the sums.
// Averaging per-clip precision or recall values would weight every clip
// equally regardless of label count and is deliberately avoided.
func GlobalStatistics(rows []types.ConfusionRow, label string, log *monitoring.Logger) types.GlobalMetrics {
	if log == nil {
		log = monitoring.NewLogger()
	}

	var tp, fn, fp float64
	for _, r := range rows {
		tp += r.TruePositive
		fn += r.FalseNegative
		fp += r.FalsePositive
	}

	metrics := types.GlobalMetrics{
		Label:         label,
		TruePositive:  tp,
		FalseNegative: fn,
		FalsePositive: fp,
	}

	if tp+fn == 0 || tp+fp == 0 {
		log.DegenerateMetricLogger("corpus", label, "zero denominator in corpus confusion sums")
		return metrics
	}
	recall := round4(tp / (tp + fn))
	precision := round4(tp / (tp + fp))
	if recall+precision == 0 {
		log.DegenerateMetricLogger("corpus", label, "precision and recall both zero")
		return metrics
	}
	metrics.Recall = recall
	metrics.Precision = precision
	metrics.F1 = round4(2 * recall * precision / (recall + precision))
	return metrics
}

// GlobalGeneralStatistics micro-averages general-mode confusion rows. The
// counts are seconds, so the sums carry over directly; Global IoU is the
// summed true-positive time over the summed union time.
func GlobalGeneralStatistics(rows []types.ConfusionRow, label string, log *monitoring.Logger) types.GlobalMetrics {
	if log == nil {
		log = monitoring.NewLogger()
	}

	var tp, fn, fp, tn, union float64
	for _, r := range rows {
		tp += r.TruePositive
		fn += r.FalseNegative
		fp += r.FalsePositive
		tn += r.TrueNegative
		union += r.Union
	}

	metrics := types.GlobalMetrics{
		Label:         label,
		TruePositive:  tp,
		FalseNegative: fn,
		FalsePositive: fp,
		TrueNegative:  tn,
		Union:         union,
	}

	if tp+fn == 0 || tp+fp == 0 || union == 0 {
		log.DegenerateMetricLogger("corpus", label, "zero denominator in corpus overlap sums")
		return metrics
	}
	recall := tp / (tp + fn)
	precision := tp / (tp + fp)
	if recall+precision == 0 {
		log.DegenerateMetricLogger("corpus", label, "precision and recall both zero")
		return metrics
	}
	metrics.Recall = round6(recall)
	metrics.Precision = round6(precision)
	metrics.F1 = round6(2 * recall * precision / (recall + precision))
	metrics.IoU = round6(tp / union)
	return metrics
}

// ClassStatistics groups confusion rows by class label, in first-seen
// order, and micro-averages each group on its own.
func ClassStatistics(rows []types.ConfusionRow, mode Mode, log *monitoring.Logger) []types.GlobalMetrics {
	byLabel := map[string][]types.ConfusionRow{}
	var order []string
	for _, r := range rows {
		if _, seen := byLabel[r.Label]; !seen {
			order = append(order, r.Label)
		}
		byLabel[r.Label] = append(byLabel[r.Label], r)
	}

	out := make([]types.GlobalMetrics, 0, len(order))
	for _, label := range order {
		if mode == ModeGeneral {
			out = append(out, GlobalGeneralStatistics(byLabel[label], label, log))
		} else {
			out = append(out, GlobalStatistics(byLabel[label], label, log))
		}
	}
	return out
}
