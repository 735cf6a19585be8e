package stats

import (
	"sort"
	"sync"
	"time"

	apperrors "github.com/acousticlab/annometer/internal/errors"
	"github.com/acousticlab/annometer/internal/monitoring"
	"github.com/acousticlab/annometer/internal/types"
)

// Mode selects how a clip's automated and human labels are compared.
type Mode string

const (
	// ModeIoU matches labels individually through the per-clip IoU matrix.
	ModeIoU Mode = "IoU"
	// ModeGeneral consolidates each side into one binary timeline per
	// clip and compares the timelines directly.
	ModeGeneral Mode = "general"
)

// Progress cadence of the clip loop.
const progressEvery = 50

// Report is the outcome of a corpus evaluation: one confusion row per
// processed (clip, class) plus the processed/errored tallies. Failures
// never abort a run; they are counted here instead.
type Report struct {
	Rows      []types.ConfusionRow `json:"rows"`
	Processed int                  `json:"clips_processed"`
	Errored   int                  `json:"clips_errored"`
}

// Evaluator drives clip-by-clip and class-by-class comparisons of an
// automated annotation table against a manual one.
type Evaluator struct {
	log     *monitoring.Logger
	workers int
}

// NewEvaluator creates an evaluator. A nil logger falls back to the
// default structured logger; workers < 2 selects the sequential path.
func NewEvaluator(log *monitoring.Logger, workers int) *Evaluator {
	if log == nil {
		log = monitoring.NewLogger()
	}
	if workers < 1 {
		workers = 1
	}
	return &Evaluator{log: log, workers: workers}
}

// clipResult is the typed outcome of one clip's statistics step.
type clipResult struct {
	index int
	rows  []types.ConfusionRow
	err   error
}

// AnnotationStatistics compares automated labels against manual labels
// clip by clip. Clips are taken from the automated table; the manual clip
// is matched by exact filename first, then by filename stem so that
// extension mismatches between the two tables still pair up. A failure in
// any one clip is isolated: the clip is skipped, the error counted, and
// the run continues.
func (e *Evaluator) AnnotationStatistics(automated, manual types.AnnotationSet, mode Mode, threshold float64) (Report, error) {
	if mode != ModeIoU && mode != ModeGeneral {
		return Report{}, apperrors.NewValidationError("stats mode must be \"IoU\" or \"general\"")
	}
	if mode == ModeIoU && (threshold <= 0 || threshold >= 1) {
		return Report{}, apperrors.NewValidationError("threshold must be inside (0, 1)")
	}

	clips := automated.Files()
	if e.workers > 1 {
		return e.statisticsParallel(clips, automated, manual, mode, threshold)
	}

	report := Report{}
	start := time.Now()
	for _, clip := range clips {
		report.Processed++
		rows, err := e.clipStep(clip, automated, manual, mode, threshold)
		if err != nil {
			report.Errored++
			e.log.ClipErrorLogger(clip, err)
		} else {
			report.Rows = append(report.Rows, rows...)
		}
		if report.Processed%progressEvery == 0 {
			e.log.ProgressLogger(report.Processed, time.Since(start))
			start = time.Now()
		}
	}
	if report.Errored > 0 {
		e.log.Warn("Some clips failed",
			"errored", report.Errored,
			"total", len(clips),
		)
	}
	return report, nil
}

// statisticsParallel fans clips out to a worker pool. Confusion rows are
// reassembled in clip order, so the result is identical to the sequential
// path; the reduction only ever sums counts, which is order-independent.
func (e *Evaluator) statisticsParallel(clips []string, automated, manual types.AnnotationSet, mode Mode, threshold float64) (Report, error) {
	jobs := make(chan int)
	results := make(chan clipResult, len(clips))

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				rows, err := e.clipStep(clips[idx], automated, manual, mode, threshold)
				results <- clipResult{index: idx, rows: rows, err: err}
			}
		}()
	}

	go func() {
		for idx := range clips {
			jobs <- idx
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	collected := make([]clipResult, 0, len(clips))
	start := time.Now()
	for res := range results {
		collected = append(collected, res)
		if len(collected)%progressEvery == 0 {
			e.log.ProgressLogger(len(collected), time.Since(start))
			start = time.Now()
		}
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	report := Report{Processed: len(clips)}
	for _, res := range collected {
		if res.err != nil {
			report.Errored++
			e.log.ClipErrorLogger(clips[res.index], res.err)
			continue
		}
		report.Rows = append(report.Rows, res.rows...)
	}
	if report.Errored > 0 {
		e.log.Warn("Some clips failed",
			"errored", report.Errored,
			"total", len(clips),
		)
	}
	return report, nil
}

// clipStep computes one clip's statistics and converts any failure into a
// typed per-clip error for the driver to count.
func (e *Evaluator) clipStep(clip string, automated, manual types.AnnotationSet, mode Mode, threshold float64) ([]types.ConfusionRow, error) {
	clipAutomated := automated.FilterFile(clip)
	clipManual := manual.FilterFile(clip)
	if len(clipManual) == 0 {
		// The manual table may list the clip under a different audio
		// extension; fall back to the filename stem.
		clipManual = manual.FilterFileStem(types.FileStem(clip))
	}

	var (
		row types.ConfusionRow
		err error
	)
	switch mode {
	case ModeGeneral:
		row, err = ClipGeneral(clipAutomated, clipManual, e.log)
	case ModeIoU:
		var matrix [][]float64
		matrix, err = ClipIoU(clipAutomated, clipManual)
		if err == nil {
			row, err = MatrixScores(matrix, clipManual, threshold, e.log)
		}
	}
	if err != nil {
		return nil, apperrors.NewPerClipError(clip, err)
	}
	return []types.ConfusionRow{row}, nil
}

// ClipStatistics runs AnnotationStatistics once per class label present in
// both tables and concatenates the per-class reports. Labels present on
// only one side are excluded from class-level statistics.
func (e *Evaluator) ClipStatistics(automated, manual types.AnnotationSet, mode Mode, threshold float64) (Report, error) {
	labels := intersectLabels(automated.Labels(), manual.Labels())

	var report Report
	for _, label := range labels {
		classReport, err := e.AnnotationStatistics(
			automated.FilterLabel(label),
			manual.FilterLabel(label),
			mode, threshold)
		if err != nil {
			return Report{}, err
		}
		report.Rows = append(report.Rows, classReport.Rows...)
		report.Processed += classReport.Processed
		report.Errored += classReport.Errored
	}
	return report, nil
}

// intersectLabels returns the sorted intersection of two label lists.
func intersectLabels(a, b []string) []string {
	inA := make(map[string]bool, len(a))
	for _, label := range a {
		inA[label] = true
	}
	var out []string
	for _, label := range b {
		if inA[label] {
			out = append(out, label)
			inA[label] = false
		}
	}
	sort.Strings(out)
	return out
}
