package stats

import (
	"math"
	"sort"

	apperrors "github.com/acousticlab/annometer/internal/errors"
	"github.com/acousticlab/annometer/internal/types"
)

// DurationSummary describes the distribution of annotation durations in a
// table: how long the labels are, and how spread out.
type DurationSummary struct {
	Count  int     `json:"count"`
	Mode   float64 `json:"mode"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"standard_deviation"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// DurationStatistics summarizes the duration column of an annotation set.
// The mode is taken over durations rounded to 2 decimals, smallest value
// winning ties; quartiles use linear interpolation between order
// statistics.
func DurationStatistics(set types.AnnotationSet) (DurationSummary, error) {
	if len(set) == 0 {
		return DurationSummary{}, apperrors.NewValidationError("annotation set is empty")
	}

	durations := make([]float64, len(set))
	for i, a := range set {
		durations[i] = a.Duration
	}
	sort.Float64s(durations)

	var sum float64
	for _, d := range durations {
		sum += d
	}
	mean := sum / float64(len(durations))

	var sq float64
	for _, d := range durations {
		sq += (d - mean) * (d - mean)
	}
	std := math.Sqrt(sq / float64(len(durations)))

	return DurationSummary{
		Count:  len(durations),
		Mode:   modeOf(durations),
		Mean:   mean,
		StdDev: std,
		Min:    durations[0],
		Q1:     quantile(durations, 0.25),
		Median: quantile(durations, 0.5),
		Q3:     quantile(durations, 0.75),
		Max:    durations[len(durations)-1],
	}, nil
}

// modeOf expects sorted input; walking in order makes the smallest value
// win frequency ties.
func modeOf(sorted []float64) float64 {
	counts := map[float64]int{}
	for _, d := range sorted {
		counts[math.Round(d*100)/100]++
	}
	best, bestCount := 0.0, 0
	for _, d := range sorted {
		key := math.Round(d*100) / 100
		if counts[key] > bestCount {
			best, bestCount = key, counts[key]
		}
	}
	return best
}

// quantile interpolates linearly between adjacent order statistics of a
// sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
