package roc

import (
	"sort"

	apperrors "github.com/acousticlab/annometer/internal/errors"
)

// Point is one operating point of an ROC curve: the false and true
// positive rates obtained by accepting every score >= Threshold.
type Point struct {
	FalsePositiveRate float64 `json:"fpr"`
	TruePositiveRate  float64 `json:"tpr"`
	Threshold         float64 `json:"threshold"`
}

// Curve sweeps a target/confidence pair into ROC operating points, one per
// distinct confidence value in descending order, bracketed by the (0, 0)
// and (1, 1) endpoints.
func Curve(pair Pair) ([]Point, error) {
	if len(pair.Target) != len(pair.Confidence) {
		return nil, apperrors.NewValidationError("target and confidence lengths differ")
	}
	if len(pair.Target) == 0 {
		return nil, apperrors.NewValidationError("target sequence is empty")
	}

	positives, negatives := 0, 0
	for _, t := range pair.Target {
		if t == 1 {
			positives++
		} else {
			negatives++
		}
	}
	if positives == 0 || negatives == 0 {
		return nil, apperrors.NewValidationError("target sequence must contain both classes")
	}

	type scored struct {
		score  float64
		target uint8
	}
	samples := make([]scored, len(pair.Target))
	for i := range pair.Target {
		samples[i] = scored{score: pair.Confidence[i], target: pair.Target[i]}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].score > samples[j].score })

	points := []Point{{FalsePositiveRate: 0, TruePositiveRate: 0, Threshold: samples[0].score + 1}}
	tp, fp := 0, 0
	for i, s := range samples {
		if s.target == 1 {
			tp++
		} else {
			fp++
		}
		// Emit one point per distinct score, after absorbing ties.
		if i+1 < len(samples) && samples[i+1].score == s.score {
			continue
		}
		points = append(points, Point{
			FalsePositiveRate: float64(fp) / float64(negatives),
			TruePositiveRate:  float64(tp) / float64(positives),
			Threshold:         s.score,
		})
	}
	return points, nil
}

// AUC integrates an ROC curve with the trapezoid rule.
func AUC(points []Point) float64 {
	area := 0.0
	for i := 1; i < len(points); i++ {
		dx := points[i].FalsePositiveRate - points[i-1].FalsePositiveRate
		area += dx * (points[i].TruePositiveRate + points[i-1].TruePositiveRate) / 2
	}
	return area
}
