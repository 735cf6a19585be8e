package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acousticlab/annometer/internal/types"
)

func TestGlobalStatisticsMicroAverages(t *testing.T) {
	// Clip 1 carries 9 labels, clip 2 only 1. Micro-averaging weights
	// clip 1 accordingly: recall is 9/10, not the 0.5 a mean of per-clip
	// recalls (1.0 and 0.0) would give.
	rows := []types.ConfusionRow{
		{Label: "bird", TruePositive: 9, FalseNegative: 0, FalsePositive: 1, Recall: 1.0},
		{Label: "bird", TruePositive: 0, FalseNegative: 1, FalsePositive: 0, Recall: 0.0},
	}

	metrics := GlobalStatistics(rows, "bird", nil)
	assert.Equal(t, 9.0, metrics.TruePositive)
	assert.Equal(t, 1.0, metrics.FalseNegative)
	assert.Equal(t, 1.0, metrics.FalsePositive)
	assert.Equal(t, 0.9, metrics.Recall)
	assert.Equal(t, 0.9, metrics.Precision)
	assert.Equal(t, 0.9, metrics.F1)
}

func TestGlobalStatisticsDegenerate(t *testing.T) {
	rows := []types.ConfusionRow{
		{Label: "bird", TruePositive: 0, FalseNegative: 0, FalsePositive: 0},
	}

	metrics := GlobalStatistics(rows, "bird", nil)
	assert.Equal(t, 0.0, metrics.Precision)
	assert.Equal(t, 0.0, metrics.Recall)
	assert.Equal(t, 0.0, metrics.F1)
}

func TestGlobalGeneralStatistics(t *testing.T) {
	rows := []types.ConfusionRow{
		{Label: "bird", TruePositive: 2, FalseNegative: 2, FalsePositive: 2, TrueNegative: 4, Union: 6},
		{Label: "bird", TruePositive: 4, FalseNegative: 0, FalsePositive: 0, TrueNegative: 6, Union: 4},
	}

	metrics := GlobalGeneralStatistics(rows, "bird", nil)
	assert.Equal(t, 6.0, metrics.TruePositive)
	assert.Equal(t, 10.0, metrics.TrueNegative)
	assert.Equal(t, 10.0, metrics.Union)
	assert.Equal(t, 0.75, metrics.Recall)
	assert.Equal(t, 0.75, metrics.Precision)
	assert.Equal(t, 0.75, metrics.F1)
	assert.Equal(t, 0.6, metrics.IoU)
}

func TestClassStatisticsGroupsByLabel(t *testing.T) {
	rows := []types.ConfusionRow{
		{Label: "bird", TruePositive: 3, FalseNegative: 1, FalsePositive: 0},
		{Label: "frog", TruePositive: 1, FalseNegative: 1, FalsePositive: 1},
		{Label: "bird", TruePositive: 1, FalseNegative: 1, FalsePositive: 0},
	}

	perClass := ClassStatistics(rows, ModeIoU, nil)
	assert.Len(t, perClass, 2)
	assert.Equal(t, "bird", perClass[0].Label)
	assert.Equal(t, 4.0, perClass[0].TruePositive)
	assert.Equal(t, 2.0, perClass[0].FalseNegative)
	assert.Equal(t, "frog", perClass[1].Label)
	assert.Equal(t, 0.5, perClass[1].Recall)
	assert.Equal(t, 0.5, perClass[1].Precision)
}
