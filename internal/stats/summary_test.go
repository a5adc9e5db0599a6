package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileInterpolates(t *testing.T) {
	values := []float64{40, 10, 30, 20}

	assert.InDelta(t, 10, Quantile(values, 0), 1e-9)
	assert.InDelta(t, 25, Quantile(values, 0.5), 1e-9)
	assert.InDelta(t, 40, Quantile(values, 1), 1e-9)
	assert.InDelta(t, 17.5, Quantile(values, 0.25), 1e-9)

	// input must be left untouched
	assert.Equal(t, []float64{40, 10, 30, 20}, values)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{12, 14, 13, 15, 60})

	require.Equal(t, 5, s.Count)
	assert.Equal(t, 12.0, s.Min)
	assert.Equal(t, 60.0, s.Max)
	assert.Equal(t, 14.0, s.Median)
	assert.InDelta(t, 22.8, s.Mean, 1e-9)
	assert.Equal(t, 1, s.Outliers)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 0.0, StdDev([]float64{5}))
}

func TestSummarizeQuartilesMatchQuantile(t *testing.T) {
	values := []float64{31, 7, 19, 42, 12, 25}
	s := Summarize(values)

	assert.Equal(t, Quantile(values, 0.25), s.Q1)
	assert.Equal(t, Median(values), s.Median)
	assert.Equal(t, Quantile(values, 0.75), s.Q3)
	assert.Equal(t, 7.0, s.Min)
	assert.Equal(t, 42.0, s.Max)
}
