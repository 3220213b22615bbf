package evolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationStatsKnownValues(t *testing.T) {
	stats := newGenerationStats(3, 120, []float64{1, 2, 3, 4})

	assert.Equal(t, 3, stats.Generation)
	assert.Equal(t, 120, stats.Evaluated)
	assert.Equal(t, 2.5, stats.Mean)
	assert.InDelta(t, math.Sqrt(1.25), stats.StdDev, 1e-12)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 4.0, stats.Max)
}

func TestStatsUniformValues(t *testing.T) {
	stats := newGenerationStats(0, 5, []float64{7, 7, 7, 7, 7})

	assert.Equal(t, 7.0, stats.Mean)
	assert.Equal(t, 0.0, stats.StdDev)
	assert.Equal(t, 7.0, stats.Min)
	assert.Equal(t, 7.0, stats.Max)
}

func TestStatsSingleValue(t *testing.T) {
	stats := newGenerationStats(0, 1, []float64{42})

	assert.Equal(t, 42.0, stats.Mean)
	assert.Equal(t, 0.0, stats.StdDev)
	assert.Equal(t, 42.0, stats.Min)
	assert.Equal(t, 42.0, stats.Max)
}

func TestStatsEmptyValues(t *testing.T) {
	// Degenerate but must not panic or divide by zero.
	stats := newGenerationStats(0, 0, nil)

	assert.Equal(t, 0.0, stats.Mean)
	assert.Equal(t, 0.0, stats.StdDev)
	assert.Equal(t, 0.0, stats.Min)
	assert.Equal(t, 0.0, stats.Max)
}

func TestCalculateStdDevPopulationSemantics(t *testing.T) {
	// Population (not sample) variance: [2, 4] has mean 3 and deviation 1.
	assert.Equal(t, 1.0, calculateStdDev([]float64{2, 4}))
	assert.Equal(t, 2.0, calculateStdDev([]float64{2, 6}))
}
