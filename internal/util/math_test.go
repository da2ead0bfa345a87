package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	assert.Equal(t, 3.0, Coerce(4.2, 0, 3.0))
	assert.Equal(t, 0.0, Coerce(-1.0, 0, 3.0))
	assert.Equal(t, 1.5, Coerce(1.5, 0, 3.0))
	assert.Equal(t, 5, Coerce(7, 0, 5))
}

func TestUpdateExponentialMovingAvg(t *testing.T) {
	// first sample seeds the average
	avg := UpdateExponentialMovingAvg(math.NaN(), 0.1, 20)
	assert.Equal(t, 20.0, avg)

	avg = UpdateExponentialMovingAvg(avg, 0.1, 10)
	assert.InDelta(t, 19.0, avg, 1e-9)
}

func TestInterpolateTable(t *testing.T) {
	// GIVEN
	table := []float64{1.0, 0.5, 0.25}

	// WHEN / THEN
	assert.Equal(t, 1.0, InterpolateTable(table, -3))
	assert.Equal(t, 1.0, InterpolateTable(table, 0))
	assert.Equal(t, 0.75, InterpolateTable(table, 0.5))
	assert.Equal(t, 0.5, InterpolateTable(table, 1))
	assert.Equal(t, 0.375, InterpolateTable(table, 1.5))
	assert.Equal(t, 0.25, InterpolateTable(table, 2))
	assert.Equal(t, 0.25, InterpolateTable(table, 17))
	assert.Equal(t, 1.0, InterpolateTable(table, math.NaN()))
}

func TestInterpolateTable_Empty(t *testing.T) {
	assert.True(t, math.IsNaN(InterpolateTable(nil, 1)))
}
