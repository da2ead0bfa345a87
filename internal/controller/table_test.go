package controller

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRpmFactorTable(t *testing.T) {
	// WHEN
	table, err := NewRpmFactorTable(500, 4500, 100)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 41, table.Len())
	entries := table.Entries()
	assert.Equal(t, RpmFactorEntry{Rpm: 500, Factor: 1}, entries[0])
	assert.Equal(t, 4500.0, entries[40].Rpm)
	assert.InDelta(t, 500.0/4500.0, entries[40].Factor, 1e-12)
}

func TestNewRpmFactorTable_Invalid(t *testing.T) {
	_, err := NewRpmFactorTable(0, 4500, 100)
	assert.Error(t, err)
	_, err = NewRpmFactorTable(500, 500, 100)
	assert.Error(t, err)
	_, err = NewRpmFactorTable(500, 4500, 0)
	assert.Error(t, err)
}

func TestRpmFactorTable_Factor(t *testing.T) {
	// GIVEN
	table, err := NewRpmFactorTable(500, 4500, 100)
	require.NoError(t, err)

	// THEN
	// exact table points
	assert.Equal(t, 1.0, table.Factor(500))
	assert.InDelta(t, 0.5, table.Factor(1000), 1e-12)
	// midpoint between 500 (1.0) and 600 (0.8333)
	assert.InDelta(t, (1.0+500.0/600.0)/2, table.Factor(550), 1e-12)
	// clamped below and above the table
	assert.Equal(t, 1.0, table.Factor(0))
	assert.Equal(t, 1.0, table.Factor(499))
	assert.InDelta(t, 500.0/4500.0, table.Factor(4500), 1e-12)
	assert.InDelta(t, 500.0/4500.0, table.Factor(10000), 1e-12)
	// never sampled
	assert.Equal(t, 1.0, table.Factor(math.NaN()))
}

func TestRpmFactorTable_Monotonic(t *testing.T) {
	// GIVEN
	table, err := NewRpmFactorTable(500, 4500, 100)
	require.NoError(t, err)

	// THEN
	previous := math.Inf(1)
	for rpm := 0.0; rpm <= 5000; rpm += 37 {
		factor := table.Factor(rpm)
		assert.LessOrEqual(t, factor, previous)
		assert.GreaterOrEqual(t, factor, 0.0)
		assert.LessOrEqual(t, factor, 1.0)
		previous = factor
	}
}
