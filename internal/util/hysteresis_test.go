package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCrossing_RisesAtUpperEdge(t *testing.T) {
	// GIVEN
	threshold := 500.0
	hysteresis := 0.05

	// WHEN
	below, crossedBelow := DetectCrossing(524, threshold, hysteresis, false)
	above, crossedAbove := DetectCrossing(525, threshold, hysteresis, false)

	// THEN
	assert.False(t, below)
	assert.False(t, crossedBelow)
	assert.True(t, above)
	assert.True(t, crossedAbove)
}

func TestDetectCrossing_FallsBelowLowerEdge(t *testing.T) {
	// GIVEN
	threshold := 500.0
	hysteresis := 0.05

	// WHEN
	atEdge, crossedAtEdge := DetectCrossing(475, threshold, hysteresis, true)
	below, crossedBelow := DetectCrossing(474, threshold, hysteresis, true)

	// THEN
	assert.True(t, atEdge)
	assert.False(t, crossedAtEdge)
	assert.False(t, below)
	assert.True(t, crossedBelow)
}

func TestDetectCrossing_DeadBandKeepsState(t *testing.T) {
	threshold := 500.0
	hysteresis := 0.05

	for _, sample := range []float64{476, 490, 500, 510, 524} {
		for _, state := range []bool{true, false} {
			result, crossed := DetectCrossing(sample, threshold, hysteresis, state)
			assert.Equal(t, state, result, "sample %v state %v", sample, state)
			assert.False(t, crossed)
		}
	}
}

func TestDetectCrossing_RepeatedSampleIsIdempotent(t *testing.T) {
	// GIVEN
	state := false
	crossings := 0

	// WHEN
	for i := 0; i < 5; i++ {
		var crossed bool
		state, crossed = DetectCrossing(600, 500, 0.05, state)
		if crossed {
			crossings++
		}
	}

	// THEN
	assert.True(t, state)
	assert.Equal(t, 1, crossings)
}

func TestDetectCrossing_NaNKeepsState(t *testing.T) {
	above, crossed := DetectCrossing(math.NaN(), 500, 0.05, true)
	assert.True(t, above)
	assert.False(t, crossed)

	above, crossed = DetectCrossing(math.NaN(), 500, 0.05, false)
	assert.False(t, above)
	assert.False(t, crossed)
}
