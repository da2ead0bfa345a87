package util

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Coerce returns value limited to the range [min, max]
func Coerce[T constraints.Float | constraints.Integer](value T, min T, max T) T {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// Lerp interpolates linearly between a and b
func Lerp(a float64, b float64, ratio float64) float64 {
	return a + ratio*(b-a)
}

// UpdateExponentialMovingAvg blends newValue into oldAvg using the smoothing coefficient alpha.
// A NaN oldAvg is treated as "no history yet".
func UpdateExponentialMovingAvg(oldAvg float64, alpha float64, newValue float64) float64 {
	if math.IsNaN(oldAvg) {
		return newValue
	}
	return (1-alpha)*oldAvg + alpha*newValue
}

// InterpolateTable returns the value of the evenly spaced table at the fractional index,
// interpolating linearly between neighbouring entries. Indices outside the table
// are clamped to the first / last entry.
func InterpolateTable(table []float64, index float64) float64 {
	last := len(table) - 1
	if last < 0 {
		return math.NaN()
	}
	if math.IsNaN(index) || index <= 0 || last == 0 {
		return table[0]
	}
	if index >= float64(last) {
		return table[last]
	}

	lower := int(math.Floor(index))
	return Lerp(table[lower], table[lower+1], index-float64(lower))
}
