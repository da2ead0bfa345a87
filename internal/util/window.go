package util

import (
	"math"

	"github.com/asecurityteam/rolling"
)

func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// GetWindowMax returns the max value in the window
func GetWindowMax(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Max)
}

// GetPartialWindowAvg returns the average of the values in a window that
// has seen only appended values so far. Empty slots are not counted.
func GetPartialWindowAvg(window *rolling.PointPolicy, appended int64) float64 {
	if appended <= 0 {
		return math.NaN()
	}
	filled := math.Min(float64(appended), window.Reduce(rolling.Count))
	return window.Reduce(rolling.Sum) / filled
}
