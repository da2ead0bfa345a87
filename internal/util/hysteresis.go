package util

// DetectCrossing evaluates sample against a threshold surrounded by a symmetric
// dead band of +-hysteresis (fraction of threshold, 0.05 -> +-5%).
//
// While above, the state is only left when the sample drops below the lower band edge.
// While below, the state is only left when the sample reaches the upper band edge.
// A NaN sample never changes the state.
func DetectCrossing(sample float64, threshold float64, hysteresis float64, wasAbove bool) (isAbove bool, crossed bool) {
	upper := threshold * (1 + hysteresis)
	lower := threshold * (1 - hysteresis)

	isAbove = wasAbove
	if wasAbove {
		if sample < lower {
			isAbove = false
		}
	} else {
		if sample >= upper {
			isAbove = true
		}
	}

	return isAbove, isAbove != wasAbove
}
