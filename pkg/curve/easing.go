package curve

import "math"

// EasingSine maps a linear fade progress to a sine-eased weight:
// sin(clamp(x, 0, 1) * π/2). The result is monotonic from 0 to 1 and
// decelerates smoothly into full weight.
func EasingSine(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return math.Sin(value * math.Pi / 2)
}
