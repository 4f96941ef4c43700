package rankings

import "math"

// roundTo rounds x to the given number of decimal places, with halves
// rounding up toward positive infinity (2.5 -> 3, -2.5 -> -2).
func roundTo(x float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Floor(x*factor+0.5) / factor
}
