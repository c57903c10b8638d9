package indicator

import "math"

// RollingMean calculates a simple moving average aligned to the input:
// the result has the same length as values, with NaN for every index
// before the window has filled. Uses an incremental rolling sum.
func RollingMean(values []float64, window int) []float64 {
	result := make([]float64, len(values))
	if window <= 0 || len(values) < window {
		for i := range result {
			result[i] = math.NaN()
		}
		return result
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			result[i] = sum / float64(window)
		} else {
			result[i] = math.NaN()
		}
	}

	return result
}
