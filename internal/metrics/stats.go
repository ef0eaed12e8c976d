// Package metrics holds the small numeric helpers shared by scoring and
// domain analysis.
package metrics

import "math"

// Sum adds a float64 slice.
func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// MeanOr is Mean with a caller-chosen value for empty input.
func MeanOr(values []float64, empty float64) float64 {
	if len(values) == 0 {
		return empty
	}
	return Mean(values)
}

// Variance computes the population variance of a float64 slice.
// Returns 0 for empty input.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(len(values))
}

// StdDev computes the population standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return min(hi, max(lo, v))
}

// Level floors v and bounds it to [lo, hi].
func Level(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		return lo
	}
	f := math.Floor(v)
	if f < float64(lo) {
		return lo
	}
	if f > float64(hi) {
		return hi
	}
	return int(f)
}
