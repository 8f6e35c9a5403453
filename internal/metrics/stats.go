package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// SampleStdDev computes the standard deviation with Bessel's correction.
// Returns NaN when fewer than 2 values are available.
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(values, nil)
}

// Interval95 returns the normal-approximation 95% interval (z=1.96)
// around an estimate with the given standard error. A NaN standard error
// yields a NaN interval.
func Interval95(estimate, stdErr float64) (float64, float64) {
	margin := 1.96 * stdErr
	return estimate - margin, estimate + margin
}
