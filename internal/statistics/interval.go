package statistics

import (
	"math"
	"sort"
)

// ConfidenceInterval holds the result of a bootstrap confidence interval computation.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Estimate        float64 `json:"estimate"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// PercentileInterval computes a percentile-method interval from replicate
// values around the point estimate. confidenceLevel should be in (0, 1),
// e.g. 0.95. With fewer than 2 replicate values the interval collapses to
// NaN bounds.
func PercentileInterval(estimate float64, values []float64, confidenceLevel float64) ConfidenceInterval {
	n := len(values)
	if n < 2 {
		return ConfidenceInterval{
			Lower:           math.NaN(),
			Upper:           math.NaN(),
			Estimate:        estimate,
			ConfidenceLevel: confidenceLevel,
			NumBootstraps:   n,
		}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	alpha := 1.0 - confidenceLevel
	loIdx := int(math.Floor(alpha / 2.0 * float64(n)))
	hiIdx := int(math.Floor((1.0 - alpha/2.0) * float64(n)))
	if hiIdx >= n {
		hiIdx = n - 1
	}

	return ConfidenceInterval{
		Lower:           sorted[loIdx],
		Upper:           sorted[hiIdx],
		Estimate:        estimate,
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   n,
	}
}

// IsSignificant returns true if the confidence interval does not contain zero,
// indicating statistical significance at the given confidence level.
func IsSignificant(ci ConfidenceInterval) bool {
	return ci.Lower > 0 || ci.Upper < 0
}
