// Package compare contrasts two fitted gain curves with paired bootstrap
// standard errors.
package compare

import (
	"fmt"

	"github.com/spboyer/maq/internal/curve"
	"github.com/spboyer/maq/internal/metrics"
	"github.com/spboyer/maq/internal/models"
	"github.com/spboyer/maq/internal/solver"
	"github.com/spboyer/maq/internal/statistics"
)

// DifferenceGain returns gain(a) - gain(b) at spend. The standard error is
// taken over the per-draw differences of the two curves' replicates, which
// requires both curves to have been fit on the same units with the same
// draw plan. A curve compared with itself yields exactly (0, 0).
func DifferenceGain(a, b *curve.Curve, spend float64) (models.Estimate, error) {
	return difference(a, b, spend, (*solver.Path).GainAt)
}

// IntegratedDifference returns the area between the gain curves of a and b
// over [0, spend], with a paired standard error.
func IntegratedDifference(a, b *curve.Curve, spend float64) (models.Estimate, error) {
	return difference(a, b, spend, (*solver.Path).Area)
}

// DifferenceInterval returns a percentile bootstrap interval for
// gain(a) - gain(b) at spend.
func DifferenceInterval(a, b *curve.Curve, spend, level float64) (statistics.ConfidenceInterval, error) {
	if !(level > 0 && level < 1) {
		return statistics.ConfidenceInterval{}, fmt.Errorf("%w: confidence level %g must be in (0, 1)", models.ErrInvalidInput, level)
	}
	if err := checkPair(a, b, spend); err != nil {
		return statistics.ConfidenceInterval{}, err
	}
	est := a.Path().GainAt(spend) - b.Path().GainAt(spend)
	return statistics.PercentileInterval(est, pairedDiffs(a, b, spend, (*solver.Path).GainAt), level), nil
}

type measure func(p *solver.Path, spend float64) float64

func difference(a, b *curve.Curve, spend float64, m measure) (models.Estimate, error) {
	if err := checkPair(a, b, spend); err != nil {
		return models.Estimate{}, err
	}
	if a == b {
		return models.Estimate{}, nil
	}
	return models.Estimate{
		Value:  m(a.Path(), spend) - m(b.Path(), spend),
		StdErr: metrics.SampleStdDev(pairedDiffs(a, b, spend, m)),
	}, nil
}

// checkPair validates spend against both curves and that their replicates
// line up draw for draw.
func checkPair(a, b *curve.Curve, spend float64) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil curve", models.ErrInvalidInput)
	}
	if err := a.CheckSpend(spend); err != nil {
		return err
	}
	if err := b.CheckSpend(spend); err != nil {
		return err
	}
	if a == b {
		return nil
	}
	if a.Units() != b.Units() {
		return fmt.Errorf("%w: curves fit on %d and %d units", models.ErrIncompatibleCurves, a.Units(), b.Units())
	}
	pa, pb := a.Replicates().Plan(), b.Replicates().Plan()
	if pa.ID() != pb.ID() {
		return fmt.Errorf("%w: draw plans %s and %s differ; fit both curves with the same seed, replicates and clusters",
			models.ErrIncompatibleCurves, pa.ID(), pb.ID())
	}
	return nil
}

// pairedDiffs evaluates m on every draw usable in both curves.
func pairedDiffs(a, b *curve.Curve, spend float64, m measure) []float64 {
	ra, rb := a.Replicates(), b.Replicates()
	out := make([]float64, 0, ra.Requested())
	for i := 0; i < ra.Requested(); i++ {
		pa, pb := ra.Path(i), rb.Path(i)
		if pa == nil || pb == nil {
			continue
		}
		out = append(out, m(pa, spend)-m(pb, spend))
	}
	return out
}
