package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/spboyer/maq/internal/models"
	"github.com/spboyer/maq/internal/solver"
	"github.com/spboyer/maq/internal/statistics"
)

// Curve is a fitted gain curve: the canonical solution path plus the
// bootstrap replicates used for its standard errors. It is immutable and
// safe for concurrent queries.
type Curve struct {
	path     *solver.Path
	reps     *statistics.Replicates
	baseline bool
}

// Budget returns the maximum spend the curve can be queried at.
func (c *Curve) Budget() float64 { return c.path.Budget() }

// Units returns the number of units the curve was fit on.
func (c *Curve) Units() int { return c.path.Units() }

// Baseline reports whether the curve uses the baseline ranking.
func (c *Curve) Baseline() bool { return c.baseline }

// Complete reports whether every admissible action fit within the budget.
func (c *Curve) Complete() bool { return c.path.Complete() }

// Path returns the canonical solution path.
func (c *Curve) Path() *solver.Path { return c.path }

// Replicates returns the bootstrap replicates backing the standard errors.
func (c *Curve) Replicates() *statistics.Replicates { return c.reps }

// Breakpoints returns a copy of the breakpoint sequence, for plotting.
func (c *Curve) Breakpoints() []models.Breakpoint { return c.path.Breakpoints() }

// PathStdErr returns the bootstrap standard error at each breakpoint spend.
func (c *Curve) PathStdErr() []float64 {
	bps := c.path.Breakpoints()
	out := make([]float64, len(bps))
	for i, bp := range bps {
		out[i] = c.reps.StdErr(bp.Spend)
	}
	return out
}

// CheckSpend returns an error unless spend lies in [0, Budget()].
func (c *Curve) CheckSpend(spend float64) error {
	if math.IsNaN(spend) || spend < 0 || spend > c.path.Budget() {
		return fmt.Errorf("%w: spend %g outside [0, %g]", models.ErrInvalidInput, spend, c.path.Budget())
	}
	return nil
}

// AverageGain returns the gain at spend, interpolated between the
// bracketing breakpoints, with its bootstrap standard error. The standard
// error is NaN when fewer than two replicates are usable.
func (c *Curve) AverageGain(spend float64) (models.Estimate, error) {
	if err := c.CheckSpend(spend); err != nil {
		return models.Estimate{}, err
	}
	return models.Estimate{
		Value:  c.path.GainAt(spend),
		StdErr: c.reps.StdErr(spend),
	}, nil
}

// Interval returns a percentile bootstrap interval for the gain at spend.
func (c *Curve) Interval(spend, level float64) (statistics.ConfidenceInterval, error) {
	if err := c.CheckSpend(spend); err != nil {
		return statistics.ConfidenceInterval{}, err
	}
	if !(level > 0 && level < 1) {
		return statistics.ConfidenceInterval{}, fmt.Errorf("%w: confidence level %g must be in (0, 1)", models.ErrInvalidInput, level)
	}
	return statistics.PercentileInterval(c.path.GainAt(spend), c.reps.GainsAt(spend), level), nil
}

// Predict returns the n x K assignment matrix at spend. Each row is one-hot
// or zero, except for at most one fractionally assigned unit.
func (c *Curve) Predict(spend float64) ([][]float64, error) {
	if err := c.CheckSpend(spend); err != nil {
		return nil, err
	}
	return c.path.AssignmentAt(spend), nil
}

// Assign returns the option index each unit fully holds at spend, or
// models.NoOption.
func (c *Curve) Assign(spend float64) ([]int, error) {
	if err := c.CheckSpend(spend); err != nil {
		return nil, err
	}
	return c.path.Assign(spend), nil
}

// IsBootstrapError reports whether err came from a bootstrap run whose
// curve is still returned and usable with best-effort standard errors.
func IsBootstrapError(err error) bool {
	var be *statistics.BootstrapError
	return errors.As(err, &be)
}
