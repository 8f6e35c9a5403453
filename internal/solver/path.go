package solver

import (
	"sort"

	"github.com/spboyer/maq/internal/models"
)

// Path is the piecewise-linear gain-vs-spend solution path for one dataset.
// It is immutable once built and safe for concurrent readers.
type Path struct {
	units, options int
	budget         float64
	complete       bool
	steps          []models.Step
	breakpoints    []models.Breakpoint
}

// Budget returns the maximum spend the path was built for.
func (p *Path) Budget() float64 { return p.budget }

// Units returns the number of units the path assigns.
func (p *Path) Units() int { return p.units }

// Options returns the number of options per unit.
func (p *Path) Options() int { return p.options }

// Complete reports whether every admissible action fit within the budget.
func (p *Path) Complete() bool { return p.complete }

// Degenerate reports whether the path contains no action at all.
func (p *Path) Degenerate() bool { return len(p.steps) == 0 }

// Breakpoints returns a copy of the breakpoint sequence, starting at the origin.
func (p *Path) Breakpoints() []models.Breakpoint {
	return append([]models.Breakpoint(nil), p.breakpoints...)
}

// Steps returns a copy of the applied action trace.
func (p *Path) Steps() []models.Step {
	return append([]models.Step(nil), p.steps...)
}

// GainAt linearly interpolates the cumulative gain between the breakpoints
// bracketing spend. Spend past the last breakpoint yields its gain; callers
// are expected to have checked the range.
func (p *Path) GainAt(spend float64) float64 {
	bps := p.breakpoints
	i := sort.Search(len(bps), func(i int) bool { return bps[i].Spend >= spend })
	if i == len(bps) {
		return bps[len(bps)-1].Gain
	}
	if i == 0 || bps[i].Spend == spend {
		return bps[i].Gain
	}
	a, b := bps[i-1], bps[i]
	return a.Gain + (b.Gain-a.Gain)*(spend-a.Spend)/(b.Spend-a.Spend)
}

// realized returns how many trace actions are fully paid for at spend.
func (p *Path) realized(spend float64) int {
	return sort.Search(len(p.steps), func(i int) bool { return p.steps[i].Spend > spend })
}

// Assign returns, for every unit, the option held once all actions fully
// paid for at spend are applied, or models.NoOption.
func (p *Path) Assign(spend float64) []int {
	current := make([]int, p.units)
	for i := range current {
		current[i] = models.NoOption
	}
	for _, s := range p.steps[:p.realized(spend)] {
		current[s.Unit] = s.To
	}
	return current
}

// AssignmentAt returns the n x K assignment matrix implied by the path at
// spend. Rows are one-hot or all zero, except for at most one unit whose
// action is in progress: its row splits between the previous and the next
// option in proportion to the budget already spent on the action.
func (p *Path) AssignmentAt(spend float64) [][]float64 {
	out := make([][]float64, p.units)
	for i := range out {
		out[i] = make([]float64, p.options)
	}

	j := p.realized(spend)
	for u, opt := range p.Assign(spend) {
		if opt != models.NoOption {
			out[u][opt] = 1
		}
	}

	if j < len(p.steps) {
		var prev float64
		if j > 0 {
			prev = p.steps[j-1].Spend
		}
		s := p.steps[j]
		f := (spend - prev) / s.Cost
		if f > 1 {
			f = 1
		}
		if f > 0 {
			row := out[s.Unit]
			if s.From != models.NoOption {
				row[s.From] = 1 - f
			}
			row[s.To] = f
		}
	}
	return out
}

// Area integrates the gain curve over [0, spend].
func (p *Path) Area(spend float64) float64 {
	bps := p.breakpoints
	var area float64
	for i := 1; i < len(bps); i++ {
		a, b := bps[i-1], bps[i]
		if b.Spend >= spend {
			return area + (a.Gain+p.GainAt(spend))/2*(spend-a.Spend)
		}
		area += (a.Gain + b.Gain) / 2 * (b.Spend - a.Spend)
	}
	last := bps[len(bps)-1]
	return area + last.Gain*(spend-last.Spend)
}
