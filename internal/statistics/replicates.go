package statistics

import (
	"github.com/spboyer/maq/internal/metrics"
	"github.com/spboyer/maq/internal/solver"
)

type replicateStatus uint8

const (
	statusPending replicateStatus = iota
	statusOK
	statusDegenerate
)

// Replicates holds the replicate paths of one curve, indexed by draw.
// Degenerate and never-run draws have no path. It is read-only after Run.
type Replicates struct {
	plan   *DrawPlan
	paths  []*solver.Path
	status []replicateStatus
}

// Plan returns the draw plan the replicates were built from.
func (r *Replicates) Plan() *DrawPlan { return r.plan }

// Requested returns the number of draws in the plan.
func (r *Replicates) Requested() int { return len(r.paths) }

// Usable returns how many draws produced a path.
func (r *Replicates) Usable() int { return r.count(statusOK) }

// Failed returns how many draws were degenerate.
func (r *Replicates) Failed() int { return r.count(statusDegenerate) }

func (r *Replicates) count(s replicateStatus) int {
	n := 0
	for _, st := range r.status {
		if st == s {
			n++
		}
	}
	return n
}

// Path returns the path of draw i, or nil if the draw is not usable.
func (r *Replicates) Path(i int) *solver.Path { return r.paths[i] }

// GainsAt returns the interpolated gain at spend of every usable
// replicate, in draw order.
func (r *Replicates) GainsAt(spend float64) []float64 {
	out := make([]float64, 0, len(r.paths))
	for _, p := range r.paths {
		if p != nil {
			out = append(out, p.GainAt(spend))
		}
	}
	return out
}

// StdErr is the sample standard deviation of the replicate gains at spend.
// It is NaN with fewer than two usable replicates.
func (r *Replicates) StdErr(spend float64) float64 {
	return metrics.SampleStdDev(r.GainsAt(spend))
}
