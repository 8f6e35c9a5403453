package solver

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/spboyer/maq/internal/dataset"
	"github.com/spboyer/maq/internal/models"
)

// Builder constructs solution paths. The zero value is ready to use.
type Builder struct{}

// Build is shorthand for Builder{}.Build.
func Build(ds *dataset.Dataset, budget float64, rank []int) (*Path, error) {
	return Builder{}.Build(ds, budget, rank)
}

// Build solves the relaxed allocation problem for every budget in
// [0, budget] in one pass: it merges the units' envelope actions in
// descending ratio order until the next action no longer fits.
//
// Reward drives the ordering, Score drives the reported gain. rank, when
// non-nil, gives every unit its tie rank; actions of equal ratio are taken
// in ascending rank, then ascending unit index.
func (Builder) Build(ds *dataset.Dataset, budget float64, rank []int) (*Path, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", models.ErrInvalidInput)
	}
	if !(budget > 0) || math.IsInf(budget, 0) {
		return nil, fmt.Errorf("%w: maximum budget %g must be positive and finite", models.ErrInvalidInput, budget)
	}
	if rank != nil && len(rank) != ds.N() {
		return nil, fmt.Errorf("%w: tie order has %d entries, expected %d", models.ErrInvalidInput, len(rank), ds.N())
	}

	n := ds.N()
	actions := make([]models.Action, 0, n)
	next := make([]int, n+1) // next[u]..next[u+1] is unit u's sequence
	for u := 0; u < n; u++ {
		next[u] = len(actions)
		actions = unitActions(u, ds.Reward(u), ds.Cost(u), ds.Score(u), actions)
	}
	next[n] = len(actions)

	q := &actionQueue{actions: actions, rank: rank, items: make([]int, 0, n)}
	for u := 0; u < n; u++ {
		if next[u] < next[u+1] {
			q.items = append(q.items, next[u])
		}
	}
	heap.Init(q)

	p := &Path{
		units:       n,
		options:     ds.K(),
		budget:      budget,
		complete:    true,
		breakpoints: []models.Breakpoint{{Step: -1}},
	}

	var spend, gain, value float64
	for q.Len() > 0 {
		idx := q.items[0]
		a := actions[idx]

		if spend+a.Cost > budget {
			f := (budget - spend) / a.Cost
			p.steps = append(p.steps, models.Step{Action: a, Spend: spend + a.Cost, Gain: gain + a.Score})
			if f > 0 {
				p.record(budget, gain+f*a.Score, value+f*a.Value, a.Ratio)
			}
			p.complete = false
			break
		}

		spend += a.Cost
		gain += a.Score
		value += a.Value
		p.steps = append(p.steps, models.Step{Action: a, Spend: spend, Gain: gain})
		p.record(spend, gain, value, a.Ratio)

		if idx+1 < next[a.Unit+1] {
			q.items[0] = idx + 1
			heap.Fix(q, 0)
		} else {
			heap.Pop(q)
		}
	}

	return p, nil
}

// record extends the last breakpoint when the ratio has not changed and
// appends a new one otherwise.
func (p *Path) record(spend, gain, value, ratio float64) {
	step := len(p.steps) - 1
	if last := &p.breakpoints[len(p.breakpoints)-1]; last.Step >= 0 && sameRatio(last.Ratio, ratio) {
		last.Spend, last.Gain, last.Value, last.Step = spend, gain, value, step
		return
	}
	p.breakpoints = append(p.breakpoints, models.Breakpoint{
		Spend: spend,
		Gain:  gain,
		Value: value,
		Ratio: ratio,
		Step:  step,
	})
}
