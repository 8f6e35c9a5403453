package solver

import "github.com/spboyer/maq/internal/models"

// actionQueue is a max-heap over each unit's next eligible action, stored
// as indexes into a flat action slice. The order is total: ratio
// descending, then tie rank ascending, then unit index ascending.
type actionQueue struct {
	actions []models.Action
	rank    []int
	items   []int
}

func (q *actionQueue) Len() int { return len(q.items) }

func (q *actionQueue) Less(i, j int) bool {
	a, b := &q.actions[q.items[i]], &q.actions[q.items[j]]
	if a.Ratio != b.Ratio {
		return a.Ratio > b.Ratio
	}
	ra, rb := a.Unit, b.Unit
	if q.rank != nil {
		ra, rb = q.rank[a.Unit], q.rank[b.Unit]
	}
	if ra != rb {
		return ra < rb
	}
	return a.Unit < b.Unit
}

func (q *actionQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *actionQueue) Push(x any) { q.items = append(q.items, x.(int)) }

func (q *actionQueue) Pop() any {
	last := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]
	return last
}
