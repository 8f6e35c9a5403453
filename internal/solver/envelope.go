package solver

import (
	"math"
	"sort"

	"github.com/spboyer/maq/internal/models"
)

// Epsilon is the relative tolerance under which two ratios are treated as
// equal, both for hull collinearity and for collapsing breakpoints.
const Epsilon = 1e-12

func sameRatio(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= Epsilon*scale
}

// envelope returns the options of one unit that lie on its cost/value upper
// envelope through the origin, ordered by increasing cost. Options with a
// non-positive value, and options that cost more than a kept option
// without being worth more, never appear. Consecutive segment ratios are
// non-increasing.
func envelope(reward, cost []float64) []int {
	cand := make([]int, 0, len(reward))
	for j, r := range reward {
		if r > 0 {
			cand = append(cand, j)
		}
	}
	sort.Slice(cand, func(a, b int) bool {
		ca, cb := cand[a], cand[b]
		if cost[ca] != cost[cb] {
			return cost[ca] < cost[cb]
		}
		if reward[ca] != reward[cb] {
			return reward[ca] > reward[cb]
		}
		return ca < cb
	})

	hull := make([]int, 0, len(cand))
	for _, c := range cand {
		if len(hull) > 0 && reward[c] <= reward[hull[len(hull)-1]] {
			continue
		}
		for len(hull) > 0 {
			last := hull[len(hull)-1]
			var pc, pr float64
			if len(hull) > 1 {
				p := hull[len(hull)-2]
				pc, pr = cost[p], reward[p]
			}
			prev := (reward[last] - pr) / (cost[last] - pc)
			next := (reward[c] - reward[last]) / (cost[c] - cost[last])
			if next <= prev || sameRatio(next, prev) {
				break
			}
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, c)
	}
	return hull
}

// unitActions expands a unit's envelope into its ordered action sequence.
func unitActions(unit int, reward, cost, score []float64, dst []models.Action) []models.Action {
	from := models.NoOption
	var fc, fr, fs float64
	for _, to := range envelope(reward, cost) {
		a := models.Action{
			Unit:  unit,
			From:  from,
			To:    to,
			Cost:  cost[to] - fc,
			Value: reward[to] - fr,
			Score: score[to] - fs,
		}
		a.Ratio = a.Value / a.Cost
		dst = append(dst, a)
		from, fc, fr, fs = to, cost[to], reward[to], score[to]
	}
	return dst
}
