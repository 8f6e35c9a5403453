package dataset

import (
	"fmt"
	"math"

	"github.com/spboyer/maq/internal/models"
	"gonum.org/v1/gonum/stat"
)

// Dataset holds, for n units and K options, the ranking values, costs and
// evaluation scores used to build a gain path. Arrays are row-major and
// never mutated after construction, so a Dataset may be shared freely
// across goroutines.
type Dataset struct {
	n, k   int
	reward []float64
	cost   []float64
	score  []float64
}

// Vector turns an n-vector into an n x 1 matrix for the single-option case.
func Vector(x []float64) [][]float64 {
	m := make([][]float64, len(x))
	for i, v := range x {
		m[i] = []float64{v}
	}
	return m
}

// New validates and copies the input arrays. reward and score must be
// n x K. cost is either n x K or a single row of K costs shared by every
// unit. Costs must be strictly positive and every value finite.
func New(reward, cost, score [][]float64) (*Dataset, error) {
	n := len(reward)
	if n == 0 {
		return nil, fmt.Errorf("%w: reward has no units", models.ErrInvalidInput)
	}
	k := len(reward[0])
	if k == 0 {
		return nil, fmt.Errorf("%w: reward has no options", models.ErrInvalidInput)
	}

	ds := &Dataset{
		n:      n,
		k:      k,
		reward: make([]float64, n*k),
		cost:   make([]float64, n*k),
		score:  make([]float64, n*k),
	}

	if err := fill(ds.reward, "reward", reward, n, k, false); err != nil {
		return nil, err
	}
	if err := fill(ds.score, "score", score, n, k, false); err != nil {
		return nil, err
	}
	if err := fill(ds.cost, "cost", cost, n, k, true); err != nil {
		return nil, err
	}
	for idx, c := range ds.cost {
		if c <= 0 {
			return nil, fmt.Errorf("%w: cost[%d][%d] = %g must be positive", models.ErrInvalidInput, idx/k, idx%k, c)
		}
	}

	return ds, nil
}

func fill(dst []float64, name string, src [][]float64, n, k int, broadcast bool) error {
	rows := len(src)
	switch {
	case rows == n:
	case broadcast && rows == 1:
	default:
		return fmt.Errorf("%w: %s has %d rows, expected %d", models.ErrInvalidInput, name, rows, n)
	}

	for i := 0; i < n; i++ {
		row := src[0]
		if rows == n {
			row = src[i]
		}
		if len(row) != k {
			return fmt.Errorf("%w: %s row %d has %d columns, expected %d", models.ErrInvalidInput, name, i, len(row), k)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s[%d][%d] is not finite", models.ErrInvalidInput, name, i, j)
			}
			dst[i*k+j] = v
		}
	}
	return nil
}

// N returns the number of units.
func (d *Dataset) N() int { return d.n }

// K returns the number of options per unit.
func (d *Dataset) K() int { return d.k }

// Reward returns the ranking values of unit i. The slice must not be modified.
func (d *Dataset) Reward(i int) []float64 { return d.reward[i*d.k : (i+1)*d.k] }

// Cost returns the option costs of unit i. The slice must not be modified.
func (d *Dataset) Cost(i int) []float64 { return d.cost[i*d.k : (i+1)*d.k] }

// Score returns the evaluation scores of unit i. The slice must not be modified.
func (d *Dataset) Score(i int) []float64 { return d.score[i*d.k : (i+1)*d.k] }

// Resample returns a dataset whose j-th unit is unit idx[j] of d. Whole
// rows are copied so within-unit correlation across options is preserved.
func (d *Dataset) Resample(idx []int) *Dataset {
	out := &Dataset{
		n:      len(idx),
		k:      d.k,
		reward: make([]float64, len(idx)*d.k),
		cost:   make([]float64, len(idx)*d.k),
		score:  make([]float64, len(idx)*d.k),
	}
	for j, i := range idx {
		copy(out.reward[j*d.k:], d.Reward(i))
		copy(out.cost[j*d.k:], d.Cost(i))
		copy(out.score[j*d.k:], d.Score(i))
	}
	return out
}

// Baseline returns a copy of d in which every unit's ranking values and
// costs are replaced by the column means over all units. Scores are kept,
// so the resulting path ranks units identically and only the tie order
// decides who is treated first.
func (d *Dataset) Baseline() *Dataset {
	out := &Dataset{
		n:      d.n,
		k:      d.k,
		reward: make([]float64, len(d.reward)),
		cost:   make([]float64, len(d.cost)),
		score:  append([]float64(nil), d.score...),
	}

	col := make([]float64, d.n)
	for j := 0; j < d.k; j++ {
		for i := 0; i < d.n; i++ {
			col[i] = d.reward[i*d.k+j]
		}
		meanReward := stat.Mean(col, nil)
		for i := 0; i < d.n; i++ {
			col[i] = d.cost[i*d.k+j]
		}
		meanCost := stat.Mean(col, nil)
		for i := 0; i < d.n; i++ {
			out.reward[i*d.k+j] = meanReward
			out.cost[i*d.k+j] = meanCost
		}
	}
	return out
}
