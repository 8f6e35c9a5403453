package solver

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spboyer/maq/internal/dataset"
	"github.com/spboyer/maq/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

func mustDataset(t *testing.T, reward, cost, score [][]float64) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(reward, cost, score)
	require.NoError(t, err)
	return ds
}

func randomDataset(t *testing.T, seed int64, n, k int) *dataset.Dataset {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	reward := make([][]float64, n)
	cost := make([][]float64, n)
	for i := 0; i < n; i++ {
		reward[i] = make([]float64, k)
		cost[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			reward[i][j] = rng.Float64()*2 - 0.5
			cost[i][j] = 0.1 + rng.Float64()
		}
	}
	return mustDataset(t, reward, cost, reward)
}

func spends(bps []models.Breakpoint) []float64 {
	out := make([]float64, len(bps))
	for i, bp := range bps {
		out[i] = bp.Spend
	}
	return out
}

func gains(bps []models.Breakpoint) []float64 {
	out := make([]float64, len(bps))
	for i, bp := range bps {
		out[i] = bp.Gain
	}
	return out
}

func TestBuild_SingleOptionScenario(t *testing.T) {
	ds := mustDataset(t,
		dataset.Vector([]float64{3, 1, 2}),
		dataset.Vector([]float64{1, 1, 1}),
		dataset.Vector([]float64{3, 1, 2}),
	)

	p, err := Build(ds, 3, nil)
	require.NoError(t, err)

	bps := p.Breakpoints()
	assert.Equal(t, []float64{0, 1, 2, 3}, spends(bps))
	assert.Equal(t, []float64{0, 3, 5, 6}, gains(bps))
	assert.InDelta(t, 4.0, p.GainAt(1.5), epsilon)
	assert.True(t, p.Complete())

	// units are taken in value/cost order: 0, 2, 1
	steps := p.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, []int{0, 2, 1}, []int{steps[0].Unit, steps[1].Unit, steps[2].Unit})
}

func TestBuild_UpgradeScenario(t *testing.T) {
	ds := mustDataset(t, [][]float64{{2, 5}}, [][]float64{{1, 3}}, [][]float64{{2, 5}})

	p, err := Build(ds, 4, nil)
	require.NoError(t, err)

	steps := p.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, models.NoOption, steps[0].From)
	assert.Equal(t, 0, steps[0].To)
	assert.InDelta(t, 2.0, steps[0].Ratio, epsilon)
	assert.Equal(t, 0, steps[1].From)
	assert.Equal(t, 1, steps[1].To)
	assert.InDelta(t, 1.5, steps[1].Ratio, epsilon)

	tests := []struct {
		spend float64
		want  int
	}{
		{0, models.NoOption},
		{0.5, models.NoOption},
		{1, 0},
		{2, 0},
		{2.99, 0},
		{3, 1},
		{4, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, []int{tt.want}, p.Assign(tt.spend), "spend %g", tt.spend)
	}

	assert.InDeltaSlice(t, []float64{0.5, 0.5}, p.AssignmentAt(2)[0], epsilon)
	assert.InDeltaSlice(t, []float64{0.5, 0}, p.AssignmentAt(0.5)[0], epsilon)
	assert.InDeltaSlice(t, []float64{0, 1}, p.AssignmentAt(3.5)[0], epsilon)
}

func TestBuild_ZeroSpend(t *testing.T) {
	p, err := Build(randomDataset(t, 7, 20, 3), 5, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, p.GainAt(0))
	for u, opt := range p.Assign(0) {
		assert.Equal(t, models.NoOption, opt, "unit %d", u)
	}
	for _, row := range p.AssignmentAt(0) {
		for _, v := range row {
			assert.Equal(t, 0.0, v)
		}
	}
}

func TestBuild_FullSpendRealizesBestOptions(t *testing.T) {
	ds := randomDataset(t, 11, 30, 4)

	var total, best float64
	for u := 0; u < ds.N(); u++ {
		top := -1
		for j, r := range ds.Reward(u) {
			if r > 0 && (top < 0 || r > ds.Reward(u)[top]) {
				top = j
			}
		}
		if top >= 0 {
			total += ds.Cost(u)[top]
			best += ds.Reward(u)[top]
		}
	}

	p, err := Build(ds, total*2, nil)
	require.NoError(t, err)
	assert.True(t, p.Complete())
	assert.InDelta(t, best, p.GainAt(total), 1e-6)
	assert.InDelta(t, best, p.GainAt(total*1.5), 1e-6)
	assert.InDelta(t, total, p.Breakpoints()[len(p.Breakpoints())-1].Spend, 1e-6)
}

func TestBuild_ConcaveAndNonDecreasing(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		p, err := Build(randomDataset(t, seed, 50, 3), 20, nil)
		require.NoError(t, err)

		bps := p.Breakpoints()
		prevSlope := math.Inf(1)
		for i := 1; i < len(bps); i++ {
			dx := bps[i].Spend - bps[i-1].Spend
			require.Greater(t, dx, 0.0, "seed %d: spend must strictly increase", seed)
			slope := (bps[i].Gain - bps[i-1].Gain) / dx
			assert.GreaterOrEqual(t, slope, 0.0, "seed %d", seed)
			assert.LessOrEqual(t, slope, prevSlope*(1+1e-9), "seed %d: slopes must not increase", seed)
			prevSlope = slope
		}
	}
}

func TestBuild_SingleOptionMatchesRatioSort(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := 40
	reward := make([]float64, n)
	cost := make([]float64, n)
	for i := range reward {
		reward[i] = rng.Float64() + 0.01
		cost[i] = rng.Float64() + 0.1
	}
	ds := mustDataset(t, dataset.Vector(reward), dataset.Vector(cost), dataset.Vector(reward))

	p, err := Build(ds, 1e6, nil)
	require.NoError(t, err)

	steps := p.Steps()
	require.Len(t, steps, n)
	for i := 1; i < n; i++ {
		a, b := steps[i-1], steps[i]
		assert.GreaterOrEqual(t, reward[a.Unit]/cost[a.Unit], reward[b.Unit]/cost[b.Unit])
	}
}

func TestBuild_ScaleInvariance(t *testing.T) {
	ds := randomDataset(t, 5, 25, 3)
	const scale = 4.0

	cost := make([][]float64, ds.N())
	reward := make([][]float64, ds.N())
	for u := 0; u < ds.N(); u++ {
		reward[u] = ds.Reward(u)
		for _, c := range ds.Cost(u) {
			cost[u] = append(cost[u], c*scale)
		}
	}
	scaled := mustDataset(t, reward, cost, reward)

	p, err := Build(ds, 6, nil)
	require.NoError(t, err)
	ps, err := Build(scaled, 6*scale, nil)
	require.NoError(t, err)

	want := p.Breakpoints()
	for i := range want {
		want[i].Spend *= scale
		want[i].Ratio /= scale
	}
	if diff := cmp.Diff(want, ps.Breakpoints(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("scaled breakpoints mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, p.Assign(3), ps.Assign(3*scale))
}

func TestBuild_TiesCollapseIntoOneInterval(t *testing.T) {
	// three units with the same ratio, one with a lower ratio
	ds := mustDataset(t,
		dataset.Vector([]float64{2, 4, 2, 1}),
		dataset.Vector([]float64{1, 2, 1, 1}),
		dataset.Vector([]float64{2, 4, 2, 1}),
	)

	p, err := Build(ds, 10, nil)
	require.NoError(t, err)

	bps := p.Breakpoints()
	assert.Equal(t, []float64{0, 4, 5}, spends(bps))
	assert.Equal(t, []float64{0, 8, 9}, gains(bps))

	// unit index order: 0 then 1 then 2; at spend 2 unit 1 is half way
	got := p.AssignmentAt(2)
	assert.Equal(t, []float64{1}, got[0])
	assert.InDeltaSlice(t, []float64{0.5}, got[1], epsilon)
	assert.Equal(t, []float64{0}, got[2])
}

func TestBuild_TieRankDecidesFractionalUnit(t *testing.T) {
	ds := mustDataset(t,
		dataset.Vector([]float64{1, 1, 1}),
		dataset.Vector([]float64{1, 1, 1}),
		dataset.Vector([]float64{1, 2, 3}),
	)

	p, err := Build(ds, 3, []int{2, 0, 1})
	require.NoError(t, err)

	steps := p.Steps()
	assert.Equal(t, []int{1, 2, 0}, []int{steps[0].Unit, steps[1].Unit, steps[2].Unit})

	row := p.AssignmentAt(1.25)
	assert.Equal(t, []float64{0}, row[0])
	assert.Equal(t, []float64{1}, row[1])
	assert.InDeltaSlice(t, []float64{0.25}, row[2], epsilon)

	// equal ratios collapse, so the reported gain is linear over the interval
	assert.Len(t, p.Breakpoints(), 2)
	assert.InDelta(t, 6.0, p.GainAt(3), epsilon)
}

func TestBuild_NonPositiveValuesNeverOffered(t *testing.T) {
	ds := mustDataset(t,
		[][]float64{{-1, 0}, {0, 2}},
		[][]float64{{1, 2}, {1, 2}},
		[][]float64{{-1, 0}, {0, 2}},
	)

	p, err := Build(ds, 10, nil)
	require.NoError(t, err)

	steps := p.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, 1, steps[0].Unit)
	assert.Equal(t, 1, steps[0].To)
	assert.Equal(t, []int{models.NoOption, 1}, p.Assign(10))
}

func TestBuild_Degenerate(t *testing.T) {
	ds := mustDataset(t, dataset.Vector([]float64{-1, 0}), dataset.Vector([]float64{1, 1}), dataset.Vector([]float64{1, 1}))

	p, err := Build(ds, 1, nil)
	require.NoError(t, err)
	assert.True(t, p.Degenerate())
	assert.True(t, p.Complete())
	assert.Equal(t, 0.0, p.GainAt(1))
}

func TestBuild_BudgetTruncatesFinalAction(t *testing.T) {
	ds := mustDataset(t, [][]float64{{2, 5}}, [][]float64{{1, 3}}, [][]float64{{2, 5}})

	p, err := Build(ds, 2, nil)
	require.NoError(t, err)
	assert.False(t, p.Complete())

	bps := p.Breakpoints()
	require.Len(t, bps, 3)
	assert.InDelta(t, 2.0, bps[2].Spend, epsilon)
	assert.InDelta(t, 3.5, bps[2].Gain, epsilon)
	assert.InDelta(t, 3.5, p.GainAt(2), epsilon)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, p.AssignmentAt(2)[0], epsilon)
}

func TestBuild_ScoresDriveGainNotRanking(t *testing.T) {
	// ranking prefers unit 0, but its evaluation score is lower
	ds := mustDataset(t,
		dataset.Vector([]float64{5, 1}),
		dataset.Vector([]float64{1, 1}),
		dataset.Vector([]float64{0.5, 3}),
	)

	p, err := Build(ds, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 3.5}, gains(p.Breakpoints()))
	assert.Equal(t, []int{0, models.NoOption}, p.Assign(1))
}

func TestBuild_InvalidInput(t *testing.T) {
	ds := mustDataset(t, dataset.Vector([]float64{1}), dataset.Vector([]float64{1}), dataset.Vector([]float64{1}))

	tests := []struct {
		name   string
		ds     *dataset.Dataset
		budget float64
		rank   []int
	}{
		{"nil dataset", nil, 1, nil},
		{"zero budget", ds, 0, nil},
		{"negative budget", ds, -1, nil},
		{"nan budget", ds, math.NaN(), nil},
		{"inf budget", ds, math.Inf(1), nil},
		{"rank length", ds, 1, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.ds, tt.budget, tt.rank)
			require.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	ds := randomDataset(t, 21, 60, 4)
	a, err := Build(ds, 15, nil)
	require.NoError(t, err)
	b, err := Build(ds, 15, nil)
	require.NoError(t, err)
	assert.Equal(t, a.Breakpoints(), b.Breakpoints())
	assert.Equal(t, a.Steps(), b.Steps())
}

func TestPath_Area(t *testing.T) {
	ds := mustDataset(t,
		dataset.Vector([]float64{3, 1, 2}),
		dataset.Vector([]float64{1, 1, 1}),
		dataset.Vector([]float64{3, 1, 2}),
	)
	p, err := Build(ds, 5, nil)
	require.NoError(t, err)

	tests := []struct {
		spend, want float64
	}{
		{0, 0},
		{0.5, 0.375},            // triangle under slope 3
		{1, 1.5},                // 1 * 3 / 2
		{2, 1.5 + 4},            // + trapezoid (3 + 5) / 2
		{3, 1.5 + 4 + 5.5},      // + trapezoid (5 + 6) / 2
		{5, 1.5 + 4 + 5.5 + 12}, // flat at 6 for 2 more
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, p.Area(tt.spend), epsilon, "spend %g", tt.spend)
	}
}
