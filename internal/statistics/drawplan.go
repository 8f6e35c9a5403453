package statistics

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/spboyer/maq/internal/models"
)

// planNamespace scopes DrawPlan identifiers.
var planNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("maq.bootstrap.drawplan"))

// DrawPlan is a fixed set of bootstrap resamples of the unit index set.
// Curves fit with the same plan see identical draws, which is what makes
// their per-replicate differences paired.
type DrawPlan struct {
	id    uuid.UUID
	units int
	seed  int64
	draws [][]int
}

// NewDrawPlan draws replicates resamples of units indexes with replacement.
// With clusters (one id per unit) whole clusters are drawn and every unit
// of a drawn cluster is included. A negative seed uses a non-deterministic
// source; the seed actually used is kept so the plan can be reproduced.
func NewDrawPlan(units, replicates int, seed int64, clusters []int) (*DrawPlan, error) {
	if units <= 0 {
		return nil, fmt.Errorf("%w: draw plan needs at least one unit, got %d", models.ErrInvalidInput, units)
	}
	if replicates < 0 {
		return nil, fmt.Errorf("%w: replicate count %d must not be negative", models.ErrInvalidInput, replicates)
	}
	if clusters != nil && len(clusters) != units {
		return nil, fmt.Errorf("%w: %d cluster ids for %d units", models.ErrInvalidInput, len(clusters), units)
	}

	if seed < 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))
	groups := groupClusters(units, clusters)

	draws := make([][]int, replicates)
	for r := range draws {
		idx := make([]int, 0, units)
		for range groups {
			idx = append(idx, groups[rng.Intn(len(groups))]...)
		}
		draws[r] = idx
	}

	return &DrawPlan{
		id:    planID(units, replicates, seed, clusters),
		units: units,
		seed:  seed,
		draws: draws,
	}, nil
}

// groupClusters returns the member units of each cluster in order of first
// appearance. Without clusters every unit is its own group.
func groupClusters(units int, clusters []int) [][]int {
	groups := make([][]int, 0, units)
	if clusters == nil {
		for i := 0; i < units; i++ {
			groups = append(groups, []int{i})
		}
		return groups
	}
	pos := make(map[int]int)
	for i, c := range clusters {
		g, ok := pos[c]
		if !ok {
			g = len(groups)
			pos[c] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

func planID(units, replicates int, seed int64, clusters []int) uuid.UUID {
	buf := make([]byte, 0, 24+8*len(clusters))
	buf = binary.BigEndian.AppendUint64(buf, uint64(units))
	buf = binary.BigEndian.AppendUint64(buf, uint64(replicates))
	buf = binary.BigEndian.AppendUint64(buf, uint64(seed))
	for _, c := range clusters {
		buf = binary.BigEndian.AppendUint64(buf, uint64(int64(c)))
	}
	return uuid.NewSHA1(planNamespace, buf)
}

// ID identifies the plan. Plans built from the same units, replicate
// count, seed and clusters share an ID and identical draws.
func (p *DrawPlan) ID() uuid.UUID { return p.id }

// Units returns the size of the index set the plan resamples.
func (p *DrawPlan) Units() int { return p.units }

// Seed returns the seed the draws were generated from.
func (p *DrawPlan) Seed() int64 { return p.seed }

// Replicates returns the number of resamples in the plan.
func (p *DrawPlan) Replicates() int { return len(p.draws) }

// Draw returns the unit indexes of resample r. The slice must not be modified.
func (p *DrawPlan) Draw(r int) []int { return p.draws[r] }
