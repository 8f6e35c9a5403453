package curve

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/spboyer/maq/internal/config"
	"github.com/spboyer/maq/internal/dataset"
	"github.com/spboyer/maq/internal/models"
	"github.com/spboyer/maq/internal/solver"
	"github.com/spboyer/maq/internal/statistics"
)

// Fit builds the gain curve for the given arrays and bootstraps its
// standard errors. reward ranks options, score evaluates them; cost may
// be n x K or a single shared row. See FitDataset for the error contract.
func Fit(ctx context.Context, reward, cost, score [][]float64, budget float64, opts ...config.Option) (*Curve, error) {
	o := config.New(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	ds, err := dataset.New(reward, cost, score)
	if err != nil {
		return nil, err
	}
	return FitDataset(ctx, ds, budget, o)
}

// FitDataset fits a curve on ds. Invalid input returns models.ErrInvalidInput
// and no curve. When the bootstrap is canceled or too many draws are
// degenerate, the curve is returned together with a
// *statistics.BootstrapError; its standard errors then rest on the
// replicates that did complete.
func FitDataset(ctx context.Context, ds *dataset.Dataset, budget float64, o config.Options) (*Curve, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	logger := o.Log()
	n := ds.N()

	seed := o.Seed
	if seed < 0 {
		seed = rand.Int63()
	}

	var rank []int
	switch {
	case o.TieOrder != nil:
		if len(o.TieOrder) != n {
			return nil, fmt.Errorf("%w: tie order has %d entries for %d units", models.ErrInvalidInput, len(o.TieOrder), n)
		}
		rank = o.TieOrder
	case o.RandomTieBreak:
		rank = rand.New(rand.NewSource(seed)).Perm(n)
	}

	ranking := ds
	if o.Baseline {
		ranking = ds.Baseline()
	}

	path, err := solver.Build(ranking, budget, rank)
	if err != nil {
		return nil, err
	}
	logger.Debug("built gain path",
		"units", n, "options", ds.K(), "budget", budget,
		"actions", len(path.Steps()), "breakpoints", len(path.Breakpoints()),
		"complete", path.Complete(), "baseline", o.Baseline)

	plan, err := statistics.NewDrawPlan(n, o.Replicates, seed, o.Clusters)
	if err != nil {
		return nil, err
	}
	engine := statistics.NewEngine(solver.Builder{}, statistics.EngineConfig{
		Workers:        o.Workers,
		MaxFailureRate: o.MaxFailureRate,
		Logger:         logger,
		Recorder:       o.Recorder,
	})
	reps, err := engine.Run(ctx, ranking, budget, rank, plan)
	if err != nil {
		var be *statistics.BootstrapError
		if errors.As(err, &be) {
			return &Curve{path: path, reps: reps, baseline: o.Baseline}, err
		}
		return nil, err
	}

	return &Curve{path: path, reps: reps, baseline: o.Baseline}, nil
}
