package statistics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/spboyer/maq/internal/dataset"
	"github.com/spboyer/maq/internal/metrics"
	"github.com/spboyer/maq/internal/models"
	"github.com/spboyer/maq/internal/solver"
	"golang.org/x/sync/errgroup"
)

//go:generate go tool mockgen -source=bootstrap.go -destination=mock_builder_test.go -package=statistics

// PathBuilder builds a solution path; *solver.Builder satisfies it.
type PathBuilder interface {
	Build(ds *dataset.Dataset, budget float64, rank []int) (*solver.Path, error)
}

// DefaultMaxFailureRate is the share of degenerate replicates, relative to
// the number requested, above which a bootstrap run is reported as failed.
const DefaultMaxFailureRate = 0.25

var errTooManyFailures = errors.New("too many degenerate replicates")

// EngineConfig configures an Engine. Zero values select defaults.
type EngineConfig struct {
	Workers        int
	MaxFailureRate float64
	Logger         *slog.Logger
	Recorder       *metrics.BootstrapRecorder
}

// Engine reruns the path builder on every resample of a DrawPlan.
type Engine struct {
	builder        PathBuilder
	workers        int
	maxFailureRate float64
	logger         *slog.Logger
	recorder       *metrics.BootstrapRecorder
}

// NewEngine creates a bootstrap engine around builder.
func NewEngine(builder PathBuilder, cfg EngineConfig) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxFailureRate <= 0 {
		cfg.MaxFailureRate = DefaultMaxFailureRate
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		builder:        builder,
		workers:        cfg.Workers,
		maxFailureRate: cfg.MaxFailureRate,
		logger:         cfg.Logger,
		recorder:       cfg.Recorder,
	}
}

// Run builds one path per draw of plan on the resampled dataset. Ranking
// values and costs travel with each resampled unit, so replicates rank by
// the original estimates while evaluating on the resampled scores. rank
// is the tie order of the original units; a resampled unit inherits the
// rank of its source.
//
// Degenerate draws are excluded. If they exceed the failure threshold, or
// ctx is canceled, Run stops dispatching and returns the replicates that
// did complete together with a *BootstrapError. Any other builder error
// aborts the run and is returned without replicates.
func (e *Engine) Run(ctx context.Context, ds *dataset.Dataset, budget float64, rank []int, plan *DrawPlan) (*Replicates, error) {
	if plan.Units() != ds.N() {
		return nil, fmt.Errorf("%w: draw plan covers %d units, dataset has %d", models.ErrInvalidInput, plan.Units(), ds.N())
	}

	total := plan.Replicates()
	reps := &Replicates{
		plan:   plan,
		paths:  make([]*solver.Path, total),
		status: make([]replicateStatus, total),
	}
	if total == 0 {
		return reps, nil
	}

	maxFailures := int32(math.Floor(e.maxFailureRate * float64(total)))
	var failures atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for r := 0; r < total; r++ {
		if gctx.Err() != nil {
			break
		}
		r := r
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			start := time.Now()
			idx := plan.Draw(r)
			p, err := e.builder.Build(ds.Resample(idx), budget, replicateRank(rank, idx))
			if err != nil {
				e.recorder.Replicate(metrics.ResultError, time.Since(start))
				return fmt.Errorf("replicate %d: %w", r, err)
			}
			if p.Degenerate() {
				reps.status[r] = statusDegenerate
				e.recorder.Replicate(metrics.ResultDegenerate, time.Since(start))
				if failures.Add(1) > maxFailures {
					return errTooManyFailures
				}
				return nil
			}
			reps.paths[r] = p
			reps.status[r] = statusOK
			e.recorder.Replicate(metrics.ResultOK, time.Since(start))
			return nil
		})
	}
	err := g.Wait()

	usable, failed := reps.Usable(), reps.Failed()
	switch {
	case errors.Is(err, errTooManyFailures):
		e.recorder.Aborted("degenerate")
		e.logger.Warn("bootstrap aborted: degenerate replicate rate above threshold",
			"requested", total, "usable", usable, "degenerate", failed, "max_failure_rate", e.maxFailureRate)
		return reps, &BootstrapError{Requested: total, Usable: usable, Failed: failed, Aborted: usable+failed < total,
			Err: fmt.Errorf("%w: %d of %d draws degenerate, threshold %.2f", models.ErrDegenerateResample, failed, total, e.maxFailureRate)}
	case err != nil:
		return nil, err
	case ctx.Err() != nil && usable+failed < total:
		e.recorder.Aborted("canceled")
		e.logger.Warn("bootstrap canceled, standard errors use completed replicates only",
			"requested", total, "usable", usable, "degenerate", failed)
		return reps, &BootstrapError{Requested: total, Usable: usable, Failed: failed, Aborted: true, Err: ctx.Err()}
	}

	if failed > 0 {
		e.logger.Warn("excluded degenerate bootstrap replicates", "requested", total, "degenerate", failed)
	}
	e.logger.Debug("bootstrap finished", "requested", total, "usable", usable, "workers", e.workers)
	return reps, nil
}

// replicateRank maps the original tie order onto a resample. Without an
// explicit order the source unit index is the rank.
func replicateRank(rank, idx []int) []int {
	out := make([]int, len(idx))
	for j, i := range idx {
		if rank == nil {
			out[j] = i
		} else {
			out[j] = rank[i]
		}
	}
	return out
}
