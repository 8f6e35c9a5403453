// Package maq fits multi-armed gain curves: for units offered several
// costly treatment options it traces the best achievable gain at every
// spend up to a maximum budget, and attaches bootstrap standard errors to
// points on a curve and to differences between curves.
//
// A minimal fit:
//
//	c, err := maq.Fit(ctx, reward, cost, scores, budget, maq.WithReplicates(200))
//	if err != nil && !maq.IsBootstrapError(err) {
//		return err
//	}
//	est, err := c.AverageGain(budget / 2)
//
// Pair a curve with its baseline by fitting both with the same seed and
// replicate count, then call DifferenceGain or IntegratedDifference.
package maq

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spboyer/maq/internal/compare"
	"github.com/spboyer/maq/internal/config"
	"github.com/spboyer/maq/internal/curve"
	"github.com/spboyer/maq/internal/dataset"
	"github.com/spboyer/maq/internal/metrics"
	"github.com/spboyer/maq/internal/models"
	"github.com/spboyer/maq/internal/statistics"
)

type (
	Curve              = curve.Curve
	Option             = config.Option
	Options            = config.Options
	Estimate           = models.Estimate
	Breakpoint         = models.Breakpoint
	ConfidenceInterval = statistics.ConfidenceInterval
	BootstrapError     = statistics.BootstrapError
	Dataset            = dataset.Dataset
)

// NoOption marks a unit without an assigned option.
const NoOption = models.NoOption

var (
	ErrInvalidInput       = models.ErrInvalidInput
	ErrIncompatibleCurves = models.ErrIncompatibleCurves
	ErrDegenerateResample = models.ErrDegenerateResample
)

var (
	WithReplicates     = config.WithReplicates
	WithSeed           = config.WithSeed
	WithWorkers        = config.WithWorkers
	WithBaseline       = config.WithBaseline
	WithRandomTieBreak = config.WithRandomTieBreak
	WithTieOrder       = config.WithTieOrder
	WithMaxFailureRate = config.WithMaxFailureRate
	WithClusters       = config.WithClusters
	WithLogger         = config.WithLogger
)

// WithRegisterer records bootstrap metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return config.WithRecorder(metrics.NewBootstrapRecorder(reg))
}

// Fit builds the gain curve of reward (ranking values), cost and score
// (evaluation scores) up to budget. Pass a single-column matrix for the
// single-option case; cost may be a single row shared by every unit.
//
// Invalid input returns ErrInvalidInput and no curve. If the bootstrap is
// canceled or too many resamples are degenerate, the curve is returned
// together with a *BootstrapError.
func Fit(ctx context.Context, reward, cost, score [][]float64, budget float64, opts ...Option) (*Curve, error) {
	return curve.Fit(ctx, reward, cost, score, budget, opts...)
}

// FitDataset is Fit on a prepared dataset with resolved options, such as
// those returned by LoadOptions.
func FitDataset(ctx context.Context, ds *Dataset, budget float64, o Options) (*Curve, error) {
	return curve.FitDataset(ctx, ds, budget, o)
}

// Vector turns a per-unit vector into a single-option column.
func Vector(x []float64) [][]float64 { return dataset.Vector(x) }

// NewDataset validates and stores the fit arrays.
func NewDataset(reward, cost, score [][]float64) (*Dataset, error) {
	return dataset.New(reward, cost, score)
}

// LoadDataset reads a dataset from a CSV file with reward_k, cost_k and
// optional score_k columns.
func LoadDataset(path string) (*Dataset, error) { return dataset.LoadDataset(path) }

// LoadOptions reads fit options from a YAML document.
func LoadOptions(path string) (Options, error) { return config.Load(path) }

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options { return config.Default() }

// DifferenceGain returns gain(a) - gain(b) at spend with a paired
// standard error.
func DifferenceGain(a, b *Curve, spend float64) (Estimate, error) {
	return compare.DifferenceGain(a, b, spend)
}

// IntegratedDifference returns the area between the curves of a and b on
// [0, spend] with a paired standard error.
func IntegratedDifference(a, b *Curve, spend float64) (Estimate, error) {
	return compare.IntegratedDifference(a, b, spend)
}

// DifferenceInterval returns a percentile interval for gain(a) - gain(b).
func DifferenceInterval(a, b *Curve, spend, level float64) (ConfidenceInterval, error) {
	return compare.DifferenceInterval(a, b, spend, level)
}

// IsBootstrapError reports whether err accompanies a usable curve whose
// standard errors rest on an incomplete replicate set.
func IsBootstrapError(err error) bool { return curve.IsBootstrapError(err) }
