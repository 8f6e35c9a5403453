package config

import (
	"fmt"
	"log/slog"

	"github.com/spboyer/maq/internal/metrics"
	"github.com/spboyer/maq/internal/models"
)

// Defaults applied by Default and New.
const (
	DefaultReplicates     = 200
	DefaultSeed           = 42
	DefaultMaxFailureRate = 0.25
)

// Options controls how a curve is fit and bootstrapped.
type Options struct {
	// Replicates is the number of bootstrap resamples; 0 disables standard errors.
	Replicates int `yaml:"replicates" mapstructure:"replicates"`
	// Seed drives resampling and the random tie order. Negative is non-deterministic.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
	// Workers bounds replicate concurrency; 0 means GOMAXPROCS.
	Workers int `yaml:"workers" mapstructure:"workers"`
	// Baseline ranks every unit by the column means instead of its own estimates.
	Baseline bool `yaml:"baseline" mapstructure:"baseline"`
	// RandomTieBreak derives a seeded random permutation as the tie order.
	RandomTieBreak bool `yaml:"random_tie_break" mapstructure:"random_tie_break"`
	// MaxFailureRate is the tolerated share of degenerate replicates.
	MaxFailureRate float64 `yaml:"max_failure_rate" mapstructure:"max_failure_rate"`
	// Clusters assigns each unit a cluster id for the cluster bootstrap.
	Clusters []int `yaml:"clusters" mapstructure:"clusters"`
	// TieOrder gives each unit its rank among equal-ratio actions.
	TieOrder []int `yaml:"tie_order" mapstructure:"tie_order"`

	Logger   *slog.Logger               `yaml:"-" mapstructure:"-"`
	Recorder *metrics.BootstrapRecorder `yaml:"-" mapstructure:"-"`
}

// Option mutates Options.
type Option func(*Options)

// Default returns the default options.
func Default() Options {
	return Options{
		Replicates:     DefaultReplicates,
		Seed:           DefaultSeed,
		MaxFailureRate: DefaultMaxFailureRate,
	}
}

// New applies opts on top of Default.
func New(opts ...Option) Options {
	o := Default()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithReplicates sets the number of bootstrap replicates.
func WithReplicates(n int) Option {
	return func(o *Options) { o.Replicates = n }
}

// WithSeed sets the resampling seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithWorkers bounds how many replicates are built concurrently.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithBaseline selects the baseline ranking that ignores per-unit variation.
func WithBaseline(baseline bool) Option {
	return func(o *Options) { o.Baseline = baseline }
}

// WithRandomTieBreak orders ties by a permutation drawn from the seed.
func WithRandomTieBreak() Option {
	return func(o *Options) { o.RandomTieBreak = true }
}

// WithTieOrder sets an explicit tie rank per unit.
func WithTieOrder(rank []int) Option {
	return func(o *Options) { o.TieOrder = rank }
}

// WithMaxFailureRate sets the tolerated share of degenerate replicates.
func WithMaxFailureRate(rate float64) Option {
	return func(o *Options) { o.MaxFailureRate = rate }
}

// WithClusters enables the cluster bootstrap.
func WithClusters(ids []int) Option {
	return func(o *Options) { o.Clusters = ids }
}

// WithLogger sets the logger. Nil means slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithRecorder exports bootstrap metrics through r.
func WithRecorder(r *metrics.BootstrapRecorder) Option {
	return func(o *Options) { o.Recorder = r }
}

// Validate checks the options that do not depend on the data. Cluster and
// tie order lengths are checked against the units at fit time.
func (o Options) Validate() error {
	if o.Replicates < 0 {
		return fmt.Errorf("%w: replicate count %d must not be negative", models.ErrInvalidInput, o.Replicates)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: worker count %d must not be negative", models.ErrInvalidInput, o.Workers)
	}
	if !(o.MaxFailureRate > 0 && o.MaxFailureRate <= 1) {
		return fmt.Errorf("%w: max failure rate %g must be in (0, 1]", models.ErrInvalidInput, o.MaxFailureRate)
	}
	if o.RandomTieBreak && o.TieOrder != nil {
		return fmt.Errorf("%w: random tie break and an explicit tie order are exclusive", models.ErrInvalidInput)
	}
	return nil
}

// Log returns the configured logger or the default one.
func (o Options) Log() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}
