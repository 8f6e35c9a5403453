package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Replicate outcomes used as the "result" label.
const (
	ResultOK         = "ok"
	ResultDegenerate = "degenerate"
	ResultError      = "error"
)

// BootstrapRecorder exports bootstrap replicate counts and latencies.
// A nil *BootstrapRecorder is valid and records nothing.
type BootstrapRecorder struct {
	replicates *prometheus.CounterVec
	duration   prometheus.Histogram
	aborted    *prometheus.CounterVec
}

// NewBootstrapRecorder registers the bootstrap collectors with reg. A nil
// reg creates unregistered collectors. Registering twice with the same
// registry panics, so create one recorder per registry and share it.
func NewBootstrapRecorder(reg prometheus.Registerer) *BootstrapRecorder {
	f := promauto.With(reg)
	return &BootstrapRecorder{
		replicates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "maq_bootstrap_replicates_total",
			Help: "Bootstrap replicates run, by result",
		}, []string{"result"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "maq_bootstrap_replicate_duration_seconds",
			Help:    "Time to build one replicate path",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~0.8s
		}),
		aborted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "maq_bootstrap_aborted_total",
			Help: "Bootstrap runs stopped before all replicates finished, by reason",
		}, []string{"reason"}),
	}
}

// Replicate records one finished replicate.
func (r *BootstrapRecorder) Replicate(result string, d time.Duration) {
	if r == nil {
		return
	}
	r.replicates.WithLabelValues(result).Inc()
	r.duration.Observe(d.Seconds())
}

// Aborted records a bootstrap run that stopped early.
func (r *BootstrapRecorder) Aborted(reason string) {
	if r == nil {
		return
	}
	r.aborted.WithLabelValues(reason).Inc()
}
