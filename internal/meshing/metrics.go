package meshing

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by a Scheduler.
type Metrics struct {
	passes     prometheus.Counter
	empty      prometheus.Counter
	errors     prometheus.Counter
	discarded  prometheus.Counter
	requeued   prometheus.Counter
	quads      prometheus.Counter
	duration   prometheus.Histogram
	inflight   prometheus.Gauge
	queueDepth prometheus.Gauge
}

// NewMetrics creates the mesher collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mesher",
			Name:      "passes_total",
			Help:      "Mesh passes completed successfully.",
		}),
		empty: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mesher",
			Name:      "empty_chunks_total",
			Help:      "Chunks published as empty without running a pass.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mesher",
			Name:      "config_errors_total",
			Help:      "Mesh passes aborted by a registry configuration error.",
		}),
		discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mesher",
			Name:      "discarded_total",
			Help:      "Mesh results dropped because their chunk was unloaded or changed.",
		}),
		requeued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mesher",
			Name:      "requeued_total",
			Help:      "Dirty chunks put back because they could not be meshed yet.",
		}),
		quads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mesher",
			Name:      "quads_total",
			Help:      "Quads emitted across terrain and liquid buffers.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mesher",
			Name:      "pass_duration_seconds",
			Help:      "Time spent in one mesh pass.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mesher",
			Name:      "inflight",
			Help:      "Mesh passes submitted and not yet collected.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mesher",
			Name:      "dirty_chunks",
			Help:      "Chunks waiting to be re-meshed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.passes, m.empty, m.errors, m.discarded, m.requeued,
			m.quads, m.duration, m.inflight, m.queueDepth)
	}
	return m
}

func (m *Metrics) observePass(quads int, d time.Duration) {
	m.passes.Inc()
	m.quads.Add(float64(quads))
	m.duration.Observe(d.Seconds())
}
