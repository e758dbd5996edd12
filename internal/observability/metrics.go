package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "seismic"

// Metrics holds the Prometheus counters, histograms, and gauges for the threshold sweep.
type Metrics struct {
	EventsParsed    prometheus.Counter
	ThresholdsSwept prometheus.Counter
	PlotsRendered   prometheus.Counter
	RenderErrors    prometheus.Counter
	SweepRunning    prometheus.Gauge
	LastSweepEvents prometheus.Gauge
	SweepDuration   prometheus.Histogram

	// Report publishing metrics.
	ReportsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all sweep metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.EventsParsed,
		m.ThresholdsSwept,
		m.PlotsRendered,
		m.RenderErrors,
		m.SweepRunning,
		m.LastSweepEvents,
		m.SweepDuration,
		m.ReportsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EventsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_parsed_total",
			Help:      "Total event records parsed from input files.",
		}),
		ThresholdsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thresholds_swept_total",
			Help:      "Total magnitude thresholds for which a histogram was built.",
		}),
		PlotsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plots_rendered_total",
			Help:      "Total charts saved or displayed.",
		}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Total chart rendering failures.",
		}),
		SweepRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sweep_running",
			Help:      "1 while a threshold sweep is in progress, 0 otherwise.",
		}),
		LastSweepEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_sweep_events",
			Help:      "Number of events in the most recently completed sweep.",
		}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Duration of a complete read-sweep-render-publish cycle.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_published_total",
			Help:      "Total histogram reports written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total failed report publish attempts.",
		}),
	}
}
