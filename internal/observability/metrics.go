package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "demand_forecast"

// Source fetch outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus collectors for a forecast run.
type Metrics struct {
	Registry *prometheus.Registry

	SourceFetches *prometheus.CounterVec // labels: source, outcome={success,empty,error}
	SourceEvents  *prometheus.CounterVec // labels: source
	FetchAttempts *prometheus.CounterVec // labels: source

	RunDuration  prometheus.Histogram
	QualityOK    prometheus.Gauge
	ForecastDays prometheus.Gauge
}

// NewMetrics creates the run metrics on a dedicated registry, together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SourceFetches,
		m.SourceEvents,
		m.FetchAttempts,
		m.RunDuration,
		m.QualityOK,
		m.ForecastDays,
	)
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry without the runtime
// collectors, so tests can build as many as they need.
func NewMetricsForTesting() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	reg.MustRegister(
		m.SourceFetches,
		m.SourceEvents,
		m.FetchAttempts,
		m.RunDuration,
		m.QualityOK,
		m.ForecastDays,
	)
	return m
}

func newMetrics(reg *prometheus.Registry) *Metrics {
	return &Metrics{
		Registry: reg,
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetch_total",
			Help:      "Upstream source fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_events_total",
			Help:      "Events contributed by each source.",
		}, []string{"source"}),
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "HTTP attempts made by the scrape fetcher, retries included.",
		}, []string{"source"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete report build.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40},
		}),
		QualityOK: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forecast_quality_ok",
			Help:      "1 when the last report passed the quality check, 0 otherwise.",
		}),
		ForecastDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forecast_days",
			Help:      "Number of days assembled in the last report build.",
		}),
	}
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
