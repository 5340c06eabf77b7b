package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_qc"

// Metrics holds the Prometheus collectors for one quality-check run. They are
// registered on a private registry so a batch run can push exactly its own
// series to a Pushgateway.
type Metrics struct {
	Registry *prometheus.Registry

	RowsLoaded    prometheus.Counter
	ValuesFlagged *prometheus.CounterVec   // labels: check, column
	CheckDuration *prometheus.HistogramVec // labels: check
	LoadErrors    *prometheus.CounterVec   // labels: loader
	RunDuration   prometheus.Gauge
	LastSuccess   prometheus.Gauge
}

// NewMetrics creates the run metrics and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Observation rows read from the input file.",
		}),
		ValuesFlagged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "values_flagged_total",
			Help:      "Values nulled or corrected, by check and column.",
		}, []string{"check", "column"}),
		CheckDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of a single quality check over the whole table.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"check"}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      "Failures writing results, by loader.",
		}, []string{"loader"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last completed run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last run completed successfully.",
		}),
	}

	m.Registry.MustRegister(
		m.RowsLoaded,
		m.ValuesFlagged,
		m.CheckDuration,
		m.LoadErrors,
		m.RunDuration,
		m.LastSuccess,
	)

	return m
}
