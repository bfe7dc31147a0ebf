package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard render pipeline.
type Metrics struct {
	RowsLoaded   *prometheus.CounterVec // labels: dataset
	RowsDropped  *prometheus.CounterVec // labels: dataset, reason
	Renders      *prometheus.CounterVec // labels: tab
	RenderErrors *prometheus.CounterVec // labels: tab

	RenderDuration *prometheus.HistogramVec // labels: tab
	FilteredRows   *prometheus.HistogramVec // labels: tab

	Ready prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.Renders,
		m.RenderErrors,
		m.RenderDuration,
		m.FilteredRows,
		m.Ready,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skyfall",
			Name:      "rows_loaded_total",
			Help:      "Rows read from a dataset CSV, including rows later dropped.",
		}, []string{"dataset"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skyfall",
			Name:      "rows_dropped_total",
			Help:      "Rows excluded during derivation, by drop reason.",
		}, []string{"dataset", "reason"}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skyfall",
			Name:      "renders_total",
			Help:      "Completed tab renders.",
		}, []string{"tab"}),
		RenderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skyfall",
			Name:      "render_errors_total",
			Help:      "Tab renders that failed before producing a payload.",
		}, []string{"tab"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "skyfall",
			Name:      "render_duration_seconds",
			Help:      "Duration of a complete load-derive-filter-aggregate render.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"tab"}),
		FilteredRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "skyfall",
			Name:      "filtered_rows",
			Help:      "Rows remaining after the filter pass of a render.",
			Buckets:   []float64{0, 10, 100, 1000, 10000, 100000},
		}, []string{"tab"}),
		Ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "skyfall",
			Name:      "ready",
			Help:      "1 once the startup probe render has succeeded.",
		}),
	}
}
