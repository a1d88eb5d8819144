package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for dataset loading, rendering and
// summary publishing.
type Metrics struct {
	DatasetRecords     prometheus.Gauge
	DatasetLoaded      prometheus.Gauge
	UnresolvedCodes    prometheus.Gauge
	LoadDuration       prometheus.Histogram
	Renders            *prometheus.CounterVec   // labels: view
	RenderErrors       *prometheus.CounterVec   // labels: view
	RenderDuration     *prometheus.HistogramVec // labels: view
	SummariesPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetRecords,
		m.DatasetLoaded,
		m.UnresolvedCodes,
		m.LoadDuration,
		m.Renders,
		m.RenderErrors,
		m.RenderDuration,
		m.SummariesPublished,
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
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_dashboard",
			Name:      "dataset_records",
			Help:      "Number of daily country records in the loaded dataset.",
		}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_dashboard",
			Name:      "dataset_loaded",
			Help:      "1 once the dataset is loaded and served, 0 before.",
		}),
		UnresolvedCodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_dashboard",
			Name:      "unresolved_country_codes",
			Help:      "Distinct country codes with no alpha-3 mapping (hidden from maps).",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "covid_dashboard",
			Name:      "dataset_load_duration_seconds",
			Help:      "Time to read, resolve and index the dataset.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_dashboard",
			Name:      "renders_total",
			Help:      "Rendered dashboard views by view name.",
		}, []string{"view"}),
		RenderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_dashboard",
			Name:      "render_errors_total",
			Help:      "Failed renders by view name.",
		}, []string{"view"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "covid_dashboard",
			Name:      "render_duration_seconds",
			Help:      "Time to aggregate and render a view.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"view"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_dashboard",
			Name:      "region_summaries_published_total",
			Help:      "Region total messages written to the summary topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_dashboard",
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish region totals.",
		}),
	}
}
