package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "climax_batch"

// Metrics holds the Prometheus counters, histograms, and gauges for a batch run.
type Metrics struct {
	LinesRead     prometheus.Counter
	RowsWritten   prometheus.Counter
	LineErrors    *prometheus.CounterVec // labels: stage={parse,climate,format}
	RowsPublished prometheus.Counter
	PublishErrors prometheus.Counter
	BatchRunning  prometheus.Gauge

	// Climate service metrics.
	ClimateDuration prometheus.Histogram
	ClimateCache    *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all batch metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.LinesRead,
		m.RowsWritten,
		m.LineErrors,
		m.RowsPublished,
		m.PublishErrors,
		m.BatchRunning,
		m.ClimateDuration,
		m.ClimateCache,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_read_total",
			Help:      "Total input lines read.",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Total report rows written.",
		}),
		LineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "line_errors_total",
			Help:      "Input lines skipped because of an error, by stage.",
		}, []string{"stage"}),
		RowsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_published_total",
			Help:      "Total report rows published to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Row batches dropped after exhausting publish retries.",
		}),
		BatchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_running",
			Help:      "1 while a batch is being processed, 0 otherwise.",
		}),
		ClimateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "climate_service_duration_seconds",
			Help:      "Duration of a climate service call.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ClimateCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "climate_cache_total",
			Help:      "Climate data cache lookups by result.",
		}, []string{"result"}),
	}
}
