package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the plan pipeline.
type Metrics struct {
	RequestsConsumed prometheus.Counter
	ResultsProduced  prometheus.Counter
	ComputeErrors    prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize     prometheus.Histogram
	BatchDuration prometheus.Histogram

	// PlansByBand counts computed envelopes by confidence band.
	PlansByBand *prometheus.CounterVec // label: band={High,Moderate,Low}

	// Synchronous compute endpoint metrics.
	HTTPComputes *prometheus.CounterVec // labels: route={envelope,cone}, outcome={ok,bad_request}
	ResultCache  *prometheus.CounterVec // label: result={hit,miss,bypass}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RequestsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scent_plan",
			Name:      "requests_consumed_total",
			Help:      "Total plan requests read from the source topic.",
		}),
		ResultsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scent_plan",
			Name:      "results_produced_total",
			Help:      "Total plan results written to the sink topic.",
		}),
		ComputeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scent_plan",
			Name:      "compute_errors_total",
			Help:      "Total plan requests rejected during parse or compute.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scent_plan",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scent_plan",
			Name:      "batch_size",
			Help:      "Number of plan requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scent_plan",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete batch extract-compute-load cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		PlansByBand: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scent_plan",
			Name:      "plans_by_band_total",
			Help:      "Computed plans by confidence band.",
		}, []string{"band"}),
		HTTPComputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scent_plan",
			Name:      "http_computes_total",
			Help:      "Synchronous compute requests by route and outcome.",
		}, []string{"route", "outcome"}),
		ResultCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scent_plan",
			Name:      "result_cache_total",
			Help:      "Envelope result cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.RequestsConsumed,
		m.ResultsProduced,
		m.ComputeErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchDuration,
		m.PlansByBand,
		m.HTTPComputes,
		m.ResultCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RequestsConsumed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "scent_plan", Name: "requests_consumed_total"}),
		ResultsProduced:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "scent_plan", Name: "results_produced_total"}),
		ComputeErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "scent_plan", Name: "compute_errors_total"}),
		PipelineRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "scent_plan", Name: "pipeline_running"}),
		BatchSize:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "scent_plan", Name: "batch_size"}),
		BatchDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "scent_plan", Name: "batch_duration_seconds"}),
		PlansByBand:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "scent_plan", Name: "plans_by_band_total"}, []string{"band"}),
		HTTPComputes:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "scent_plan", Name: "http_computes_total"}, []string{"route", "outcome"}),
		ResultCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "scent_plan", Name: "result_cache_total"}, []string{"result"}),
	}
}
