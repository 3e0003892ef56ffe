package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// feature-engineering stage.
type Metrics struct {
	ClimateRowsRead     prometheus.Counter
	YieldRowsRead       prometheus.Counter
	FeatureRowsProduced prometheus.Counter
	RowsWritten         *prometheus.CounterVec // label: table={climate_features,training,validation,scenarios}
	SchemaViolations    prometheus.Counter
	YieldsImputed       prometheus.Counter
	RunsTotal           *prometheus.CounterVec   // label: outcome={success,error}
	StageDuration       *prometheus.HistogramVec // label: stage={extract,transform,load}
	PipelineRunning     prometheus.Gauge

	// Feature-row publishing metrics.
	FeaturesPublished prometheus.Counter
	PublishEnabled    prometheus.Gauge
}

// NewMetrics creates and registers all stage metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ClimateRowsRead,
		m.YieldRowsRead,
		m.FeatureRowsProduced,
		m.RowsWritten,
		m.SchemaViolations,
		m.YieldsImputed,
		m.RunsTotal,
		m.StageDuration,
		m.PipelineRunning,
		m.FeaturesPublished,
		m.PublishEnabled,
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
		ClimateRowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yield_etl",
			Name:      "climate_rows_read_total",
			Help:      "Daily climate rows read from the silver table.",
		}),
		YieldRowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yield_etl",
			Name:      "yield_rows_read_total",
			Help:      "Raw yield rows read from the source CSV.",
		}),
		FeatureRowsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yield_etl",
			Name:      "feature_rows_produced_total",
			Help:      "Assembled feature rows across all scenarios.",
		}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yield_etl",
			Name:      "rows_written_total",
			Help:      "Rows written per gold output table.",
		}, []string{"table"}),
		SchemaViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yield_etl",
			Name:      "schema_violations_total",
			Help:      "Input schema violations that aborted a run.",
		}),
		YieldsImputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yield_etl",
			Name:      "yields_imputed_total",
			Help:      "Yield values recovered from production/area.",
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yield_etl",
			Name:      "runs_total",
			Help:      "Completed stage runs by outcome.",
		}, []string{"outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "yield_etl",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "yield_etl",
			Name:      "pipeline_running",
			Help:      "1 while a stage run is in progress, 0 otherwise.",
		}),
		FeaturesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yield_etl",
			Name:      "features_published_total",
			Help:      "Feature rows published to the sink topic.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "yield_etl",
			Name:      "publish_enabled",
			Help:      "1 when feature-row publishing is enabled, 0 otherwise.",
		}),
	}
}
