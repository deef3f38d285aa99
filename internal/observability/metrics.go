package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the analysis pipeline.
// The loaded/filtered/matched gauges describe the most recent run.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec // label: outcome={success,error}
	PipelineRunning prometheus.Gauge
	StageDuration   *prometheus.HistogramVec // label: stage

	StationsLoaded   prometheus.Gauge
	StationsNoData   prometheus.Gauge
	StationsFiltered prometheus.Gauge
	CitiesMatched    prometheus.Gauge

	SinkPublishes *prometheus.CounterVec // labels: sink, outcome={success,error}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.PipelineRunning,
		m.StageDuration,
		m.StationsLoaded,
		m.StationsNoData,
		m.StationsFiltered,
		m.CitiesMatched,
		m.SinkPublishes,
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
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowbelt",
			Name:      "runs_total",
			Help:      "Completed analysis runs by outcome.",
		}, []string{"outcome"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "snowbelt",
			Name:      "pipeline_running",
			Help:      "1 while an analysis run is in progress.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "snowbelt",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"stage"}),
		StationsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "snowbelt",
			Name:      "stations_loaded",
			Help:      "Stations read from the source layer in the last run.",
		}),
		StationsNoData: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "snowbelt",
			Name:      "stations_no_data",
			Help:      "Stations whose elevation sample fell outside the DEM in the last run.",
		}),
		StationsFiltered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "snowbelt",
			Name:      "stations_filtered",
			Help:      "Stations passing both thresholds in the last run.",
		}),
		CitiesMatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "snowbelt",
			Name:      "cities_matched",
			Help:      "Cities inside at least one station buffer in the last run.",
		}),
		SinkPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowbelt",
			Name:      "sink_publishes_total",
			Help:      "Result publications by sink and outcome.",
		}, []string{"sink", "outcome"}),
	}
}
