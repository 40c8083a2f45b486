package service

import (
	"net/http"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for analysis runs.
type Metrics struct {
	registry  *prometheus.Registry
	handler   http.Handler
	runs      *prometheus.CounterVec
	stageRows *prometheus.HistogramVec
	cache     *prometheus.CounterVec
}

// NewMetrics initialises a private registry with the analysis metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "abc_analysis_runs_total",
		Help: "Analysis runs by final status.",
	}, []string{"status"})
	stageRows := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "abc_analysis_stage_rows",
		Help:    "Materials remaining after each analysis stage.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"stage"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "abc_result_cache_lookups_total",
		Help: "Result cache lookups by outcome.",
	}, []string{"outcome"})
	registry.MustRegister(runs, stageRows, cacheLookups)
	return &Metrics{
		registry:  registry,
		handler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		runs:      runs,
		stageRows: stageRows,
		cache:     cacheLookups,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) observeRun(run *pipeline.Run) {
	if m == nil || run == nil {
		return
	}
	m.runs.WithLabelValues(string(run.Status)).Inc()
	for _, sc := range run.Stages {
		m.stageRows.WithLabelValues(string(sc.Stage)).Observe(float64(sc.After))
	}
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(pipeline.StatusFailed)).Inc()
}

func (m *Metrics) observeCache(hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cache.WithLabelValues(outcome).Inc()
}
