package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/clausewise/internal/analysis"
)

const namespace = "clausewise"

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	analysesTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	analysesInFlight prometheus.Gauge
	clausesTotal     *prometheus.CounterVec
	cacheHits        prometheus.Counter
	modelCallsTotal  *prometheus.CounterVec
	modelDuration    *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "analyses_total",
			Help:      "Document analyses by final status.",
		},
		[]string{"status"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "analysis_duration_seconds",
			Help:      "Document analysis duration in seconds by status.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"status"},
	)
	analysesInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "analyses_in_flight",
			Help:      "Number of documents currently being analyzed.",
		},
	)
	clausesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "clauses_total",
			Help:      "Analyzed clauses by category and importance.",
		},
		[]string{"category", "importance"},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "cache_hits_total",
			Help:      "Analyses served from the result cache.",
		},
	)
	modelCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "calls_total",
			Help:      "External model calls by operation and status.",
		},
		[]string{"operation", "status"},
	)
	modelDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "call_duration_seconds",
			Help:      "External model call latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	registry.MustRegister(analysesTotal, analysisDuration, analysesInFlight, clausesTotal,
		cacheHits, modelCallsTotal, modelDuration, requestTotal)

	return &Metrics{
		registry:         registry,
		analysesTotal:    analysesTotal,
		analysisDuration: analysisDuration,
		analysesInFlight: analysesInFlight,
		clausesTotal:     clausesTotal,
		cacheHits:        cacheHits,
		modelCallsTotal:  modelCallsTotal,
		modelDuration:    modelDuration,
		requestTotal:     requestTotal,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) StartAnalysis() {
	m.analysesInFlight.Inc()
}

// FinishAnalysis records the outcome of one document. Clause counts are
// taken from the report when there is one.
func (m *Metrics) FinishAnalysis(status string, d time.Duration, rep *analysis.Report) {
	m.analysesInFlight.Dec()
	m.analysesTotal.WithLabelValues(status).Inc()
	m.analysisDuration.WithLabelValues(status).Observe(d.Seconds())
	if rep == nil {
		return
	}
	for _, c := range rep.Clauses {
		m.clausesTotal.WithLabelValues(string(c.Category), string(c.Importance)).Inc()
	}
}

func (m *Metrics) CacheHit() {
	m.cacheHits.Inc()
}

// ObserveModelCall implements inference.Observer.
func (m *Metrics) ObserveModelCall(operation string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.modelCallsTotal.WithLabelValues(operation, status).Inc()
	m.modelDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) ObserveRequest(method, route string, status int) {
	m.requestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
