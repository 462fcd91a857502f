// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds every metric family the service records.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	llmRequestsTotal   *prometheus.CounterVec
	llmRequestDuration *prometheus.HistogramVec
	llmTokensTotal     *prometheus.CounterVec

	repairOutcomesTotal *prometheus.CounterVec
	repairFailuresTotal *prometheus.CounterVec

	searchRequestsTotal *prometheus.CounterVec
}

// NewCollector registers all metric families on the given registerer.
// Pass prometheus.DefaultRegisterer in production.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursegen",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coursegen",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 15, 60, 180, 300},
		}, []string{"method", "path"}),

		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "coursegen",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of HTTP requests currently being served.",
		}),

		llmRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursegen",
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Total inference requests by model and outcome.",
		}, []string{"model", "outcome"}),

		llmRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coursegen",
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Inference request latency; local models can take minutes.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 180, 300},
		}, []string{"model"}),

		llmTokensTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursegen",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Tokens consumed by direction (prompt or completion).",
		}, []string{"model", "direction"}),

		repairOutcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursegen",
			Subsystem: "repair",
			Name:      "outcomes_total",
			Help:      "Successful response recoveries by winning strategy.",
		}, []string{"strategy"}),

		repairFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursegen",
			Subsystem: "repair",
			Name:      "failures_total",
			Help:      "Unrecoverable responses by failure kind.",
		}, []string{"kind"}),

		searchRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursegen",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Resource searches issued during enrichment, by source.",
		}, []string{"source"}),
	}
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// HTTPInFlightAdd tracks requests currently in the handler chain.
func (c *Collector) HTTPInFlightAdd(delta float64) {
	c.httpInFlight.Add(delta)
}

// RecordLLMRequest records one inference call.
func (c *Collector) RecordLLMRequest(model, outcome string, duration time.Duration) {
	c.llmRequestsTotal.WithLabelValues(model, outcome).Inc()
	c.llmRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordLLMTokens records token usage for a completed inference call.
func (c *Collector) RecordLLMTokens(model string, promptTokens, completionTokens int) {
	c.llmTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	c.llmTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
}

// RecordRepairOutcome records a successful recovery. An empty strategy
// means the direct parse succeeded.
func (c *Collector) RecordRepairOutcome(strategy string) {
	if strategy == "" {
		strategy = "direct"
	}
	c.repairOutcomesTotal.WithLabelValues(strategy).Inc()
}

// RecordRepairFailure records an unrecoverable response.
func (c *Collector) RecordRepairFailure(kind string) {
	c.repairFailuresTotal.WithLabelValues(kind).Inc()
}

// RecordSearch records one enrichment search by source.
func (c *Collector) RecordSearch(source string) {
	c.searchRequestsTotal.WithLabelValues(source).Inc()
}
