// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ChatRepliesTotal tracks chat replies by engine and detected intent.
	ChatRepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_replies_total",
			Help: "Total chat replies produced",
		},
		[]string{"engine", "intent"},
	)

	// LLMRequestDuration tracks upstream LLM completion duration.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "LLM completion duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"model", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// LLMFallbacksTotal tracks replies that fell back to the apology message.
	LLMFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_fallbacks_total",
			Help: "Chat replies served by the LLM fallback message",
		},
		[]string{"reason"},
	)

	// ProfileLookupFailures tracks profile reads that degraded to no profile.
	ProfileLookupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_lookup_failures_total",
			Help: "Profile lookups that failed and were treated as absent",
		},
	)

	// ChatEventsPublished tracks chat events sent to NATS.
	ChatEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_events_published_total",
			Help: "Chat events published to NATS",
		},
		[]string{"status"},
	)

	// CurationsTotal tracks curation upserts.
	CurationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curations_total",
			Help: "Curation upserts",
		},
		[]string{"item_type", "op"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLMCompletion records metrics for an LLM completion.
func RecordLLMCompletion(model, status string, duration float64, tokensIn, tokensOut int) {
	LLMRequestDuration.WithLabelValues(model, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// RecordChatReply counts a chat reply.
func RecordChatReply(engine, intent string) {
	ChatRepliesTotal.WithLabelValues(engine, intent).Inc()
}

// RecordLLMFallback counts a fallback reply.
func RecordLLMFallback(reason string) {
	LLMFallbacksTotal.WithLabelValues(reason).Inc()
}
