package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ngo_connect"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "The total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "provider",
		Name:      "calls_total",
		Help:      "The total number of outbound provider calls",
	}, []string{"provider", "outcome"})

	TranslationLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "translation",
		Name:      "lookups_total",
		Help:      "Translation lookups by the layer that answered",
	}, []string{"layer"})
)

// Provider names used as the "provider" label.
const (
	ProviderTranslate = "translate"
	ProviderLLM       = "llm"
	ProviderMpesa     = "mpesa"
	ProviderStorage   = "storage"
)

// ObserveProvider counts one provider call.
func ObserveProvider(provider string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ProviderCalls.WithLabelValues(provider, outcome).Inc()
}
