// Package metrics exposes Prometheus collectors for the analysis pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	fetchAttempts = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "carbon_fetch_attempts_total",
		Help: "Fetch attempts by strategy and outcome.",
	}, []string{"strategy", "outcome"})

	chainExhausted = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "carbon_fetch_chain_exhausted_total",
		Help: "URL fetches where every strategy failed.",
	})

	predictorFailures = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "carbon_predictor_failures_total",
		Help: "External model predictor calls that failed or timed out.",
	})

	analyses = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "carbon_analyses_total",
		Help: "Completed analyses by status.",
	}, []string{"status"})
)

// FetchAttempt records one strategy attempt.
func FetchAttempt(strategy, outcome string) {
	fetchAttempts.WithLabelValues(strategy, outcome).Inc()
}

// ChainExhausted records a total fetch failure.
func ChainExhausted() {
	chainExhausted.Inc()
}

// PredictorFailure records a failed external prediction call.
func PredictorFailure() {
	predictorFailures.Inc()
}

// Analysis records a completed pipeline run ("ok", "partial", "failed").
func Analysis(status string) {
	analyses.WithLabelValues(status).Inc()
}

// Handler returns the HTTP handler serving the metrics registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
