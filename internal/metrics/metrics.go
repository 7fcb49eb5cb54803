// Package metrics provides the centralized Prometheus metrics registry for
// the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchcast",
		Name:      "predictions_total",
		Help:      "Total number of fixture predictions served, by result",
	}, []string{"status"})
	BatchPredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "matchcast",
		Name:      "batch_predictions_total",
		Help:      "Total number of batch prediction requests",
	})
	RetrainsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchcast",
		Name:      "retrains_total",
		Help:      "Total number of model retrains, by outcome",
	}, []string{"status"})
	FormCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "matchcast",
		Name:      "form_cache_hits_total",
		Help:      "Total number of team-form cache hits",
	})
	FormCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "matchcast",
		Name:      "form_cache_misses_total",
		Help:      "Total number of team-form cache misses",
	})
)

// Gauge metrics
var (
	ModelTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "matchcast",
		Name:      "model_teams",
		Help:      "Number of teams known to the active model",
	})
	ModelMatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "matchcast",
		Name:      "model_matches",
		Help:      "Number of matches in the active model's ledger snapshot",
	})
)

// Histogram metrics
var (
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "matchcast",
		Name:      "prediction_latency_seconds",
		Help:      "Latency of single fixture predictions in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	RetrainDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "matchcast",
		Name:      "retrain_duration_seconds",
		Help:      "Duration of model retraining in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(BatchPredictionsTotal)
		registry.MustRegister(RetrainsTotal)
		registry.MustRegister(FormCacheHitsTotal)
		registry.MustRegister(FormCacheMissesTotal)

		registry.MustRegister(ModelTeams)
		registry.MustRegister(ModelMatches)

		registry.MustRegister(PredictionLatency)
		registry.MustRegister(RetrainDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
