// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scoring and recommendation
	AffordabilityScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thrive_affordability_scored_total",
			Help: "Total number of locations scored for affordability",
		},
		[]string{"method"}, // "rule_based", "trained"
	)

	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thrive_recommend_requests_total",
			Help: "Total number of recommendation requests by serving mode",
		},
		[]string{"mode"}, // "rule_based", "hybrid"
	)

	RecommendFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thrive_recommend_fallbacks_total",
			Help: "Total number of hybrid requests that fell back to rule-based ranking",
		},
		[]string{"reason"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thrive_recommend_duration_seconds",
			Help:    "Recommendation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	// Training
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thrive_training_runs_total",
			Help: "Total number of sub-model training attempts",
		},
		[]string{"model", "status"}, // status: "success", "failure"
	)

	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thrive_training_duration_seconds",
			Help:    "Sub-model training duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"model"},
	)

	RegressorR2 = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "thrive_regressor_r2",
			Help: "Coefficient of determination of the affordability regressor",
		},
		[]string{"split"}, // "train", "test"
	)

	ModelVersion = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "thrive_model_version",
			Help: "Version of the artifact currently loaded per model (0 = none)",
		},
		[]string{"model"},
	)

	// Persistence
	PersistenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thrive_persistence_failures_total",
			Help: "Total number of recommendation writes that failed",
		},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thrive_db_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thrive_db_query_errors_total",
			Help: "Total number of failed store queries",
		},
		[]string{"driver", "operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "thrive_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thrive_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thrive_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordRecommendation records one served request.
func RecordRecommendation(mode string, duration time.Duration) {
	RecommendRequests.WithLabelValues(mode).Inc()
	RecommendDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordFallback records a hybrid request that was served rule-based.
func RecordFallback(reason string) {
	RecommendFallbacks.WithLabelValues(reason).Inc()
}

// RecordAffordability records how many locations were scored by method.
func RecordAffordability(method string, count int) {
	AffordabilityScored.WithLabelValues(method).Add(float64(count))
}

// RecordTraining records one sub-model training attempt.
func RecordTraining(model string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	TrainingRuns.WithLabelValues(model, status).Inc()
	TrainingDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordDBQuery records a store query.
func RecordDBQuery(driver, operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(driver, operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(driver, operation).Inc()
	}
}
