// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered with the default registry through promauto when the
package is loaded, and exposed by the ops HTTP service at /metrics:

	curl http://localhost:9464/metrics

# Available Metrics

Scoring and recommendation:
  - thrive_affordability_scored_total{method}
  - thrive_recommend_requests_total{mode}
  - thrive_recommend_fallbacks_total{reason}
  - thrive_recommend_duration_seconds{mode}

Training:
  - thrive_training_runs_total{model,status}
  - thrive_training_duration_seconds{model}
  - thrive_regressor_r2{split}
  - thrive_model_version{model}

Persistence:
  - thrive_persistence_failures_total
  - thrive_db_query_duration_seconds{driver,operation}
  - thrive_db_query_errors_total{driver,operation}
  - thrive_circuit_breaker_state{name}
  - thrive_circuit_breaker_requests_total{name,result}
  - thrive_circuit_breaker_state_transitions_total{name,from_state,to_state}

# Usage

	start := time.Now()
	res, err := engine.Recommend(ctx, userID, profile, locations, opts)
	metrics.RecordRecommendation(string(res.Mode), time.Since(start))
*/
package metrics
