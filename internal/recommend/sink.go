// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/thrive/internal/metrics"
	"github.com/tomtom215/thrive/internal/models"
)

const sinkBreakerName = "recommendation-sink"

// breakerSink wraps a RecommendationSink with a circuit breaker. Once the
// store has failed BreakerConsecutiveFailures times in a row, writes fail
// fast until BreakerTimeout elapses.
//
// The breaker uses real time for its interval and timeout. Tests that need
// recovery should shorten BreakerTimeout rather than mock the breaker.
type breakerSink struct {
	sink RecommendationSink
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newBreakerSink(sink RecommendationSink, cfg PersistenceConfig, logger zerolog.Logger) *breakerSink {
	metrics.CircuitBreakerState.WithLabelValues(sinkBreakerName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        sinkBreakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= cfg.BreakerConsecutiveFailures
			if trip {
				logger.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("opening recommendation sink circuit")
			}
			return trip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("recommendation sink circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &breakerSink{sink: sink, cb: cb, name: sinkBreakerName}
}

// UpsertRecommendation writes through the breaker. Every error it returns
// wraps ErrPersistenceFailure.
func (b *breakerSink) UpsertRecommendation(ctx context.Context, rec models.Recommendation) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.sink.UpsertRecommendation(ctx, rec)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		metrics.PersistenceFailures.Inc()
		return fmt.Errorf("%w: upsert user %d location %d: %w", ErrPersistenceFailure, rec.UserID, rec.LocationID, err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return nil
}

// State returns the breaker state.
func (b *breakerSink) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
