// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Pinger is satisfied by both stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checkpointer is satisfied by the DuckDB store, which flushes its WAL into
// the database file on Checkpoint.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// StoreServiceConfig holds configuration for the store maintenance service.
type StoreServiceConfig struct {
	// Interval between health checks. Default: 1m
	Interval time.Duration

	// CheckpointEvery runs a checkpoint every N health checks, when the
	// store supports it. Default: 15
	CheckpointEvery int

	// MaxFailures is the number of consecutive failed pings after which
	// Serve returns an error so the supervisor restarts it with backoff.
	// Default: 3
	MaxFailures int
}

// StoreService keeps an eye on the store from the data layer. Ping failures
// are logged; after MaxFailures in a row Serve returns so that suture counts
// the failure.
type StoreService struct {
	store  Pinger
	config StoreServiceConfig
	logger zerolog.Logger
	name   string
}

// NewStoreService creates a new store maintenance service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStoreService(store Pinger, cfg StoreServiceConfig, logger zerolog.Logger) *StoreService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.CheckpointEvery <= 0 {
		cfg.CheckpointEvery = 15
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 3
	}
	return &StoreService{
		store:  store,
		config: cfg,
		logger: logger.With().Str("service", "store").Logger(),
		name:   "store-maintenance",
	}
}

// Serve implements suture.Service.
func (s *StoreService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	failures := 0
	ticks := 0
	for {
		select {
		case <-ctx.Done():
			if cp, ok := s.store.(Checkpointer); ok {
				s.checkpoint(cp)
			}
			return ctx.Err()

		case <-ticker.C:
			ticks++
			if err := s.ping(ctx); err != nil {
				failures++
				s.logger.Warn().Err(err).Int("consecutive_failures", failures).Msg("store ping failed")
				if failures >= s.config.MaxFailures {
					return fmt.Errorf("store unreachable after %d pings: %w", failures, err)
				}
				continue
			}
			failures = 0

			if cp, ok := s.store.(Checkpointer); ok && ticks%s.config.CheckpointEvery == 0 {
				s.checkpoint(cp)
			}
		}
	}
}

func (s *StoreService) ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.store.Ping(pingCtx)
}

// checkpoint uses its own context so the final checkpoint still runs after
// the service context is canceled.
func (s *StoreService) checkpoint(cp Checkpointer) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := cp.Checkpoint(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("checkpoint failed")
		return
	}
	s.logger.Debug().Msg("checkpoint complete")
}

// String returns the service name for logging.
func (s *StoreService) String() string {
	return s.name
}
