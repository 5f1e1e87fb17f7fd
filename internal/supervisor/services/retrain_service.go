// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/thrive/internal/logging"
	"github.com/tomtom215/thrive/internal/models"
	"github.com/tomtom215/thrive/internal/recommend"
	"github.com/tomtom215/thrive/internal/synthetic"
)

// SyntheticLocations is the number of generated locations used when the
// store has too few to train on.
const SyntheticLocations = 50

// Trainer is the part of *recommend.Engine the retrain loop drives.
type Trainer interface {
	Train(ctx context.Context, locs []models.Location) (*recommend.TrainReport, error)
	Reload(ctx context.Context) error
}

// LocationFetcher provides training locations.
type LocationFetcher interface {
	FetchLocations(ctx context.Context) ([]models.Location, error)
}

// RetrainServiceConfig holds configuration for the retrain service.
type RetrainServiceConfig struct {
	// TrainOnStartup triggers a training cycle when the service starts.
	TrainOnStartup bool

	// TrainInterval is how often to retrain. Default: 24h
	TrainInterval time.Duration

	// MinLocations is the smallest stored batch trained on as-is. Smaller
	// batches, and fetch failures, fall back to synthetic locations.
	MinLocations int

	// Seed seeds the synthetic generator.
	Seed int64

	// Timeout bounds one training cycle. Default: 30m
	Timeout time.Duration
}

// RetrainService periodically retrains the engine and reloads the latest
// artifacts. Training failures are logged and never end the service.
type RetrainService struct {
	trainer Trainer
	source  LocationFetcher
	config  RetrainServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewRetrainService creates a new retrain service. source may be nil, in
// which case every cycle trains on synthetic locations.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(trainer Trainer, source LocationFetcher, cfg RetrainServiceConfig, logger zerolog.Logger) *RetrainService {
	if cfg.TrainInterval <= 0 {
		cfg.TrainInterval = 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &RetrainService{
		trainer: trainer,
		source:  source,
		config:  cfg,
		logger:  logger.With().Str("service", "retrain").Logger(),
		name:    "retrain-service",
	}
}

// Serve implements suture.Service.
func (s *RetrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("retrain service starting")

	if s.config.TrainOnStartup {
		s.cycle(ctx)
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("retrain service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

// cycle trains on the current locations and then reloads the latest
// artifacts, which also picks up artifacts saved by `thrive train`.
func (s *RetrainService) cycle(ctx context.Context) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := s.logger.With().Str("correlation_id", logging.CorrelationIDFromContext(ctx)).Logger()

	cycleCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	locs := s.trainingLocations(cycleCtx, logger)

	report, err := s.trainer.Train(cycleCtx, locs)
	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		logger.Info().Msg("training already in progress, skipping cycle")
		return
	case err != nil:
		logger.Warn().Err(err).Msg("scheduled training failed")
	case report != nil:
		logger.Info().Str("run_id", report.RunID).Int("records", report.Records).Msg("scheduled training complete")
	}

	if err := s.trainer.Reload(cycleCtx); err != nil {
		logger.Warn().Err(err).Msg("model reload failed, keeping current context")
	}
}

func (s *RetrainService) trainingLocations(ctx context.Context, logger zerolog.Logger) []models.Location { //nolint:gocritic // logger passed by value is acceptable for zerolog
	if s.source != nil {
		locs, err := s.source.FetchLocations(ctx)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("fetch locations failed, using synthetic data")
		case len(locs) < s.config.MinLocations:
			logger.Info().Int("found", len(locs)).Int("min", s.config.MinLocations).Msg("too few locations, using synthetic data")
		default:
			return locs
		}
	}
	return synthetic.New(s.config.Seed).Locations(SyntheticLocations)
}

// String returns the service name for logging.
func (s *RetrainService) String() string {
	return s.name
}
