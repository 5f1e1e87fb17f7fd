// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/thrive/internal/affordability"
	"github.com/tomtom215/thrive/internal/config"
	"github.com/tomtom215/thrive/internal/database"
	"github.com/tomtom215/thrive/internal/database/postgres"
	"github.com/tomtom215/thrive/internal/models"
	"github.com/tomtom215/thrive/internal/recommend"
	"github.com/tomtom215/thrive/internal/recommend/storage"
)

// dataStore is what every command needs from the DuckDB or PostgreSQL store.
type dataStore interface {
	recommend.DataStore
	SeedLocations(ctx context.Context, locs []models.Location) error
	SaveUserProfile(ctx context.Context, userID int64, p *models.UserProfile) error
	Ping(ctx context.Context) error
	Close() error
}

// app bundles the components shared by the commands.
type app struct {
	cfg       *config.Config
	store     dataStore
	artifacts *storage.Store
	engine    *recommend.Engine
	logger    zerolog.Logger
}

// openStore connects to the configured database driver.
func openStore(ctx context.Context, cfg *config.DatabaseConfig) (dataStore, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverDuckDB, "":
		db, err := database.New(cfg)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// buildEngineConfig maps application configuration onto the engine's.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	ec := cfg.Engine
	return &recommend.Config{
		Seed: ec.Seed,
		Affordability: affordability.Config{
			Weights: affordability.Weights{
				Housing:        ec.Weights.Housing,
				Food:           ec.Weights.Food,
				Transportation: ec.Weights.Transportation,
				Healthcare:     ec.Weights.Healthcare,
				Utilities:      ec.Weights.Utilities,
			},
			Thresholds: affordability.Thresholds{
				Excellent: ec.Thresholds.Excellent,
				Good:      ec.Thresholds.Good,
				Moderate:  ec.Thresholds.Moderate,
				Poor:      ec.Thresholds.Poor,
			},
		},
		Training: recommend.TrainingConfig{
			Clusters:           ec.Clusters,
			MinRecords:         ec.MinTrainingRecords,
			MinClusterFeatures: ec.MinClusterFeatures,
			NEstimators:        ec.NEstimators,
			TestFraction:       ec.TestFraction,
			UsersPerCluster:    ec.UsersPerCluster,
			KeepVersions:       ec.KeepVersions,
			Workers:            ec.Workers,
		},
		Persistence: recommend.PersistenceConfig{
			Enabled:                    ec.PersistResults,
			BreakerMaxRequests:         ec.Breaker.MaxRequests,
			BreakerInterval:            ec.Breaker.Interval,
			BreakerTimeout:             ec.Breaker.Timeout,
			BreakerConsecutiveFailures: ec.Breaker.ConsecutiveFailures,
		},
		DefaultLimit: ec.DefaultLimit,
	}
}

// newApp opens the store and the artifact directory, builds the engine and
// loads whatever artifacts exist. A failed load leaves the engine serving
// rule-based results.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	store, err := openStore(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	artifacts, err := storage.NewStore(cfg.Engine.ModelDir)
	if err != nil {
		closeStore(store, logger)
		return nil, fmt.Errorf("open model directory: %w", err)
	}

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), logger)
	if err != nil {
		closeStore(store, logger)
		return nil, fmt.Errorf("create engine: %w", err)
	}
	engine.SetDataStore(store)
	engine.SetArtifactStore(artifacts)

	if err := engine.Reload(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to load model artifacts, serving rule-based")
	}

	return &app{cfg: cfg, store: store, artifacts: artifacts, engine: engine, logger: logger}, nil
}

func (a *app) close() {
	closeStore(a.store, a.logger)
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func closeStore(store dataStore, logger zerolog.Logger) {
	if err := store.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close store")
	}
}
