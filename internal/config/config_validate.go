// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateEngine(); err != nil {
		return err
	}

	if err := c.validateRetrain(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DATABASE_DRIVER=duckdb")
		}
		if c.Database.Threads < 0 {
			return fmt.Errorf("DUCKDB_THREADS must be non-negative, got %d", c.Database.Threads)
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER=postgres")
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("DATABASE_MAX_CONNS must be positive, got %d", c.Database.MaxConns)
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be one of [duckdb, postgres], got %q", c.Database.Driver)
	}
	return nil
}

func (c *Config) validateEngine() error {
	e := c.Engine
	if e.ModelDir == "" {
		return fmt.Errorf("THRIVE_MODEL_DIR is required")
	}
	if e.Clusters < 1 {
		return fmt.Errorf("engine.clusters must be positive, got %d", e.Clusters)
	}
	if e.MinTrainingRecords < e.Clusters {
		return fmt.Errorf("engine.min_training_records must be >= clusters, got %d < %d", e.MinTrainingRecords, e.Clusters)
	}
	if e.MinClusterFeatures < 1 || e.MinClusterFeatures > 6 {
		return fmt.Errorf("engine.min_cluster_features must be in [1, 6], got %d", e.MinClusterFeatures)
	}
	if e.NEstimators < 1 {
		return fmt.Errorf("engine.n_estimators must be positive, got %d", e.NEstimators)
	}
	if e.TestFraction <= 0 || e.TestFraction >= 1 {
		return fmt.Errorf("engine.test_fraction must be in (0, 1), got %v", e.TestFraction)
	}
	if e.UsersPerCluster < 1 {
		return fmt.Errorf("engine.users_per_cluster must be positive, got %d", e.UsersPerCluster)
	}
	if e.KeepVersions < 0 || e.Workers < 0 {
		return fmt.Errorf("engine.keep_versions and engine.workers must be non-negative")
	}
	if e.DefaultLimit < 0 {
		return fmt.Errorf("engine.default_limit must be non-negative, got %d", e.DefaultLimit)
	}

	w := e.Weights
	if w.Housing < 0 || w.Food < 0 || w.Transportation < 0 || w.Healthcare < 0 || w.Utilities < 0 {
		return fmt.Errorf("engine.weights must be non-negative")
	}
	if w.Housing+w.Food+w.Transportation+w.Healthcare+w.Utilities <= 0 {
		return fmt.Errorf("engine.weights must have a positive sum")
	}

	t := e.Thresholds
	if !(t.Excellent > t.Good && t.Good > t.Moderate && t.Moderate > t.Poor && t.Poor >= 0) {
		return fmt.Errorf("engine.thresholds must be strictly descending and non-negative, got %v/%v/%v/%v",
			t.Excellent, t.Good, t.Moderate, t.Poor)
	}

	if e.PersistResults && e.Breaker.ConsecutiveFailures == 0 {
		return fmt.Errorf("engine.breaker.consecutive_failures must be positive when results are persisted")
	}
	return nil
}

func (c *Config) validateRetrain() error {
	if c.Retrain.Enabled && c.Retrain.Interval <= 0 {
		return fmt.Errorf("RETRAIN_INTERVAL must be positive when retraining is enabled, got %v", c.Retrain.Interval)
	}
	if c.Retrain.MinLocations < 0 {
		return fmt.Errorf("RETRAIN_MIN_LOCATIONS must be non-negative, got %d", c.Retrain.MinLocations)
	}
	return nil
}

func (c *Config) validateServer() error {
	if !c.Server.Enabled {
		return nil
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be non-negative, got %d", c.Server.RateLimit)
	}
	return nil
}

// validLogLevels lists the accepted LOG_LEVEL values.
var validLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}

func (c *Config) validateLogging() error {
	level := strings.ToLower(c.Logging.Level)
	valid := false
	for _, l := range validLogLevels {
		if level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("LOG_LEVEL must be one of %v, got %q", validLogLevels, c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
