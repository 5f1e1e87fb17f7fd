// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(&cfg.Database)
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Engine   EngineConfig   `koanf:"engine"`
	Retrain  RetrainConfig  `koanf:"retrain"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// Database drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects and tunes the location store.
type DatabaseConfig struct {
	Driver string `koanf:"driver"` // duckdb or postgres

	// DuckDB settings
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)

	// PostgreSQL settings
	DSN      string `koanf:"dsn"`
	MaxConns int32  `koanf:"max_conns"`
}

// EngineConfig holds scoring, training and persistence settings.
type EngineConfig struct {
	ModelDir           string  `koanf:"model_dir"`
	Seed               int64   `koanf:"seed"`
	Clusters           int     `koanf:"clusters"`
	MinTrainingRecords int     `koanf:"min_training_records"`
	MinClusterFeatures int     `koanf:"min_cluster_features"`
	NEstimators        int     `koanf:"n_estimators"`
	TestFraction       float64 `koanf:"test_fraction"`
	UsersPerCluster    int     `koanf:"users_per_cluster"`
	KeepVersions       int     `koanf:"keep_versions"` // Artifact versions kept per model (0 = keep all)
	Workers            int     `koanf:"workers"`       // Parallel tree builders (0 = GOMAXPROCS)
	DefaultLimit       int     `koanf:"default_limit"` // Recommendations returned when no limit is given (0 = all)

	Weights    WeightsConfig    `koanf:"weights"`
	Thresholds ThresholdsConfig `koanf:"thresholds"`

	PersistResults bool          `koanf:"persist_results"`
	Breaker        BreakerConfig `koanf:"breaker"`
}

// WeightsConfig holds the rule-based affordability weights per cost factor.
type WeightsConfig struct {
	Housing        float64 `koanf:"housing"`
	Food           float64 `koanf:"food"`
	Transportation float64 `koanf:"transportation"`
	Healthcare     float64 `koanf:"healthcare"`
	Utilities      float64 `koanf:"utilities"`
}

// ThresholdsConfig holds the lower bounds of each affordability category.
type ThresholdsConfig struct {
	Excellent float64 `koanf:"excellent"`
	Good      float64 `koanf:"good"`
	Moderate  float64 `koanf:"moderate"`
	Poor      float64 `koanf:"poor"`
}

// BreakerConfig configures the circuit breaker around recommendation writes.
type BreakerConfig struct {
	MaxRequests         uint32        `koanf:"max_requests"` // Requests allowed in half-open state
	Interval            time.Duration `koanf:"interval"`     // Closed-state count reset interval
	Timeout             time.Duration `koanf:"timeout"`      // Open-state duration before half-open
	ConsecutiveFailures uint32        `koanf:"consecutive_failures"`
}

// RetrainConfig controls the background retrain service.
type RetrainConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Interval  time.Duration `koanf:"interval"`
	OnStartup bool          `koanf:"on_startup"`

	// MinLocations is the store size below which synthetic locations are
	// used for training.
	MinLocations int `koanf:"min_locations"`
}

// ServerConfig holds ops HTTP server settings.
type ServerConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit"` // Requests per minute per IP (0 = unlimited)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
