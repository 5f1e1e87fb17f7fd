// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/thrive/internal/affordability"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Seed drives every random draw: KMeans seeding, forests, splits and
	// synthetic classifier users.
	Seed int64 `json:"seed"`

	// Affordability holds the rule-based weights and category thresholds.
	Affordability affordability.Config `json:"affordability"`

	// Training contains sub-model training parameters.
	Training TrainingConfig `json:"training"`

	// Persistence controls the recommendation sink.
	Persistence PersistenceConfig `json:"persistence"`

	// DefaultLimit is applied when Options.Limit is zero. Zero returns all.
	DefaultLimit int `json:"default_limit"`
}

// TrainingConfig contains sub-model training parameters.
type TrainingConfig struct {
	// Clusters is the number of location segments.
	Clusters int `json:"clusters"`

	// MinRecords is the minimum number of locations needed to train.
	MinRecords int `json:"min_records"`

	// MinClusterFeatures is how many of the six cluster features must be present.
	MinClusterFeatures int `json:"min_cluster_features"`

	// NEstimators is the number of trees in each forest.
	NEstimators int `json:"n_estimators"`

	// TestFraction is the held-out share of the regressor split.
	TestFraction float64 `json:"test_fraction"`

	// UsersPerCluster is how many synthetic users label each cluster for the classifier.
	UsersPerCluster int `json:"users_per_cluster"`

	// KeepVersions is how many artifact versions to keep per model. Zero keeps all.
	KeepVersions int `json:"keep_versions"`

	// Workers bounds parallel tree building. Zero uses GOMAXPROCS.
	Workers int `json:"workers"`
}

// PersistenceConfig controls recommendation writes.
type PersistenceConfig struct {
	// Enabled turns the upsert side effect on.
	Enabled bool `json:"enabled"`

	// Breaker settings for the sink circuit breaker.
	BreakerMaxRequests         uint32        `json:"breaker_max_requests"`
	BreakerInterval            time.Duration `json:"breaker_interval"`
	BreakerTimeout             time.Duration `json:"breaker_timeout"`
	BreakerConsecutiveFailures uint32        `json:"breaker_consecutive_failures"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Seed:          42,
		Affordability: affordability.DefaultConfig(),
		Training: TrainingConfig{
			Clusters:           5,
			MinRecords:         10,
			MinClusterFeatures: 3,
			NEstimators:        100,
			TestFraction:       0.2,
			UsersPerCluster:    10,
			KeepVersions:       5,
		},
		Persistence: PersistenceConfig{
			Enabled:                    true,
			BreakerMaxRequests:         1,
			BreakerInterval:            time.Minute,
			BreakerTimeout:             30 * time.Second,
			BreakerConsecutiveFailures: 3,
		},
		DefaultLimit: 0,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Affordability.Validate(); err != nil {
		return err
	}

	t := c.Training
	if t.Clusters < 1 {
		return fmt.Errorf("training.clusters must be positive, got %d", t.Clusters)
	}
	if t.MinRecords < t.Clusters {
		return fmt.Errorf("training.min_records must be >= clusters, got %d < %d", t.MinRecords, t.Clusters)
	}
	if t.MinClusterFeatures < 1 || t.MinClusterFeatures > 6 {
		return fmt.Errorf("training.min_cluster_features must be in [1, 6], got %d", t.MinClusterFeatures)
	}
	if t.NEstimators < 1 {
		return fmt.Errorf("training.n_estimators must be positive, got %d", t.NEstimators)
	}
	if t.TestFraction <= 0 || t.TestFraction >= 1 {
		return fmt.Errorf("training.test_fraction must be in (0, 1), got %v", t.TestFraction)
	}
	if t.UsersPerCluster < 1 {
		return fmt.Errorf("training.users_per_cluster must be positive, got %d", t.UsersPerCluster)
	}
	if t.KeepVersions < 0 {
		return fmt.Errorf("training.keep_versions must be non-negative, got %d", t.KeepVersions)
	}
	if t.Workers < 0 {
		return fmt.Errorf("training.workers must be non-negative, got %d", t.Workers)
	}

	p := c.Persistence
	if p.Enabled && p.BreakerConsecutiveFailures == 0 {
		return fmt.Errorf("persistence.breaker_consecutive_failures must be positive")
	}

	if c.DefaultLimit < 0 {
		return fmt.Errorf("default_limit must be non-negative, got %d", c.DefaultLimit)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	return &Config{
		Seed:          c.Seed,
		Affordability: c.Affordability,
		Training:      c.Training,
		Persistence:   c.Persistence,
		DefaultLimit:  c.DefaultLimit,
	}
}
