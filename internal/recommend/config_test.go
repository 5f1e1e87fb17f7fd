// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("default config is valid", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("seed is set for determinism", func(t *testing.T) {
		if cfg.Seed != 42 {
			t.Errorf("Seed = %d, want 42", cfg.Seed)
		}
	})

	t.Run("training defaults", func(t *testing.T) {
		if cfg.Training.Clusters != 5 {
			t.Errorf("Training.Clusters = %d, want 5", cfg.Training.Clusters)
		}
		if cfg.Training.MinRecords != 10 {
			t.Errorf("Training.MinRecords = %d, want 10", cfg.Training.MinRecords)
		}
		if cfg.Training.NEstimators != 100 {
			t.Errorf("Training.NEstimators = %d, want 100", cfg.Training.NEstimators)
		}
		if got := cfg.Training.Clusters * cfg.Training.UsersPerCluster; got != 50 {
			t.Errorf("synthetic classifier users = %d, want 50", got)
		}
	})

	t.Run("default limit returns everything", func(t *testing.T) {
		if cfg.DefaultLimit != 0 {
			t.Errorf("DefaultLimit = %d, want 0", cfg.DefaultLimit)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{
			name:      "valid default config",
			modify:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "zero clusters",
			modify:    func(c *Config) { c.Training.Clusters = 0 },
			wantError: true,
		},
		{
			name:      "min records below clusters",
			modify:    func(c *Config) { c.Training.MinRecords = 3 },
			wantError: true,
		},
		{
			name:      "too many cluster features",
			modify:    func(c *Config) { c.Training.MinClusterFeatures = 7 },
			wantError: true,
		},
		{
			name:      "zero estimators",
			modify:    func(c *Config) { c.Training.NEstimators = 0 },
			wantError: true,
		},
		{
			name:      "test fraction of one",
			modify:    func(c *Config) { c.Training.TestFraction = 1 },
			wantError: true,
		},
		{
			name:      "negative keep versions",
			modify:    func(c *Config) { c.Training.KeepVersions = -1 },
			wantError: true,
		},
		{
			name:      "negative affordability weight",
			modify:    func(c *Config) { c.Affordability.Weights.Housing = -0.1 },
			wantError: true,
		},
		{
			name:      "breaker without trip threshold",
			modify:    func(c *Config) { c.Persistence.BreakerConsecutiveFailures = 0 },
			wantError: true,
		},
		{
			name: "breaker threshold ignored when persistence disabled",
			modify: func(c *Config) {
				c.Persistence.Enabled = false
				c.Persistence.BreakerConsecutiveFailures = 0
			},
			wantError: false,
		},
		{
			name:      "negative default limit",
			modify:    func(c *Config) { c.DefaultLimit = -1 },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	original := DefaultConfig()
	original.Training.Clusters = 7
	original.Persistence.BreakerTimeout = 5 * time.Second

	clone := original.Clone()

	t.Run("clone has same values", func(t *testing.T) {
		if clone.Training.Clusters != original.Training.Clusters {
			t.Errorf("clone.Training.Clusters = %d, want %d", clone.Training.Clusters, original.Training.Clusters)
		}
		if clone.Persistence.BreakerTimeout != original.Persistence.BreakerTimeout {
			t.Errorf("clone.Persistence.BreakerTimeout = %v, want %v", clone.Persistence.BreakerTimeout, original.Persistence.BreakerTimeout)
		}
	})

	t.Run("clone is independent", func(t *testing.T) {
		clone.Training.Clusters = 3
		clone.Affordability.Weights.Housing = 0.1
		if original.Training.Clusters == clone.Training.Clusters {
			t.Error("modifying clone affected original")
		}
		if original.Affordability.Weights.Housing == clone.Affordability.Weights.Housing {
			t.Error("modifying clone weights affected original")
		}
	})
}
