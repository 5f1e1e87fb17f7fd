// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package config

import (
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			modify: func(c *Config) {},
		},
		{
			name:    "duckdb without path",
			modify:  func(c *Config) { c.Database.Path = "" },
			wantErr: "DUCKDB_PATH",
		},
		{
			name: "postgres with dsn",
			modify: func(c *Config) {
				c.Database.Driver = DriverPostgres
				c.Database.DSN = "postgres://localhost/thrive"
			},
		},
		{
			name: "postgres without pool",
			modify: func(c *Config) {
				c.Database.Driver = DriverPostgres
				c.Database.DSN = "postgres://localhost/thrive"
				c.Database.MaxConns = 0
			},
			wantErr: "DATABASE_MAX_CONNS",
		},
		{
			name:    "min records below clusters",
			modify:  func(c *Config) { c.Engine.MinTrainingRecords = 2 },
			wantErr: "min_training_records",
		},
		{
			name:    "negative weight",
			modify:  func(c *Config) { c.Engine.Weights.Food = -1 },
			wantErr: "weights",
		},
		{
			name:    "all weights zero",
			modify:  func(c *Config) { c.Engine.Weights = WeightsConfig{} },
			wantErr: "positive sum",
		},
		{
			name:    "thresholds out of order",
			modify:  func(c *Config) { c.Engine.Thresholds.Good = 90 },
			wantErr: "thresholds",
		},
		{
			name:    "retrain without interval",
			modify:  func(c *Config) { c.Retrain.Interval = 0 },
			wantErr: "RETRAIN_INTERVAL",
		},
		{
			name: "retrain disabled ignores interval",
			modify: func(c *Config) {
				c.Retrain.Enabled = false
				c.Retrain.Interval = 0
			},
		},
		{
			name: "server disabled ignores port",
			modify: func(c *Config) {
				c.Server.Enabled = false
				c.Server.Port = 0
			},
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
		{
			name:   "log level is case-insensitive",
			modify: func(c *Config) { c.Logging.Level = "DEBUG" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
