// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/thrive/internal/config"
	"github.com/tomtom215/thrive/internal/recommend"
)

// testConfig returns a configuration backed by a DuckDB file and model
// directory under t.TempDir, so consecutive commands share state.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(dir, "thrive.duckdb")
	cfg.Database.MaxMemory = "256MB"
	cfg.Database.Threads = 1
	cfg.Engine.ModelDir = filepath.Join(dir, "models")
	cfg.Engine.NEstimators = 10
	cfg.Engine.Workers = 2
	return cfg
}

func runCommand(t *testing.T, cfg *config.Config, args ...string) (int, []byte) {
	t.Helper()
	var stdout bytes.Buffer
	code := run(context.Background(), cfg, args, &stdout, io.Discard)
	return code, stdout.Bytes()
}

func TestRun_Usage(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no command", nil, exitUsage},
		{"unknown command", []string{"predict"}, exitUsage},
		{"help", []string{"help"}, exitOK},
		{"affordability without id", []string{"affordability"}, exitUsage},
		{"recommend with two ids", []string{"recommend", "1", "2"}, exitUsage},
		{"unknown flag", []string{"train", "--epochs", "3"}, exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _ := runCommand(t, cfg, tt.args...); code != tt.want {
				t.Errorf("exit code = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestRun_TrainAffordabilityRecommend(t *testing.T) {
	cfg := testConfig(t)

	code, out := runCommand(t, cfg, "train", "--seed-db", "--seed-users", "3")
	if code != exitOK {
		t.Fatalf("train exit code = %d, want 0; output: %s", code, out)
	}
	var trained struct {
		Source      string                   `json:"source"`
		SeededUsers int                      `json:"seeded_users"`
		Report      recommend.TrainReport    `json:"report"`
		Model       recommend.ContextSummary `json:"model_context"`
	}
	if err := json.Unmarshal(out, &trained); err != nil {
		t.Fatalf("decode train output: %v", err)
	}
	if trained.Source != "synthetic" {
		t.Errorf("source = %q, want synthetic", trained.Source)
	}
	if trained.SeededUsers != 3 {
		t.Errorf("seeded_users = %d, want 3", trained.SeededUsers)
	}
	if !trained.Report.Succeeded() {
		t.Errorf("report = %+v, want every sub-model to succeed", trained.Report)
	}
	if trained.Report.Records != 50 {
		t.Errorf("records = %d, want 50", trained.Report.Records)
	}
	if trained.Model.SegmentedRecords != 50 {
		t.Errorf("model_context.segmented_records = %d, want 50", trained.Model.SegmentedRecords)
	}

	// A second run trains on the locations the first one stored.
	code, out = runCommand(t, cfg, "train")
	if code != exitOK {
		t.Fatalf("second train exit code = %d, want 0; output: %s", code, out)
	}
	if err := json.Unmarshal(out, &trained); err != nil {
		t.Fatalf("decode train output: %v", err)
	}
	if trained.Source != "store" {
		t.Errorf("second train source = %q, want store", trained.Source)
	}

	code, out = runCommand(t, cfg, "affordability", "7")
	if code != exitOK {
		t.Fatalf("affordability exit code = %d, want 0; output: %s", code, out)
	}
	var scored affordabilityOutput
	if err := json.Unmarshal(out, &scored); err != nil {
		t.Fatalf("decode affordability output: %v", err)
	}
	if scored.LocationID != 7 {
		t.Errorf("location_id = %d, want 7", scored.LocationID)
	}
	if scored.AffordabilityScore < 0 || scored.AffordabilityScore > 100 {
		t.Errorf("affordability_score = %v, want within [0, 100]", scored.AffordabilityScore)
	}
	if scored.AffordabilityCategory == "" {
		t.Error("affordability_category is empty")
	}
	if scored.Method != "trained" {
		t.Errorf("method = %q, want trained after loading the regressor", scored.Method)
	}

	code, out = runCommand(t, cfg, "recommend", "2", "--limit", "5")
	if code != exitOK {
		t.Fatalf("recommend exit code = %d, want 0; output: %s", code, out)
	}
	var ranked recommendOutput
	if err := json.Unmarshal(out, &ranked); err != nil {
		t.Fatalf("decode recommend output: %v", err)
	}
	if n := len(ranked.Recommendations); n == 0 || n > 5 {
		t.Errorf("len(recommendations) = %d, want 1..5", n)
	}
	if ranked.Mode != recommend.ModeHybrid && ranked.Mode != recommend.ModeRuleBased {
		t.Errorf("mode = %q, want hybrid or rule_based", ranked.Mode)
	}
	for i := 1; i < len(ranked.Recommendations); i++ {
		if ranked.Recommendations[i].MatchScore > ranked.Recommendations[i-1].MatchScore {
			t.Errorf("recommendations not sorted by match score at %d", i)
		}
	}
}

func TestRun_CommandErrors(t *testing.T) {
	cfg := testConfig(t)
	if code, out := runCommand(t, cfg, "train", "--seed-db", "--seed-users", "1"); code != exitOK {
		t.Fatalf("train exit code = %d, want 0; output: %s", code, out)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown location", []string{"affordability", "999"}, "not found"},
		{"non-numeric location", []string{"affordability", "abc"}, "invalid location id"},
		{"zero user", []string{"recommend", "0"}, "invalid user id"},
		{"unknown user", []string{"recommend", "42"}, "data unavailable"},
		{"negative limit", []string{"recommend", "1", "--limit", "-1"}, "invalid limit"},
		{"zero limit", []string{"recommend", "1", "--limit", "0"}, "invalid limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := runCommand(t, cfg, tt.args...)
			if code != exitError {
				t.Errorf("exit code = %d, want %d", code, exitError)
			}
			var body errorOutput
			if err := json.Unmarshal(out, &body); err != nil {
				t.Fatalf("decode error output %q: %v", out, err)
			}
			if !strings.Contains(body.Error, tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", body.Error, tt.wantErr)
			}
		})
	}
}

func TestRun_AffordabilityEmptyStore(t *testing.T) {
	cfg := testConfig(t)

	code, out := runCommand(t, cfg, "affordability", "1")
	if code != exitError {
		t.Errorf("exit code = %d, want %d", code, exitError)
	}
	if !bytes.Contains(out, []byte("no locations stored")) {
		t.Errorf("output = %s, want the empty store error", out)
	}
}

func TestBuildEngineConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Clusters = 7
	cfg.Engine.Weights.Housing = 0.5
	cfg.Engine.PersistResults = false

	ec := buildEngineConfig(cfg)
	if err := ec.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if ec.Training.Clusters != 7 {
		t.Errorf("Clusters = %d, want 7", ec.Training.Clusters)
	}
	if ec.Affordability.Weights.Housing != 0.5 {
		t.Errorf("Weights.Housing = %v, want 0.5", ec.Affordability.Weights.Housing)
	}
	if ec.Persistence.Enabled {
		t.Error("Persistence.Enabled = true, want false")
	}
	if ec.Training.MinRecords != cfg.Engine.MinTrainingRecords {
		t.Errorf("MinRecords = %d, want %d", ec.Training.MinRecords, cfg.Engine.MinTrainingRecords)
	}
}

func TestOpenStore_UnsupportedDriver(t *testing.T) {
	_, err := openStore(context.Background(), &config.DatabaseConfig{Driver: "sqlite"})
	if err == nil || !strings.Contains(err.Error(), "unsupported database driver") {
		t.Errorf("openStore() error = %v, want unsupported driver", err)
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantPositional []string
		wantLimit      int
	}{
		{"flag after id", []string{"3", "--limit", "5"}, []string{"3"}, 5},
		{"flag before id", []string{"--limit", "4", "3"}, []string{"3"}, 4},
		{"no flags", []string{"3"}, []string{"3"}, 10},
		{"no args", nil, nil, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			limit := fs.Int("limit", 10, "")

			got, err := parseFlags(fs, tt.args)
			if err != nil {
				t.Fatalf("parseFlags() error = %v", err)
			}
			if strings.Join(got, ",") != strings.Join(tt.wantPositional, ",") {
				t.Errorf("positional = %v, want %v", got, tt.wantPositional)
			}
			if *limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", *limit, tt.wantLimit)
			}
		})
	}
}
