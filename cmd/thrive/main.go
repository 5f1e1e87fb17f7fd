// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package main is the thrive command line entry point.
//
// # Commands
//
//	thrive train [--synthetic] [--seed-db] [--seed-users N]
//	    Train the affordability regressor, the location segmentation and the
//	    cluster classifier, and print the per-sub-model report as JSON.
//	    Fewer than retrain.min_locations stored locations (or --synthetic)
//	    trains on 50 generated ones; --seed-db also writes them, plus N
//	    generated user profiles, to the store.
//
//	thrive affordability <location_id>
//	    Score every stored location and print the one asked for.
//
//	thrive recommend <user_id> [--limit 10]
//	    Rank locations for a stored user profile and persist the result.
//
//	thrive serve
//	    Run the supervisor tree: store maintenance, periodic retraining and
//	    the ops HTTP server (/healthz, /readyz, /metrics).
//
// # Configuration
//
// Configuration is loaded via Koanf v2 (defaults, then config.yaml, then
// environment variables); see internal/config. The most common overrides:
//
//	DATABASE_DRIVER=postgres DATABASE_URL=postgres://... thrive serve
//	DUCKDB_PATH=./thrive.duckdb THRIVE_MODEL_DIR=./models thrive train --seed-db
//
// Results go to stdout as JSON; logs go to stderr.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/thrive/internal/config"
	"github.com/tomtom215/thrive/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
