// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package logging provides centralized zerolog-based structured logging for Thrive.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  cfg.Logging.Level,
//	    Format: cfg.Logging.Format,
//	    Caller: cfg.Logging.Caller,
//	})
//
//	logger := logging.WithComponent("engine")
//	logger.Info().Int("locations", len(locs)).Msg("Training started")
//
// Fatal is the only package-level event helper; main uses it before the
// configuration is loaded.
//
// Logs always go to stderr by default. The CLI writes its JSON results to
// stdout, and the two must not mix.
//
// # Component Loggers
//
// Long-lived components derive a child logger once and keep it:
//
//	logger := logging.WithComponent("retrain")
//
// # Correlation IDs
//
// Every CLI command and every retrain run gets a short correlation ID.
// The ops HTTP router assigns a request ID per request. Both are carried in
// the context and added to log lines by Ctx and CtxWith:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Msg("Recommending")
//	// {"level":"info","correlation_id":"1f0c2a9b","message":"Recommending"}
//
// A component logger stored with ContextWithLogger is used as the base
// instead of the global one:
//
//	ctx = logging.ContextWithLogger(ctx, e.logger)
//	logger := logging.CtxWith(ctx).Str("run_id", runID).Logger()
//
// # slog Adapter
//
// Suture reports supervisor events through sutureslog, which needs an
// *slog.Logger. NewSlogLogger returns one that writes through zerolog.
//
// # Field Names
//
// time, level, message, error and caller. Always terminate a chain with
// Msg or Send or nothing is emitted.
package logging
