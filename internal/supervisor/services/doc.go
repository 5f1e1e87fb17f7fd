// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package services provides the suture services run by thrive serve.
//
//   - StoreService (data layer): pings the store, checkpoints DuckDB, and
//     returns an error after repeated ping failures so suture backs off.
//   - RetrainService (services layer): trains on startup and on an interval,
//     falling back to synthetic locations when the store has too few, then
//     reloads the latest artifacts. Failures are logged, never returned.
//   - HTTPServerService (services layer): runs the ops router built by
//     NewOpsRouter (/healthz, /readyz, /metrics) and shuts it down on cancel.
//
// Every service takes narrow interfaces (Trainer, LocationFetcher, Pinger,
// ContextProvider) rather than concrete engine or store types, so tests use
// small hand-written mocks.
package services
