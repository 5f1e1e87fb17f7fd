// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package recommend ranks candidate locations for a household.
//
// # Serving Modes
//
// The engine serves in one of two modes, chosen per request from the
// current model context:
//
//   - Rule-based: every location is scored with the match heuristic and
//     sorted. Always available.
//   - Hybrid: a random forest classifier predicts the household's preferred
//     location cluster, the segmentation model assigns every location to a
//     cluster, and only the predicted cluster is ranked.
//
// Any failure on the hybrid path (schema mismatch, empty cluster, missing
// artifact) falls back to rule-based serving. Fallbacks are logged and
// counted; they are never returned as errors.
//
// # Model Context
//
// Trained artifacts live in a ModelContext, an immutable snapshot held in
// an atomic pointer. Requests load the pointer once, so a request never
// sees a half-updated set of models. Train and Reload build a new context
// and swap it in; they are serialized by a mutex.
//
// Segmentation and classifier come from the same training run. Cluster
// numbers carry no meaning across runs and are never persisted.
//
// # Persistence
//
// Recommendations for a known user are upserted to a RecommendationSink
// guarded by a circuit breaker. Write failures are returned as a
// *PersistenceError alongside the still-valid result.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	engine.SetArtifactStore(store)
//	engine.SetDataStore(db)
//	if err := engine.Reload(ctx); err != nil { ... }
//
//	res, err := engine.RecommendForUser(ctx, userID, recommend.Options{Limit: 10})
package recommend
