// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package database is the embedded DuckDB store for Thrive.
//
// # Overview
//
// DB implements the recommendation engine's collaborators
// (recommend.LocationSource, recommend.ProfileSource and
// recommend.RecommendationSink) on a single DuckDB file. The SQL lives in the
// query subpackage and is shared with the PostgreSQL store in
// database/postgres.
//
// # Architecture
//
//   - database.go: lifecycle (open, checkpoint, close, ping)
//   - database_connection.go: pool configuration and conflict retry
//   - database_schema.go: table creation
//   - migrations.go: versioned migrations tracked in schema_migrations
//   - crud.go: locations, user profiles and recommendation upserts
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	engine.SetDataStore(db)
//
// # Upsert Semantics
//
// user_recommendations is keyed on (user_id, location_id). Writing the same
// pair twice leaves one row holding the second write's scores and timestamp.
//
// # Metrics
//
// Every operation records thrive_db_query_duration_seconds and, on failure,
// thrive_db_query_errors_total with driver="duckdb".
//
// # Thread Safety
//
// DB is safe for concurrent use. Concurrent writers that collide on the same
// row are retried a bounded number of times.
package database
