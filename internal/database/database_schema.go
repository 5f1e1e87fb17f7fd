// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

/*
database_schema.go - Table Creation

Tables:
  - locations: one row per candidate place, numeric attributes nullable
  - user_profiles: one row per user, keyed by user_id
  - user_recommendations: (user_id, location_id) primary key, upserted on
    every persisted recommendation

Statements are shared with the PostgreSQL store via the query package.
Later schema changes go through versioned migrations (migrations.go).
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/thrive/internal/database/query"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, stmt := range query.TableStatements(dialect) {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", stmt, err)
		}
	}

	return nil
}
