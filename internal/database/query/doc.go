// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package query holds the SQL shared by the DuckDB and PostgreSQL stores.
//
// Both engines accept positional $n placeholders and the
// INSERT ... ON CONFLICT ... DO UPDATE form, so statements are written once.
// Only column types differ, and those are selected by Dialect.
//
// # Statements
//
//   - TableStatements / MigrationsTable / Migrations: schema
//   - SelectLocations / UpsertLocation: the locations table
//   - SelectUserProfile / UpsertUserProfile: the user_profiles table
//   - UpsertRecommendation / SelectRecommendations: user_recommendations,
//     keyed on (user_id, location_id)
//
// # Scanning
//
// The Scan* helpers accept any Scanner, which database/sql rows and pgx rows
// both satisfy. Nullable numeric columns scan into models.Optional.
//
//	rows, err := conn.QueryContext(ctx, query.SelectLocations())
//	for rows.Next() {
//	    loc, err := query.ScanLocation(rows)
//	    ...
//	}
//
// # Filters
//
// WhereBuilder composes AND-joined conditions with numbered placeholders:
//
//	wb := query.NewWhereBuilder().AddEquals("user_id", id)
//	sql, args := query.SelectRecommendations(wb)
package query
