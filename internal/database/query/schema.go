// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package query

import (
	"fmt"
	"strings"
)

// Dialect selects the column types that differ between the stores.
type Dialect int

const (
	// DuckDB is the embedded default store.
	DuckDB Dialect = iota
	// Postgres is the server-backed store.
	Postgres
)

// String returns the driver name used in metrics labels.
func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "duckdb"
}

func (d Dialect) double() string {
	if d == Postgres {
		return "DOUBLE PRECISION"
	}
	return "DOUBLE"
}

func (d Dialect) timestamp() string {
	if d == Postgres {
		return "TIMESTAMPTZ"
	}
	// TIMESTAMPTZ needs the ICU extension in DuckDB, which is not autoloaded.
	return "TIMESTAMP"
}

// Table names.
const (
	TableLocations       = "locations"
	TableUserProfiles    = "user_profiles"
	TableRecommendations = "user_recommendations"
	TableMigrations      = "schema_migrations"
)

// TableStatements returns the CREATE TABLE statements in dependency order.
func TableStatements(d Dialect) []string {
	numeric := make([]string, len(LocationFields))
	for i, f := range LocationFields {
		numeric[i] = fmt.Sprintf("\t%s %s", f, d.double())
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGINT PRIMARY KEY,
	city TEXT NOT NULL,
	state TEXT NOT NULL,
	country TEXT NOT NULL DEFAULT '',
%s
)`, TableLocations, strings.Join(numeric, ",\n")),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	user_id BIGINT PRIMARY KEY,
	income %[2]s NOT NULL,
	savings %[2]s NOT NULL DEFAULT 0,
	household_size INTEGER NOT NULL DEFAULT 1,
	housing_budget_preference TEXT NOT NULL,
	requires_healthcare BOOLEAN NOT NULL DEFAULT FALSE,
	transportation_preference TEXT NOT NULL,
	safety_importance TEXT NOT NULL
)`, TableUserProfiles, d.double()),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	user_id BIGINT NOT NULL,
	location_id BIGINT NOT NULL,
	affordability_score %[2]s NOT NULL,
	match_score %[2]s NOT NULL,
	created_at %[3]s NOT NULL,
	PRIMARY KEY (user_id, location_id)
)`, TableRecommendations, d.double(), d.timestamp()),
	}
}

// MigrationsTable returns the migration tracking table statement.
func MigrationsTable(d Dialect) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at %s NOT NULL
)`, TableMigrations, d.timestamp())
}

// Migration is a versioned schema change applied exactly once per store.
type Migration struct {
	Version     int    // Unique version number (monotonically increasing)
	Name        string // Human-readable migration name
	Description string // What this migration does
	SQL         string // Statement to execute
}

// Migrations returns every versioned migration in order.
//
// Migrations MUST be append-only. Never modify or remove an entry once a
// store has applied it. Indexes must not cover columns the upserts rewrite:
// DuckDB rejects ON CONFLICT DO UPDATE assignments to indexed columns.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Name:        "recommendations_location_index",
			Description: "Index stored recommendations by location",
			SQL:         `CREATE INDEX IF NOT EXISTS idx_user_recommendations_location ON user_recommendations(location_id)`,
		},
	}
}
