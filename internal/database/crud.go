// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/thrive/internal/database/query"
	"github.com/tomtom215/thrive/internal/models"
	"github.com/tomtom215/thrive/internal/recommend"
)

// FetchLocations returns every stored location ordered by id.
func (db *DB) FetchLocations(ctx context.Context) (locs []models.Location, err error) {
	start := time.Now()
	defer func() { observe("fetch_locations", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query.SelectLocations())
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer closeWithLog(rows, db.logger, "location rows")

	for rows.Next() {
		loc, err := query.ScanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locs = append(locs, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}
	return locs, nil
}

// SeedLocations upserts locs in one transaction. Existing rows with the same
// id are overwritten.
func (db *DB) SeedLocations(ctx context.Context, locs []models.Location) (err error) {
	start := time.Now()
	defer func() { observe("seed_locations", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return withConflictRetry(ctx, func() error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, query.UpsertLocation())
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to prepare location upsert: %w", err)
		}
		defer closeWithLog(stmt, db.logger, "prepared statement")

		for i := range locs {
			if _, err := stmt.ExecContext(ctx, query.LocationArgs(&locs[i])...); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to upsert location %d: %w", locs[i].ID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit locations: %w", err)
		}
		return nil
	})
}

// FetchUserProfile returns the stored profile for userID. Unknown users
// return an error wrapping recommend.ErrNotFound.
func (db *DB) FetchUserProfile(ctx context.Context, userID int64) (p *models.UserProfile, err error) {
	start := time.Now()
	defer func() { observe("fetch_user_profile", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	p, err = query.ScanUserProfile(db.conn.QueryRowContext(ctx, query.SelectUserProfile(), userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", recommend.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %d: %w", userID, err)
	}
	return p, nil
}

// SaveUserProfile inserts or replaces the profile for userID.
func (db *DB) SaveUserProfile(ctx context.Context, userID int64, p *models.UserProfile) (err error) {
	start := time.Now()
	defer func() { observe("save_user_profile", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return withConflictRetry(ctx, func() error {
		if _, err := db.conn.ExecContext(ctx, query.UpsertUserProfile(), query.UserProfileArgs(userID, p)...); err != nil {
			return fmt.Errorf("failed to save user %d: %w", userID, err)
		}
		return nil
	})
}

// UpsertRecommendation stores rec, overwriting the scores and timestamp of
// an existing (user_id, location_id) row.
func (db *DB) UpsertRecommendation(ctx context.Context, rec models.Recommendation) (err error) {
	start := time.Now()
	defer func() { observe("upsert_recommendation", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	return withConflictRetry(ctx, func() error {
		if _, err := db.conn.ExecContext(ctx, query.UpsertRecommendation(), query.RecommendationArgs(&rec)...); err != nil {
			return fmt.Errorf("failed to upsert recommendation (%d, %d): %w", rec.UserID, rec.LocationID, err)
		}
		return nil
	})
}

// FetchRecommendations returns the stored recommendations for userID, best
// match first.
func (db *DB) FetchRecommendations(ctx context.Context, userID int64) (recs []models.Recommendation, err error) {
	start := time.Now()
	defer func() { observe("fetch_recommendations", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	stmt, args := query.SelectRecommendations(query.NewWhereBuilder().AddEquals("user_id", userID))
	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer closeWithLog(rows, db.logger, "recommendation rows")

	for rows.Next() {
		r, err := query.ScanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

var _ recommend.DataStore = (*DB)(nil)
