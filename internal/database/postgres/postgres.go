// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package postgres is the PostgreSQL store for Thrive.
//
// Store has the same schema, upsert semantics and methods as the embedded
// DuckDB store and is selected with database.driver: postgres. Statements are
// shared through the database/query package.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/tomtom215/thrive/internal/config"
	"github.com/tomtom215/thrive/internal/database/query"
	"github.com/tomtom215/thrive/internal/logging"
	"github.com/tomtom215/thrive/internal/metrics"
	"github.com/tomtom215/thrive/internal/models"
	"github.com/tomtom215/thrive/internal/recommend"
)

const dialect = query.Postgres

// Store implements recommend.DataStore on a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// New connects to cfg.DSN, verifies the connection and creates the schema.
func New(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	s := &Store{
		pool:   pool,
		logger: logging.WithComponent("postgres"),
	}

	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to connect: %w", err)
	}

	if err := s.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	s.logger.Info().Int32("max_conns", poolCfg.MaxConns).Msg("PostgreSQL store ready")
	return s, nil
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ping checks if the database connection is alive.
func (s *Store) Ping(ctx context.Context) (err error) {
	defer observe("ping", time.Now(), &err)
	return s.pool.Ping(ctx)
}

// initialize creates tables and applies pending migrations.
func (s *Store) initialize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	for _, stmt := range query.TableStatements(dialect) {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: failed to create table: %w", err)
		}
	}

	if _, err := s.pool.Exec(ctx, query.MigrationsTable(dialect)); err != nil {
		return fmt.Errorf("postgres: failed to create migrations table: %w", err)
	}

	applied := 0
	for _, m := range query.Migrations() {
		// Recording and applying share a transaction so a failed migration
		// is retried on next start.
		err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			tag, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name, description, applied_at)
				 VALUES ($1, $2, $3, $4) ON CONFLICT (version) DO NOTHING`,
				m.Version, m.Name, m.Description, time.Now().UTC())
			if err != nil || tag.RowsAffected() == 0 {
				return err
			}
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			applied++
			return nil
		})
		if err != nil {
			return fmt.Errorf("postgres: failed to apply migration v%d (%s): %w", m.Version, m.Name, err)
		}
	}
	if applied > 0 {
		s.logger.Info().Int("count", applied).Msg("Applied database migrations")
	}
	return nil
}

// FetchLocations returns every stored location ordered by id.
func (s *Store) FetchLocations(ctx context.Context) (locs []models.Location, err error) {
	defer observe("fetch_locations", time.Now(), &err)

	rows, err := s.pool.Query(ctx, query.SelectLocations())
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		loc, err := query.ScanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan location: %w", err)
		}
		locs = append(locs, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate locations: %w", err)
	}
	return locs, nil
}

// SeedLocations upserts locs in one transaction.
func (s *Store) SeedLocations(ctx context.Context, locs []models.Location) (err error) {
	defer observe("seed_locations", time.Now(), &err)

	stmt := query.UpsertLocation()
	batch := &pgx.Batch{}
	for i := range locs {
		batch.Queue(stmt, query.LocationArgs(&locs[i])...)
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("postgres: failed to seed locations: %w", err)
	}
	return nil
}

// FetchUserProfile returns the stored profile for userID. Unknown users
// return an error wrapping recommend.ErrNotFound.
func (s *Store) FetchUserProfile(ctx context.Context, userID int64) (p *models.UserProfile, err error) {
	defer observe("fetch_user_profile", time.Now(), &err)

	p, err = query.ScanUserProfile(s.pool.QueryRow(ctx, query.SelectUserProfile(), userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", recommend.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to fetch user %d: %w", userID, err)
	}
	return p, nil
}

// SaveUserProfile inserts or replaces the profile for userID.
func (s *Store) SaveUserProfile(ctx context.Context, userID int64, p *models.UserProfile) (err error) {
	defer observe("save_user_profile", time.Now(), &err)

	if _, err := s.pool.Exec(ctx, query.UpsertUserProfile(), query.UserProfileArgs(userID, p)...); err != nil {
		return fmt.Errorf("postgres: failed to save user %d: %w", userID, err)
	}
	return nil
}

// UpsertRecommendation stores rec, overwriting an existing
// (user_id, location_id) row.
func (s *Store) UpsertRecommendation(ctx context.Context, rec models.Recommendation) (err error) {
	defer observe("upsert_recommendation", time.Now(), &err)

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if _, err := s.pool.Exec(ctx, query.UpsertRecommendation(), query.RecommendationArgs(&rec)...); err != nil {
		return fmt.Errorf("postgres: failed to upsert recommendation (%d, %d): %w", rec.UserID, rec.LocationID, err)
	}
	return nil
}

// FetchRecommendations returns the stored recommendations for userID, best
// match first.
func (s *Store) FetchRecommendations(ctx context.Context, userID int64) (recs []models.Recommendation, err error) {
	defer observe("fetch_recommendations", time.Now(), &err)

	stmt, args := query.SelectRecommendations(query.NewWhereBuilder().AddEquals("user_id", userID))
	rows, err := s.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query recommendations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := query.ScanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan recommendation: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// observe records the duration and outcome of a store operation. errp is
// read after the operation returns.
func observe(operation string, start time.Time, errp *error) {
	metrics.RecordDBQuery(dialect.String(), operation, time.Since(start), *errp)
}

var _ recommend.DataStore = (*Store)(nil)
