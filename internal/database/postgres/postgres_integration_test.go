// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/thrive/internal/config"
	"github.com/tomtom215/thrive/internal/models"
	"github.com/tomtom215/thrive/internal/recommend"
	"github.com/tomtom215/thrive/internal/synthetic"
	"github.com/tomtom215/thrive/internal/testinfra"
)

// TestStore_Integration exercises the store against a real PostgreSQL server.
// This test requires Docker and is skipped in environments without Docker.
func TestStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pg, err := testinfra.NewPostgresContainer(ctx, testinfra.WithStartTimeout(90*time.Second))
	if err != nil {
		t.Fatalf("Failed to create PostgreSQL container: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, pg.Container)

	cfg := &config.DatabaseConfig{Driver: config.DriverPostgres, DSN: pg.DSN, MaxConns: 4}
	store, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	t.Run("schema is idempotent", func(t *testing.T) {
		again, err := New(ctx, cfg)
		if err != nil {
			t.Fatalf("second New() error = %v", err)
		}
		again.Close()
	})

	t.Run("locations round trip", func(t *testing.T) {
		locs := synthetic.New(42).Locations(10)
		locs[2].TrafficScore = models.Optional{}

		if err := store.SeedLocations(ctx, locs); err != nil {
			t.Fatalf("SeedLocations() error = %v", err)
		}
		got, err := store.FetchLocations(ctx)
		if err != nil {
			t.Fatalf("FetchLocations() error = %v", err)
		}
		if len(got) != len(locs) {
			t.Fatalf("len(FetchLocations()) = %d, want %d", len(got), len(locs))
		}
		if got[2].TrafficScore.Valid {
			t.Error("TrafficScore should be absent after round trip")
		}
		if got[0].CostHousing != locs[0].CostHousing {
			t.Errorf("CostHousing = %v, want %v", got[0].CostHousing, locs[0].CostHousing)
		}
	})

	t.Run("profiles", func(t *testing.T) {
		if _, err := store.FetchUserProfile(ctx, 999); !errors.Is(err, recommend.ErrNotFound) {
			t.Errorf("FetchUserProfile() error = %v, want ErrNotFound", err)
		}

		want := models.UserProfile{
			Income:                   75000,
			HouseholdSize:            1,
			HousingBudgetPreference:  models.BudgetUnder30,
			RequiresHealthcare:       true,
			TransportationPreference: models.TransportCar,
			SafetyImportance:         models.SafetyVeryImportant,
		}
		if err := store.SaveUserProfile(ctx, 5, &want); err != nil {
			t.Fatalf("SaveUserProfile() error = %v", err)
		}
		got, err := store.FetchUserProfile(ctx, 5)
		if err != nil {
			t.Fatalf("FetchUserProfile() error = %v", err)
		}
		if *got != want {
			t.Errorf("FetchUserProfile() = %+v, want %+v", *got, want)
		}
	})

	t.Run("upsert keeps one row", func(t *testing.T) {
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, score := range []float64{40, 90} {
			rec := models.Recommendation{
				UserID:             5,
				LocationID:         1,
				AffordabilityScore: score,
				MatchScore:         score,
				CreatedAt:          base.Add(time.Duration(i) * time.Hour),
			}
			if err := store.UpsertRecommendation(ctx, rec); err != nil {
				t.Fatalf("UpsertRecommendation() error = %v", err)
			}
		}

		recs, err := store.FetchRecommendations(ctx, 5)
		if err != nil {
			t.Fatalf("FetchRecommendations() error = %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("len(FetchRecommendations()) = %d, want 1", len(recs))
		}
		if recs[0].MatchScore != 90 {
			t.Errorf("MatchScore = %v, want 90", recs[0].MatchScore)
		}
		if !recs[0].CreatedAt.Equal(base.Add(time.Hour)) {
			t.Errorf("CreatedAt = %v, want %v", recs[0].CreatedAt, base.Add(time.Hour))
		}
	})
}
