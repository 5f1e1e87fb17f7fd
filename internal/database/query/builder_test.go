// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package query

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/thrive/internal/models"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}

	if wb.Count() != 0 {
		t.Errorf("Expected count 0, got %d", wb.Count())
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder_Placeholders(t *testing.T) {
	wb := NewWhereBuilder().
		AddEquals("user_id", int64(7)).
		AddIn("location_id", []interface{}{int64(1), int64(2)}).
		AddAtLeast("match_score", 60.0)

	whereClause, args := wb.BuildWithPrefix()
	expected := "WHERE user_id = $1 AND location_id IN ($2, $3) AND match_score >= $4"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if len(args) != 4 {
		t.Errorf("Expected 4 args, got %d", len(args))
	}
	if wb.Count() != 3 {
		t.Errorf("Expected count 3, got %d", wb.Count())
	}
}

func TestWhereBuilder_AddInEmpty(t *testing.T) {
	wb := NewWhereBuilder().AddIn("location_id", nil)
	if !wb.IsEmpty() {
		t.Error("Expected empty IN list to be skipped")
	}
}

func TestUpsertRecommendation(t *testing.T) {
	got := UpsertRecommendation()
	expected := "INSERT INTO user_recommendations (user_id, location_id, affordability_score, match_score, created_at) " +
		"VALUES ($1, $2, $3, $4, $5) ON CONFLICT (user_id, location_id) DO UPDATE SET " +
		"affordability_score = EXCLUDED.affordability_score, match_score = EXCLUDED.match_score, created_at = EXCLUDED.created_at"
	if got != expected {
		t.Errorf("UpsertRecommendation() = %q, want %q", got, expected)
	}
}

func TestUpsertLocation_CoversEveryColumn(t *testing.T) {
	stmt := UpsertLocation()
	cols := LocationColumns()

	if n := strings.Count(stmt, "$"); n != len(cols) {
		t.Errorf("placeholders = %d, want %d", n, len(cols))
	}
	if strings.Contains(stmt, "id = EXCLUDED.id,") {
		t.Error("conflict key must not be reassigned")
	}
	for _, c := range cols[1:] {
		if !strings.Contains(stmt, c+" = EXCLUDED."+c) {
			t.Errorf("column %s is not updated on conflict", c)
		}
	}
}

func TestTableStatements(t *testing.T) {
	tests := []struct {
		dialect Dialect
		double  string
		ts      string
	}{
		{DuckDB, "DOUBLE", "TIMESTAMP NOT NULL"},
		{Postgres, "DOUBLE PRECISION", "TIMESTAMPTZ NOT NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			stmts := TableStatements(tt.dialect)
			if len(stmts) != 3 {
				t.Fatalf("len(TableStatements) = %d, want 3", len(stmts))
			}
			if !strings.Contains(stmts[0], "cost_housing "+tt.double) {
				t.Errorf("locations table missing %s cost_housing: %s", tt.double, stmts[0])
			}
			if !strings.Contains(stmts[2], "PRIMARY KEY (user_id, location_id)") {
				t.Errorf("recommendations table missing composite key: %s", stmts[2])
			}
			if !strings.Contains(stmts[2], "created_at "+tt.ts) {
				t.Errorf("recommendations table created_at type, want %s: %s", tt.ts, stmts[2])
			}
		})
	}
}

func TestMigrations_Ordered(t *testing.T) {
	prev := 0
	for _, m := range Migrations() {
		if m.Version <= prev {
			t.Errorf("migration %s version %d not greater than %d", m.Name, m.Version, prev)
		}
		prev = m.Version
	}
}

// fakeRow feeds fixed values into Scan destinations.
type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *int:
			*p = r.values[i].(int)
		case *string:
			*p = r.values[i].(string)
		case *float64:
			*p = r.values[i].(float64)
		case *bool:
			*p = r.values[i].(bool)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case *models.Optional:
			if err := p.Scan(r.values[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func TestLocationArgsScanRoundTrip(t *testing.T) {
	loc := models.Location{
		ID:          3,
		City:        "Springfield",
		State:       "IL",
		CostHousing: models.Some(1200),
		SafetyScore: models.Some(71.5),
	}

	args := LocationArgs(&loc)
	if len(args) != len(LocationColumns()) {
		t.Fatalf("len(args) = %d, want %d", len(args), len(LocationColumns()))
	}

	got, err := ScanLocation(fakeRow{values: args})
	if err != nil {
		t.Fatalf("ScanLocation() error = %v", err)
	}
	if got.ID != 3 || got.City != "Springfield" {
		t.Errorf("ScanLocation() = %+v", got)
	}
	if v, ok := got.CostHousing.Get(); !ok || v != 1200 {
		t.Errorf("CostHousing = %v/%v, want 1200/true", v, ok)
	}
	if got.CostFood.Valid {
		t.Error("CostFood should stay absent when stored as NULL")
	}
}

func TestScanUserProfile(t *testing.T) {
	row := fakeRow{values: []interface{}{75000.0, 1000.0, 2, "less-than-30", true, "car", "very-important"}}

	p, err := ScanUserProfile(row)
	if err != nil {
		t.Fatalf("ScanUserProfile() error = %v", err)
	}
	if p.HousingBudgetPreference != models.BudgetUnder30 {
		t.Errorf("HousingBudgetPreference = %q, want %q", p.HousingBudgetPreference, models.BudgetUnder30)
	}
	if p.SafetyImportance != models.SafetyVeryImportant {
		t.Errorf("SafetyImportance = %q, want %q", p.SafetyImportance, models.SafetyVeryImportant)
	}

	errBoom := errors.New("boom")
	if _, err := ScanUserProfile(fakeRow{err: errBoom}); !errors.Is(err, errBoom) {
		t.Errorf("ScanUserProfile() error = %v, want %v", err, errBoom)
	}
}
