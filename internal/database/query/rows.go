// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package query

import (
	"fmt"
	"strings"

	"github.com/tomtom215/thrive/internal/models"
)

// LocationFields lists the numeric location columns in storage order.
// Column names equal the models.Field values.
var LocationFields = []models.Field{
	models.FieldCostHousing,
	models.FieldCostFood,
	models.FieldCostTransportation,
	models.FieldCostHealthcare,
	models.FieldCostUtilities,
	models.FieldSafetyScore,
	models.FieldEducationScore,
	models.FieldHealthcareScore,
	models.FieldEnvironmentScore,
	models.FieldWalkabilityScore,
	models.FieldPublicTransitScore,
	models.FieldTrafficScore,
	models.FieldMedianIncome,
	models.FieldUnemploymentRate,
	models.FieldJobGrowthRate,
	models.FieldAffordabilityScore,
}

// LocationColumns returns every locations column in storage order.
func LocationColumns() []string {
	cols := []string{"id", "city", "state", "country"}
	for _, f := range LocationFields {
		cols = append(cols, string(f))
	}
	return cols
}

var profileColumns = []string{
	"user_id",
	"income",
	"savings",
	"household_size",
	"housing_budget_preference",
	"requires_healthcare",
	"transportation_preference",
	"safety_importance",
}

var recommendationColumns = []string{
	"user_id",
	"location_id",
	"affordability_score",
	"match_score",
	"created_at",
}

// SelectLocations returns every location ordered by id.
func SelectLocations() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(LocationColumns(), ", "), TableLocations)
}

// UpsertLocation inserts a location or overwrites the row with the same id.
func UpsertLocation() string {
	return upsert(TableLocations, LocationColumns(), []string{"id"})
}

// SelectUserProfile returns one profile by user_id ($1).
func SelectUserProfile() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE user_id = $1", strings.Join(profileColumns[1:], ", "), TableUserProfiles)
}

// UpsertUserProfile inserts a profile or overwrites the row with the same user_id.
func UpsertUserProfile() string {
	return upsert(TableUserProfiles, profileColumns, []string{"user_id"})
}

// UpsertRecommendation inserts a recommendation or overwrites the scores and
// created_at of the row with the same (user_id, location_id).
func UpsertRecommendation() string {
	return upsert(TableRecommendations, recommendationColumns, []string{"user_id", "location_id"})
}

// SelectRecommendations returns stored recommendations matching wb, best
// match first.
func SelectRecommendations(wb *WhereBuilder) (string, []interface{}) {
	where, args := wb.BuildWithPrefix()
	return fmt.Sprintf("SELECT %s FROM %s %s ORDER BY match_score DESC, location_id",
		strings.Join(recommendationColumns, ", "), TableRecommendations, where), args
}

// Scanner is satisfied by *sql.Row, *sql.Rows, pgx.Row and pgx.Rows.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// ScanLocation reads one row produced by SelectLocations.
func ScanLocation(s Scanner) (models.Location, error) {
	var loc models.Location
	dest := []interface{}{&loc.ID, &loc.City, &loc.State, &loc.Country}
	values := make([]models.Optional, len(LocationFields))
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := s.Scan(dest...); err != nil {
		return models.Location{}, err
	}
	for i, f := range LocationFields {
		loc.Set(f, values[i])
	}
	return loc, nil
}

// LocationArgs returns the UpsertLocation arguments for loc.
// Absent values are bound as NULL.
func LocationArgs(loc *models.Location) []interface{} {
	args := []interface{}{loc.ID, loc.City, loc.State, loc.Country}
	for _, f := range LocationFields {
		args = append(args, loc.Get(f).Arg())
	}
	return args
}

// ScanUserProfile reads one row produced by SelectUserProfile.
func ScanUserProfile(s Scanner) (*models.UserProfile, error) {
	var (
		p                         models.UserProfile
		budget, transport, safety string
	)
	if err := s.Scan(&p.Income, &p.Savings, &p.HouseholdSize, &budget,
		&p.RequiresHealthcare, &transport, &safety); err != nil {
		return nil, err
	}
	p.HousingBudgetPreference = models.BudgetPreference(budget)
	p.TransportationPreference = models.TransportPreference(transport)
	p.SafetyImportance = models.SafetyImportance(safety)
	return &p, nil
}

// UserProfileArgs returns the UpsertUserProfile arguments.
func UserProfileArgs(userID int64, p *models.UserProfile) []interface{} {
	return []interface{}{
		userID,
		p.Income,
		p.Savings,
		p.HouseholdSize,
		string(p.HousingBudgetPreference),
		p.RequiresHealthcare,
		string(p.TransportationPreference),
		string(p.SafetyImportance),
	}
}

// ScanRecommendation reads one row produced by SelectRecommendations.
func ScanRecommendation(s Scanner) (models.Recommendation, error) {
	var r models.Recommendation
	err := s.Scan(&r.UserID, &r.LocationID, &r.AffordabilityScore, &r.MatchScore, &r.CreatedAt)
	return r, err
}

// RecommendationArgs returns the UpsertRecommendation arguments.
func RecommendationArgs(r *models.Recommendation) []interface{} {
	return []interface{}{r.UserID, r.LocationID, r.AffordabilityScore, r.MatchScore, r.CreatedAt}
}
