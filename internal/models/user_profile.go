// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package models

// BudgetPreference is the share of income a household wants to spend on housing.
type BudgetPreference string

// Housing budget preferences.
const (
	BudgetUnder30 BudgetPreference = "less-than-30"
	Budget30To40  BudgetPreference = "30-40"
	Budget40Plus  BudgetPreference = "40-plus"
)

// TransportPreference is how a household prefers to get around.
type TransportPreference string

// Transportation preferences.
const (
	TransportCar           TransportPreference = "car"
	TransportPublicTransit TransportPreference = "public-transit"
	TransportBikeWalking   TransportPreference = "bike-walking"
)

// SafetyImportance is how much weight a household gives neighborhood safety.
type SafetyImportance string

// Safety importance levels.
const (
	SafetyVeryImportant     SafetyImportance = "very-important"
	SafetySomewhatImportant SafetyImportance = "somewhat-important"
	SafetyNotImportant      SafetyImportance = "not-important"
)

// BudgetPreferences lists every BudgetPreference in a stable order.
var BudgetPreferences = []BudgetPreference{BudgetUnder30, Budget30To40, Budget40Plus}

// TransportPreferences lists every TransportPreference in a stable order.
var TransportPreferences = []TransportPreference{TransportCar, TransportPublicTransit, TransportBikeWalking}

// SafetyLevels lists every SafetyImportance in a stable order.
var SafetyLevels = []SafetyImportance{SafetyVeryImportant, SafetySomewhatImportant, SafetyNotImportant}

// UserProfile describes one household asking for recommendations.
// It is built per request and validated with the validation package
// before it reaches any scorer.
type UserProfile struct {
	Income                   float64             `json:"income" validate:"gt=0"`
	Savings                  float64             `json:"savings" validate:"gte=0"`
	HouseholdSize            int                 `json:"household_size" validate:"gte=1"`
	HousingBudgetPreference  BudgetPreference    `json:"housing_budget_preference" validate:"required,oneof=less-than-30 30-40 40-plus"`
	RequiresHealthcare       bool                `json:"requires_healthcare"`
	TransportationPreference TransportPreference `json:"transportation_preference" validate:"required,oneof=car public-transit bike-walking"`
	SafetyImportance         SafetyImportance    `json:"safety_importance" validate:"required,oneof=very-important somewhat-important not-important"`
}
