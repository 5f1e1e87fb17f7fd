// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package match scores how well a single location fits a single household.
//
// Scoring is additive and rule-based: housing budget fit, healthcare,
// transportation and safety each contribute a fixed number of points, and
// the total is capped at MaxScore. An absent location attribute never meets
// a threshold.
package match

import "github.com/tomtom215/thrive/internal/models"

// MaxScore is the upper bound of every match score.
const MaxScore = 100.0

// Points awarded per rule.
const (
	housingWithinBudget = 30.0
	housingWithin120    = 20.0
	housingWithin150    = 10.0

	healthcareStrong = 15.0
	healthcareFair   = 10.0
	healthcareBase   = 5.0

	transportFit = 15.0

	safetyVery     = 20.0
	safetySomewhat = 10.0
)

// Score thresholds on the 0-100 quality scales.
const (
	healthcareStrongMin = 75.0
	healthcareFairMin   = 60.0
	transportMin        = 70.0
	safetyVeryMin       = 80.0
	safetySomewhatMin   = 70.0
)

// budgetShare maps a housing preference to the fraction of monthly income
// set aside for housing.
var budgetShare = map[models.BudgetPreference]float64{
	models.BudgetUnder30: 0.25,
	models.Budget30To40:  0.35,
	models.Budget40Plus:  0.45,
}

// defaultBudgetShare applies to unrecognized preferences.
const defaultBudgetShare = 0.45

// MonthlyBudget returns the monthly housing budget for an annual income.
func MonthlyBudget(income float64, pref models.BudgetPreference) float64 {
	share, ok := budgetShare[pref]
	if !ok {
		share = defaultBudgetShare
	}
	return income / 12 * share
}

// Score returns the match score of loc for profile, in [0, MaxScore].
func Score(loc *models.Location, profile *models.UserProfile) float64 {
	var score float64

	score += housingPoints(loc.CostHousing, MonthlyBudget(profile.Income, profile.HousingBudgetPreference))

	if profile.RequiresHealthcare {
		switch {
		case loc.HealthcareScore.AtLeast(healthcareStrongMin):
			score += healthcareStrong
		case loc.HealthcareScore.AtLeast(healthcareFairMin):
			score += healthcareFair
		default:
			score += healthcareBase
		}
	}

	switch profile.TransportationPreference {
	case models.TransportPublicTransit:
		if loc.PublicTransitScore.AtLeast(transportMin) {
			score += transportFit
		}
	case models.TransportBikeWalking:
		if loc.WalkabilityScore.AtLeast(transportMin) {
			score += transportFit
		}
	case models.TransportCar:
		if loc.TrafficScore.AtLeast(transportMin) {
			score += transportFit
		}
	}

	switch profile.SafetyImportance {
	case models.SafetyVeryImportant:
		if loc.SafetyScore.AtLeast(safetyVeryMin) {
			score += safetyVery
		}
	case models.SafetySomewhatImportant:
		if loc.SafetyScore.AtLeast(safetySomewhatMin) {
			score += safetySomewhat
		}
	}

	if score > MaxScore {
		return MaxScore
	}
	if score < 0 {
		return 0
	}
	return score
}

func housingPoints(cost models.Optional, budget float64) float64 {
	c, ok := cost.Get()
	if !ok {
		return 0
	}
	switch {
	case c <= budget:
		return housingWithinBudget
	case c <= 1.2*budget:
		return housingWithin120
	case c <= 1.5*budget:
		return housingWithin150
	default:
		return 0
	}
}

// qualityWeights is the composite used to order locations with equal
// match scores.
var qualityWeights = []struct {
	field  models.Field
	weight float64
}{
	{models.FieldAffordabilityScore, 0.35},
	{models.FieldSafetyScore, 0.15},
	{models.FieldEducationScore, 0.10},
	{models.FieldHealthcareScore, 0.10},
	{models.FieldEnvironmentScore, 0.10},
	{models.FieldJobGrowthRate, 0.10},
	{models.FieldWalkabilityScore, 0.05},
	{models.FieldPublicTransitScore, 0.05},
}

// QualityScore is a weighted composite of a location's quality attributes.
// Absent attributes contribute nothing.
func QualityScore(loc *models.Location) float64 {
	var q float64
	for _, w := range qualityWeights {
		q += w.weight * loc.Get(w.field).Or(0)
	}
	return q
}
