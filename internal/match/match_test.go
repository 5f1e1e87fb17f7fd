// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package match

import (
	"math"
	"testing"

	"github.com/tomtom215/thrive/internal/models"
)

func TestMonthlyBudget(t *testing.T) {
	tests := []struct {
		income float64
		pref   models.BudgetPreference
		want   float64
	}{
		{60000, models.Budget30To40, 1750},
		{60000, models.BudgetUnder30, 1250},
		{60000, models.Budget40Plus, 2250},
		{60000, models.BudgetPreference("bogus"), 2250},
		{0, models.Budget30To40, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.pref), func(t *testing.T) {
			if got := MonthlyBudget(tt.income, tt.pref); got != tt.want {
				t.Errorf("MonthlyBudget(%v, %q) = %v, want %v", tt.income, tt.pref, got, tt.want)
			}
		})
	}
}

func baseProfile() *models.UserProfile {
	return &models.UserProfile{
		Income:                   60000,
		HouseholdSize:            2,
		HousingBudgetPreference:  models.Budget30To40,
		RequiresHealthcare:       true,
		TransportationPreference: models.TransportCar,
		SafetyImportance:         models.SafetyVeryImportant,
	}
}

func TestScore_Rules(t *testing.T) {
	tests := []struct {
		name string
		loc  models.Location
		edit func(p *models.UserProfile)
		want float64
	}{
		{
			name: "all rules met",
			loc: models.Location{
				CostHousing:     models.Some(1700),
				HealthcareScore: models.Some(80),
				TrafficScore:    models.Some(75),
				SafetyScore:     models.Some(90),
			},
			want: 30 + 15 + 15 + 20,
		},
		{
			name: "housing within 120 percent",
			loc:  models.Location{CostHousing: models.Some(2000)},
			want: 20 + 5,
		},
		{
			name: "housing within 150 percent",
			loc:  models.Location{CostHousing: models.Some(2600)},
			want: 10 + 5,
		},
		{
			name: "housing over budget",
			loc:  models.Location{CostHousing: models.Some(3000), HealthcareScore: models.Some(65)},
			want: 10,
		},
		{
			name: "missing values never score",
			loc:  models.Location{},
			edit: func(p *models.UserProfile) { p.RequiresHealthcare = false },
			want: 0,
		},
		{
			name: "public transit preference",
			loc:  models.Location{PublicTransitScore: models.Some(70), TrafficScore: models.Some(10)},
			edit: func(p *models.UserProfile) {
				p.RequiresHealthcare = false
				p.TransportationPreference = models.TransportPublicTransit
			},
			want: 15,
		},
		{
			name: "bike preference ignores traffic",
			loc:  models.Location{TrafficScore: models.Some(99), WalkabilityScore: models.Some(69)},
			edit: func(p *models.UserProfile) {
				p.RequiresHealthcare = false
				p.TransportationPreference = models.TransportBikeWalking
			},
			want: 0,
		},
		{
			name: "somewhat important safety",
			loc:  models.Location{SafetyScore: models.Some(70)},
			edit: func(p *models.UserProfile) {
				p.RequiresHealthcare = false
				p.SafetyImportance = models.SafetySomewhatImportant
			},
			want: 10,
		},
		{
			name: "safety not important",
			loc:  models.Location{SafetyScore: models.Some(100)},
			edit: func(p *models.UserProfile) {
				p.RequiresHealthcare = false
				p.SafetyImportance = models.SafetyNotImportant
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseProfile()
			if tt.edit != nil {
				tt.edit(p)
			}
			if got := Score(&tt.loc, p); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_NeverExceedsMax(t *testing.T) {
	loc := models.Location{
		CostHousing:        models.Some(100),
		HealthcareScore:    models.Some(100),
		TrafficScore:       models.Some(100),
		PublicTransitScore: models.Some(100),
		WalkabilityScore:   models.Some(100),
		SafetyScore:        models.Some(100),
	}
	for _, budget := range models.BudgetPreferences {
		for _, transport := range models.TransportPreferences {
			for _, safety := range models.SafetyLevels {
				p := &models.UserProfile{
					Income:                   1e6,
					HousingBudgetPreference:  budget,
					RequiresHealthcare:       true,
					TransportationPreference: transport,
					SafetyImportance:         safety,
				}
				if got := Score(&loc, p); got < 0 || got > MaxScore {
					t.Errorf("Score() = %v out of [0, %v] for %v/%v/%v", got, MaxScore, budget, transport, safety)
				}
			}
		}
	}
}

func TestScore_MonotonicInSafety(t *testing.T) {
	p := baseProfile()
	prev := -1.0
	for s := 0.0; s <= 100; s += 5 {
		loc := models.Location{
			CostHousing:     models.Some(1800),
			HealthcareScore: models.Some(70),
			SafetyScore:     models.Some(s),
		}
		got := Score(&loc, p)
		if got < prev {
			t.Fatalf("Score() dropped from %v to %v at safety %v", prev, got, s)
		}
		prev = got
	}
}

func TestQualityScore(t *testing.T) {
	loc := models.Location{
		AffordabilityScore: models.Some(100),
		SafetyScore:        models.Some(100),
	}
	if got, want := QualityScore(&loc), 50.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("QualityScore() = %v, want %v", got, want)
	}
	if got := QualityScore(&models.Location{}); got != 0 {
		t.Errorf("QualityScore(empty) = %v, want 0", got)
	}
}
