// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package affordability

import (
	"fmt"

	"github.com/tomtom215/thrive/internal/models"
)

// Weights sets how much each cost factor contributes to the rule-based score.
type Weights struct {
	Housing        float64 `json:"housing"`
	Food           float64 `json:"food"`
	Transportation float64 `json:"transportation"`
	Healthcare     float64 `json:"healthcare"`
	Utilities      float64 `json:"utilities"`
}

// DefaultWeights weighs housing at 40% and the other four factors at 15% each.
func DefaultWeights() Weights {
	return Weights{
		Housing:        0.40,
		Food:           0.15,
		Transportation: 0.15,
		Healthcare:     0.15,
		Utilities:      0.15,
	}
}

// Of returns the weight of a cost field, or 0 for fields that are not cost factors.
func (w Weights) Of(f models.Field) float64 {
	switch f {
	case models.FieldCostHousing:
		return w.Housing
	case models.FieldCostFood:
		return w.Food
	case models.FieldCostTransportation:
		return w.Transportation
	case models.FieldCostHealthcare:
		return w.Healthcare
	case models.FieldCostUtilities:
		return w.Utilities
	default:
		return 0
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Housing + w.Food + w.Transportation + w.Healthcare + w.Utilities
}

// Validate rejects negative weights and an all-zero set.
func (w Weights) Validate() error {
	for _, f := range models.CostFields {
		if w.Of(f) < 0 {
			return fmt.Errorf("affordability weight %s must be non-negative, got %v", f, w.Of(f))
		}
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("affordability weights must have a positive sum, got %v", w.Sum())
	}
	return nil
}

// Category labels.
const (
	CategoryExcellent = "excellent"
	CategoryGood      = "good"
	CategoryModerate  = "moderate"
	CategoryPoor      = "poor"
	CategoryVeryPoor  = "very poor"
)

// Thresholds are the inclusive lower bounds of each category.
type Thresholds struct {
	Excellent float64 `json:"excellent"`
	Good      float64 `json:"good"`
	Moderate  float64 `json:"moderate"`
	Poor      float64 `json:"poor"`
}

// DefaultThresholds returns 80/60/40/20.
func DefaultThresholds() Thresholds {
	return Thresholds{Excellent: 80, Good: 60, Moderate: 40, Poor: 20}
}

// Validate requires strictly descending thresholds.
func (t Thresholds) Validate() error {
	if !(t.Excellent > t.Good && t.Good > t.Moderate && t.Moderate > t.Poor) {
		return fmt.Errorf("affordability thresholds must be strictly descending, got %v/%v/%v/%v",
			t.Excellent, t.Good, t.Moderate, t.Poor)
	}
	return nil
}

// Category maps a score to its label.
func (t Thresholds) Category(score float64) string {
	switch {
	case score >= t.Excellent:
		return CategoryExcellent
	case score >= t.Good:
		return CategoryGood
	case score >= t.Moderate:
		return CategoryModerate
	case score >= t.Poor:
		return CategoryPoor
	default:
		return CategoryVeryPoor
	}
}
