// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/thrive/internal/forest"
	"github.com/tomtom215/thrive/internal/models"
)

// Profile feature columns. Categorical preferences become one column per
// value, named "<field>_<value>".
const (
	colIncome             = "income"
	colRequiresHealthcare = "requires_healthcare"

	prefixBudget    = "housing_budget_preference_"
	prefixTransport = "transportation_preference_"
	prefixSafety    = "safety_importance_"
)

// Classifier predicts the location cluster a household prefers.
// Columns is the exact feature layout it was trained on.
type Classifier struct {
	Columns   []string
	Forest    *forest.Classifier
	Clusters  int
	Records   int
	TrainedAt time.Time
}

// encodeProfile returns the non-zero feature values of a profile.
func encodeProfile(p *models.UserProfile) map[string]float64 {
	healthcare := 0.0
	if p.RequiresHealthcare {
		healthcare = 1
	}
	return map[string]float64{
		colIncome:             p.Income,
		colRequiresHealthcare: healthcare,
		prefixBudget + string(p.HousingBudgetPreference):     1,
		prefixTransport + string(p.TransportationPreference): 1,
		prefixSafety + string(p.SafetyImportance):            1,
	}
}

// Vector aligns a profile to the trained columns. Columns the profile does
// not produce are 0 and values without a trained column are dropped.
func (c *Classifier) Vector(p *models.UserProfile) []float64 {
	enc := encodeProfile(p)
	out := make([]float64, len(c.Columns))
	for i, col := range c.Columns {
		out[i] = enc[col]
	}
	return out
}

// PredictCluster returns the preferred cluster for a profile.
func (c *Classifier) PredictCluster(p *models.UserProfile) (int, error) {
	if c == nil || c.Forest == nil {
		return 0, errors.New("classifier not loaded")
	}
	if c.Forest.NFeatures != len(c.Columns) {
		return 0, fmt.Errorf("%w: classifier expects %d features, layout has %d",
			ErrSchemaMismatch, c.Forest.NFeatures, len(c.Columns))
	}
	return c.Forest.Predict(c.Vector(p)), nil
}

// trainClassifier fits a classifier on labeled profiles. The column set is
// income, requires_healthcare and one column per categorical value seen.
func trainClassifier(ctx context.Context, profiles []models.UserProfile, labels []int, clusters int, cfg forest.Config) (*Classifier, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: no labeled profiles", ErrInsufficientTrainingData)
	}

	seen := make(map[string]struct{})
	encoded := make([]map[string]float64, len(profiles))
	for i := range profiles {
		encoded[i] = encodeProfile(&profiles[i])
		for col := range encoded[i] {
			if col != colIncome && col != colRequiresHealthcare {
				seen[col] = struct{}{}
			}
		}
	}

	dummies := make([]string, 0, len(seen))
	for col := range seen {
		dummies = append(dummies, col)
	}
	sort.Strings(dummies)

	c := &Classifier{
		Columns:  append([]string{colIncome, colRequiresHealthcare}, dummies...),
		Clusters: clusters,
		Records:  len(profiles),
	}

	x := make([][]float64, len(encoded))
	for i, enc := range encoded {
		row := make([]float64, len(c.Columns))
		for j, col := range c.Columns {
			row[j] = enc[col]
		}
		x[i] = row
	}

	f, err := forest.FitClassifier(ctx, x, labels, cfg)
	if err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}
	c.Forest = f
	c.TrainedAt = time.Now()
	return c, nil
}
