// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/thrive/internal/forest"
	"github.com/tomtom215/thrive/internal/models"
	"github.com/tomtom215/thrive/internal/synthetic"
)

func incomeProfile(income float64) models.UserProfile {
	return models.UserProfile{
		Income:                   income,
		HouseholdSize:            2,
		HousingBudgetPreference:  models.Budget30To40,
		TransportationPreference: models.TransportCar,
		SafetyImportance:         models.SafetySomewhatImportant,
	}
}

func testForestConfig() forest.Config {
	cfg := forest.DefaultClassifierConfig()
	cfg.NEstimators = 30
	return cfg
}

func TestTrainClassifier_Columns(t *testing.T) {
	t.Parallel()

	profiles, labels := synthetic.New(42).Users(5, 10)
	cls, err := trainClassifier(context.Background(), profiles, labels, 5, testForestConfig())
	if err != nil {
		t.Fatalf("trainClassifier() error = %v", err)
	}

	if cls.Columns[0] != colIncome || cls.Columns[1] != colRequiresHealthcare {
		t.Errorf("leading columns = %v, want [income requires_healthcare]", cls.Columns[:2])
	}
	for i := 3; i < len(cls.Columns); i++ {
		if cls.Columns[i-1] >= cls.Columns[i] {
			t.Errorf("dummy columns not sorted: %q before %q", cls.Columns[i-1], cls.Columns[i])
		}
	}
	if cls.Forest.NFeatures != len(cls.Columns) {
		t.Errorf("Forest.NFeatures = %d, want %d", cls.Forest.NFeatures, len(cls.Columns))
	}
	if cls.Records != 50 {
		t.Errorf("Records = %d, want 50", cls.Records)
	}

	p := synthetic.New(7).Profile()
	got, err := cls.PredictCluster(&p)
	if err != nil {
		t.Fatalf("PredictCluster() error = %v", err)
	}
	if got < 0 || got >= 5 {
		t.Errorf("PredictCluster() = %d, want in [0, 5)", got)
	}
}

func TestTrainClassifier_Separable(t *testing.T) {
	t.Parallel()

	var profiles []models.UserProfile
	var labels []int
	for i := 0; i < 40; i++ {
		income := 40000 + float64(i)*2000
		profiles = append(profiles, incomeProfile(income))
		label := 0
		if income >= 80000 {
			label = 1
		}
		labels = append(labels, label)
	}

	cfg := testForestConfig()
	cfg.MaxFeatures = 0
	cls, err := trainClassifier(context.Background(), profiles, labels, 2, cfg)
	if err != nil {
		t.Fatalf("trainClassifier() error = %v", err)
	}

	tests := []struct {
		income float64
		want   int
	}{
		{income: 42000, want: 0},
		{income: 55000, want: 0},
		{income: 100000, want: 1},
		{income: 118000, want: 1},
	}
	for _, tt := range tests {
		p := incomeProfile(tt.income)
		got, err := cls.PredictCluster(&p)
		if err != nil {
			t.Fatalf("PredictCluster() error = %v", err)
		}
		if got != tt.want {
			t.Errorf("PredictCluster(income=%v) = %d, want %d", tt.income, got, tt.want)
		}
	}
}

func TestClassifier_Vector(t *testing.T) {
	t.Parallel()

	cls := &Classifier{Columns: []string{
		colIncome,
		colRequiresHealthcare,
		"housing_budget_preference_30-40",
		"safety_importance_extreme",
		"transportation_preference_car",
	}}
	p := incomeProfile(60000)
	p.RequiresHealthcare = true

	got := cls.Vector(&p)
	want := []float64{60000, 1, 1, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("len(Vector) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Vector[%d] (%s) = %v, want %v", i, cls.Columns[i], got[i], want[i])
		}
	}
}

func TestClassifier_PredictCluster_SchemaMismatch(t *testing.T) {
	t.Parallel()

	profiles, labels := synthetic.New(42).Users(2, 10)
	cls, err := trainClassifier(context.Background(), profiles, labels, 2, testForestConfig())
	if err != nil {
		t.Fatalf("trainClassifier() error = %v", err)
	}
	cls.Columns = cls.Columns[:len(cls.Columns)-1]

	p := incomeProfile(50000)
	if _, err := cls.PredictCluster(&p); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("PredictCluster() error = %v, want ErrSchemaMismatch", err)
	}

	var empty *Classifier
	if _, err := empty.PredictCluster(&p); err == nil {
		t.Error("PredictCluster() on nil classifier = nil error, want error")
	}
}

func TestTrainClassifier_NoProfiles(t *testing.T) {
	t.Parallel()

	_, err := trainClassifier(context.Background(), nil, nil, 5, testForestConfig())
	if !errors.Is(err, ErrInsufficientTrainingData) {
		t.Errorf("trainClassifier() error = %v, want ErrInsufficientTrainingData", err)
	}
}
