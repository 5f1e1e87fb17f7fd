// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package forest

import (
	"context"
	"errors"
	"math"
	"testing"
)

func linearData(n int) ([][]float64, []float64) {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := float64(i)
		b := float64((i * 7) % 13)
		x[i] = []float64{a, b}
		y[i] = 3*a + 1
	}
	return x, y
}

func TestFitRegressor_FitsMonotoneSignal(t *testing.T) {
	x, y := linearData(60)

	r, err := FitRegressor(context.Background(), x, y, DefaultRegressorConfig())
	if err != nil {
		t.Fatalf("FitRegressor() error = %v", err)
	}
	if len(r.Trees) != 100 {
		t.Errorf("len(Trees) = %d, want 100", len(r.Trees))
	}

	pred := r.PredictBatch(x)
	if r2 := R2(y, pred); r2 < 0.95 {
		t.Errorf("training R2 = %v, want >= 0.95", r2)
	}

	low := r.Predict([]float64{2, 0})
	high := r.Predict([]float64{55, 0})
	if low >= high {
		t.Errorf("Predict(low) = %v >= Predict(high) = %v", low, high)
	}
}

func TestFitRegressor_Deterministic(t *testing.T) {
	x, y := linearData(40)
	cfg := DefaultRegressorConfig()
	cfg.NEstimators = 20

	cfg.Workers = 1
	a, err := FitRegressor(context.Background(), x, y, cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Workers = 8
	b, err := FitRegressor(context.Background(), x, y, cfg)
	if err != nil {
		t.Fatal(err)
	}

	point := []float64{17.5, 3}
	if a.Predict(point) != b.Predict(point) {
		t.Errorf("same seed gave %v and %v", a.Predict(point), b.Predict(point))
	}
}

func TestFitRegressor_Errors(t *testing.T) {
	if _, err := FitRegressor(context.Background(), nil, nil, DefaultRegressorConfig()); !errors.Is(err, ErrEmptyTrainingSet) {
		t.Errorf("empty input error = %v, want ErrEmptyTrainingSet", err)
	}
	if _, err := FitRegressor(context.Background(), [][]float64{{1}}, []float64{1, 2}, DefaultRegressorConfig()); err == nil {
		t.Error("mismatched lengths should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	x, y := linearData(10)
	if _, err := FitRegressor(ctx, x, y, DefaultRegressorConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled ctx error = %v, want context.Canceled", err)
	}
}

func TestFitClassifier_SeparableClasses(t *testing.T) {
	var x [][]float64
	var y []int
	for i := 0; i < 30; i++ {
		x = append(x, []float64{float64(i % 3), float64(i)})
		switch {
		case i < 10:
			y = append(y, 7)
		case i < 20:
			y = append(y, 2)
		default:
			y = append(y, 4)
		}
	}

	c, err := FitClassifier(context.Background(), x, y, DefaultClassifierConfig())
	if err != nil {
		t.Fatalf("FitClassifier() error = %v", err)
	}

	if want := []int{2, 4, 7}; len(c.Classes) != 3 || c.Classes[0] != want[0] || c.Classes[2] != want[2] {
		t.Errorf("Classes = %v, want %v", c.Classes, want)
	}

	tests := []struct {
		sample []float64
		want   int
	}{
		{[]float64{0, 3}, 7},
		{[]float64{1, 15}, 2},
		{[]float64{2, 27}, 4},
	}
	for _, tt := range tests {
		if got := c.Predict(tt.sample); got != tt.want {
			t.Errorf("Predict(%v) = %d, want %d", tt.sample, got, tt.want)
		}
	}

	var sum float64
	for _, p := range c.PredictProba([]float64{1, 15}) {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("PredictProba sums to %v, want 1", sum)
	}
}

func TestR2(t *testing.T) {
	tests := []struct {
		name  string
		truth []float64
		pred  []float64
		want  float64
	}{
		{"perfect", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"mean predictor", []float64{1, 2, 3}, []float64{2, 2, 2}, 0},
		{"constant truth exact", []float64{5, 5}, []float64{5, 5}, 1},
		{"constant truth miss", []float64{5, 5}, []float64{4, 6}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := R2(tt.truth, tt.pred); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("R2() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrainTestSplit(t *testing.T) {
	train, test := TrainTestSplit(50, 0.2, 42)
	if len(train) != 40 || len(test) != 10 {
		t.Fatalf("split sizes = %d/%d, want 40/10", len(train), len(test))
	}

	seen := make(map[int]bool)
	for _, i := range append(append([]int{}, train...), test...) {
		if seen[i] {
			t.Fatalf("index %d appears twice", i)
		}
		seen[i] = true
	}

	train2, _ := TrainTestSplit(50, 0.2, 42)
	for i := range train {
		if train[i] != train2[i] {
			t.Fatal("split is not deterministic for a fixed seed")
		}
	}

	train, test = TrainTestSplit(1, 0.5, 1)
	if len(train) != 1 || len(test) != 0 {
		t.Errorf("single-sample split = %d/%d, want 1/0", len(train), len(test))
	}
}
