// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package affordability

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/thrive/internal/features"
	"github.com/tomtom215/thrive/internal/forest"
	"github.com/tomtom215/thrive/internal/models"
)

// Regressor is a trained affordability model together with the feature
// layout and encoders it was fitted with.
type Regressor struct {
	FeatureNames []string
	Encoders     []features.Encoder
	Forest       *forest.Regressor

	TrainR2   float64
	TestR2    float64
	Records   int
	TrainedAt time.Time
}

// TrainConfig controls regressor training.
type TrainConfig struct {
	MinRecords   int
	TestFraction float64
	SplitSeed    int64
	Forest       forest.Config
}

// DefaultTrainConfig returns a 100-tree forest with a seeded 80/20 split.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		MinRecords:   10,
		TestFraction: 0.2,
		SplitSeed:    42,
		Forest:       forest.DefaultRegressorConfig(),
	}
}

// Validate checks the training configuration.
func (c TrainConfig) Validate() error {
	if c.MinRecords < 2 {
		return fmt.Errorf("min_records must be at least 2, got %d", c.MinRecords)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test_fraction must be in (0, 1), got %v", c.TestFraction)
	}
	if c.Forest.NEstimators < 1 {
		return fmt.Errorf("n_estimators must be positive, got %d", c.Forest.NEstimators)
	}
	return nil
}

// TrainRegressor fits a regressor on the preprocessed batch, using the
// rule-based scores of the same batch as targets.
func (s *Scorer) TrainRegressor(ctx context.Context, locs []models.Location, cfg TrainConfig) (*Regressor, error) {
	if len(locs) < cfg.MinRecords {
		return nil, fmt.Errorf("%w: %d locations, need %d", ErrInsufficientData, len(locs), cfg.MinRecords)
	}

	targets := s.RuleBased(locs).Scores
	table := s.pre.Process(locs)

	reg := &Regressor{
		Encoders: table.Encoders,
		Records:  len(locs),
	}

	keep := make([]int, 0, len(table.Columns))
	for j, c := range table.Columns {
		if table.IsMissing(c) {
			continue
		}
		keep = append(keep, j)
		reg.FeatureNames = append(reg.FeatureNames, c)
	}

	x := make([][]float64, table.Len())
	for i, row := range table.Rows {
		x[i] = make([]float64, len(keep))
		for k, j := range keep {
			x[i][k] = row[j]
		}
	}

	trainIdx, testIdx := forest.TrainTestSplit(len(x), cfg.TestFraction, cfg.SplitSeed)
	xTrain, yTrain := forest.Rows(x, trainIdx), forest.Values(targets, trainIdx)

	start := time.Now()
	f, err := forest.FitRegressor(ctx, xTrain, yTrain, cfg.Forest)
	if err != nil {
		return nil, fmt.Errorf("fit affordability regressor: %w", err)
	}
	reg.Forest = f
	reg.TrainR2 = forest.R2(yTrain, f.PredictBatch(xTrain))
	if len(testIdx) > 0 {
		xTest := forest.Rows(x, testIdx)
		reg.TestR2 = forest.R2(forest.Values(targets, testIdx), f.PredictBatch(xTest))
	}
	reg.TrainedAt = time.Now()

	s.logger.Info().
		Int("records", len(locs)).
		Int("features", len(reg.FeatureNames)).
		Int("trees", len(f.Trees)).
		Float64("train_r2", reg.TrainR2).
		Float64("test_r2", reg.TestR2).
		Dur("duration", time.Since(start)).
		Msg("affordability regressor trained")

	return reg, nil
}

// align reorders a preprocessed table into the regressor's feature layout.
func (r *Regressor) align(table *features.Table) ([][]float64, error) {
	idx := make([]int, len(r.FeatureNames))
	for k, name := range r.FeatureNames {
		if table.IsMissing(name) {
			return nil, fmt.Errorf("%w: %s", ErrSchemaMismatch, name)
		}
		idx[k] = table.Index(name)
	}

	x := make([][]float64, table.Len())
	for i, row := range table.Rows {
		x[i] = make([]float64, len(idx))
		for k, j := range idx {
			if j >= 0 {
				x[i][k] = row[j]
			}
		}
	}
	return x, nil
}
