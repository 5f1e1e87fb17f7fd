// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package affordability scores locations 0-100 by how cheap they are to live in.
//
// Two strategies produce the same Result shape. The rule-based strategy
// min-max normalizes each weighted cost factor across the batch (lower cost
// scores higher) and is always available. The trained strategy runs a
// random forest regressor fitted on rule-based targets and is used when a
// regressor artifact has been loaded.
//
// Scores are relative to the batch they were computed in: the same location
// can score differently next to different neighbours.
package affordability

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/tomtom215/thrive/internal/features"
	"github.com/tomtom215/thrive/internal/models"
)

// Errors returned by the trained strategy and training.
var (
	ErrSchemaMismatch   = errors.New("affordability: trained feature missing from batch")
	ErrInsufficientData = errors.New("affordability: insufficient training data")
)

// Method names the strategy that produced a Result.
type Method string

// Scoring methods.
const (
	MethodRuleBased Method = "rule_based"
	MethodTrained   Method = "trained"
)

// MaxScore is the upper bound of every affordability score.
const MaxScore = 100.0

// Result holds one score and category per input location, in input order.
type Result struct {
	Scores     []float64 `json:"scores"`
	Categories []string  `json:"categories"`
	Method     Method    `json:"method"`

	// DroppedFactors lists cost factors absent from the whole batch. The
	// remaining weights were renormalized to sum to 1.
	DroppedFactors []models.Field `json:"dropped_factors,omitempty"`
}

// Config configures a Scorer.
type Config struct {
	Weights    Weights
	Thresholds Thresholds
}

// DefaultConfig returns the default weights and thresholds.
func DefaultConfig() Config {
	return Config{
		Weights:    DefaultWeights(),
		Thresholds: DefaultThresholds(),
	}
}

// Validate checks weights and thresholds.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	return c.Thresholds.Validate()
}

// Scorer computes affordability scores. It is safe for concurrent use.
type Scorer struct {
	cfg    Config
	pre    *features.Preprocessor
	logger zerolog.Logger
}

// NewScorer creates a scorer after validating cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScorer(cfg Config, logger zerolog.Logger) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid affordability config: %w", err)
	}
	return &Scorer{
		cfg:    cfg,
		pre:    features.NewPreprocessor(logger),
		logger: logger.With().Str("component", "affordability").Logger(),
	}, nil
}

// Category labels a score using the configured thresholds.
func (s *Scorer) Category(score float64) string {
	return s.cfg.Thresholds.Category(score)
}

// RuleBased scores a batch with the weighted inverted min-max formula.
//
// A cost factor with no value anywhere in the batch is dropped and the
// remaining weights are renormalized. Rows missing a value for a factor
// that is present elsewhere get the batch median. When every factor is
// dropped all rows score 0.
func (s *Scorer) RuleBased(locs []models.Location) *Result {
	res := &Result{
		Scores:     make([]float64, len(locs)),
		Categories: make([]string, len(locs)),
		Method:     MethodRuleBased,
	}
	if len(locs) == 0 {
		return res
	}

	var totalWeight float64
	subScores := make([][]float64, 0, len(models.CostFields))
	weights := make([]float64, 0, len(models.CostFields))

	for _, f := range models.CostFields {
		filled, _, _, ok := features.ImputeMedian(models.Column(locs, f))
		if !ok {
			res.DroppedFactors = append(res.DroppedFactors, f)
			continue
		}
		w := s.cfg.Weights.Of(f)
		totalWeight += w
		weights = append(weights, w)
		subScores = append(subScores, invertedMinMax(filled))
	}

	if len(res.DroppedFactors) > 0 {
		dropped := make([]string, len(res.DroppedFactors))
		for i, f := range res.DroppedFactors {
			dropped[i] = string(f)
		}
		s.logger.Warn().
			Strs("dropped_factors", dropped).
			Int("locations", len(locs)).
			Msg("cost factors absent from batch, renormalizing remaining weights")
	}

	for i := range locs {
		var score float64
		if totalWeight > 0 {
			for j, sub := range subScores {
				score += weights[j] / totalWeight * sub[i]
			}
			score *= MaxScore
		}
		score = clamp(score)
		res.Scores[i] = score
		res.Categories[i] = s.Category(score)
	}

	return res
}

// Trained scores a batch with a fitted regressor.
//
// The batch is preprocessed with the regressor's encoders and aligned to its
// feature list: one-hot columns the batch cannot produce are zero, but a
// numeric feature absent from every row is ErrSchemaMismatch.
func (s *Scorer) Trained(locs []models.Location, reg *Regressor) (*Result, error) {
	if reg == nil || reg.Forest == nil {
		return nil, errors.New("affordability: regressor not loaded")
	}

	res := &Result{
		Scores:     make([]float64, len(locs)),
		Categories: make([]string, len(locs)),
		Method:     MethodTrained,
	}
	if len(locs) == 0 {
		return res, nil
	}

	table := s.pre.Transform(locs, reg.Encoders)
	x, err := reg.align(table)
	if err != nil {
		return nil, err
	}

	for i, row := range x {
		score := clamp(reg.Forest.Predict(row))
		res.Scores[i] = score
		res.Categories[i] = s.Category(score)
	}
	return res, nil
}

// invertedMinMax maps each value to 1-(x-min)/(max-min). A constant column
// maps to 1 everywhere.
func invertedMinMax(col []float64) []float64 {
	lo, hi := col[0], col[0]
	for _, v := range col[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	out := make([]float64, len(col))
	span := hi - lo
	for i, v := range col {
		if span == 0 {
			out[i] = 1
			continue
		}
		out[i] = 1 - (v-lo)/span
	}
	return out
}

// clamp bounds score to [0, MaxScore]. NaN maps to 0.
func clamp(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
