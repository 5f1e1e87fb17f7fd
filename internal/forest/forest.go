// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package forest implements bagged CART ensembles: a random forest regressor
// (variance reduction) and a random forest classifier (Gini impurity).
//
// Training is deterministic for a given Config.Seed. Each tree draws its own
// seed from a master source before any goroutine starts, so parallel
// training produces the same forest as sequential training.
//
// Fitted forests hold only exported slices and are gob-encodable, which is
// how the artifact store persists them.
package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrEmptyTrainingSet is returned when a forest is fitted on no samples.
var ErrEmptyTrainingSet = errors.New("forest: empty training set")

// Config controls forest growth.
type Config struct {
	// NEstimators is the number of trees.
	NEstimators int

	// MaxDepth limits tree depth. Zero grows until leaves are pure.
	MaxDepth int

	// MinSamplesSplit is the smallest node that may be split.
	MinSamplesSplit int

	// MinSamplesLeaf is the smallest allowed child.
	MinSamplesLeaf int

	// MaxFeatures is the number of features tried per split.
	// Zero tries every feature; negative uses sqrt(n_features).
	MaxFeatures int

	// Bootstrap samples each tree's training set with replacement.
	Bootstrap bool

	// Seed makes training reproducible.
	Seed int64

	// Workers bounds parallel tree construction. Zero uses runtime.NumCPU().
	Workers int
}

// SqrtFeatures selects sqrt(n_features) candidates per split.
const SqrtFeatures = -1

// DefaultRegressorConfig returns 100 bootstrapped trees trying every feature.
func DefaultRegressorConfig() Config {
	return Config{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Bootstrap:       true,
		Seed:            42,
	}
}

// DefaultClassifierConfig returns 100 bootstrapped trees trying sqrt(n) features.
func DefaultClassifierConfig() Config {
	return Config{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     SqrtFeatures,
		Bootstrap:       true,
		Seed:            42,
	}
}

func (c Config) normalized(nFeatures int) Config {
	if c.NEstimators < 1 {
		c.NEstimators = 1
	}
	if c.MinSamplesSplit < 2 {
		c.MinSamplesSplit = 2
	}
	if c.MinSamplesLeaf < 1 {
		c.MinSamplesLeaf = 1
	}
	if c.MaxFeatures == SqrtFeatures {
		c.MaxFeatures = int(math.Max(1, math.Floor(math.Sqrt(float64(nFeatures)))))
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// Regressor is a fitted random forest regressor.
type Regressor struct {
	Trees     []Tree
	NFeatures int
}

// Classifier is a fitted random forest classifier. Classes holds the label
// for each probability index in ascending order.
type Classifier struct {
	Trees     []Tree
	Classes   []int
	NFeatures int
}

// FitRegressor trains a regressor on x and y.
func FitRegressor(ctx context.Context, x [][]float64, y []float64, cfg Config) (*Regressor, error) {
	if len(x) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("forest: %d samples but %d targets", len(x), len(y))
	}

	nFeatures := len(x[0])
	cfg = cfg.normalized(nFeatures)

	trees, err := growForest(ctx, len(x), nFeatures, cfg, func() splitCriterion {
		return &regressionCriterion{x: x, y: y}
	}, x)
	if err != nil {
		return nil, err
	}

	return &Regressor{Trees: trees, NFeatures: nFeatures}, nil
}

// Predict returns the mean of every tree's prediction for one sample.
func (r *Regressor) Predict(sample []float64) float64 {
	if len(r.Trees) == 0 {
		return 0
	}
	var sum float64
	for i := range r.Trees {
		sum += r.Trees[i].leaf(sample).Value
	}
	return sum / float64(len(r.Trees))
}

// PredictBatch predicts every row of x.
func (r *Regressor) PredictBatch(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = r.Predict(row)
	}
	return out
}

// FitClassifier trains a classifier on x and integer labels y.
func FitClassifier(ctx context.Context, x [][]float64, y []int, cfg Config) (*Classifier, error) {
	if len(x) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("forest: %d samples but %d labels", len(x), len(y))
	}

	classes, encoded := encodeLabels(y)
	nFeatures := len(x[0])
	cfg = cfg.normalized(nFeatures)

	trees, err := growForest(ctx, len(x), nFeatures, cfg, func() splitCriterion {
		return &giniCriterion{x: x, y: encoded, nClasses: len(classes)}
	}, x)
	if err != nil {
		return nil, err
	}

	return &Classifier{Trees: trees, Classes: classes, NFeatures: nFeatures}, nil
}

// PredictProba averages leaf class distributions across trees.
func (c *Classifier) PredictProba(sample []float64) []float64 {
	probs := make([]float64, len(c.Classes))
	if len(c.Trees) == 0 {
		return probs
	}
	for i := range c.Trees {
		for k, p := range c.Trees[i].leaf(sample).Probs {
			probs[k] += p
		}
	}
	for k := range probs {
		probs[k] /= float64(len(c.Trees))
	}
	return probs
}

// Predict returns the most probable class. Ties go to the lowest label.
func (c *Classifier) Predict(sample []float64) int {
	probs := c.PredictProba(sample)
	best := 0
	for k := 1; k < len(probs); k++ {
		if probs[k] > probs[best] {
			best = k
		}
	}
	if len(c.Classes) == 0 {
		return 0
	}
	return c.Classes[best]
}

// encodeLabels maps arbitrary labels onto 0..k-1 in ascending label order.
func encodeLabels(y []int) (classes []int, encoded []int) {
	seen := make(map[int]struct{})
	for _, v := range y {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			classes = append(classes, v)
		}
	}
	for i := 1; i < len(classes); i++ {
		for j := i; j > 0 && classes[j] < classes[j-1]; j-- {
			classes[j], classes[j-1] = classes[j-1], classes[j]
		}
	}

	index := make(map[int]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	encoded = make([]int, len(y))
	for i, v := range y {
		encoded[i] = index[v]
	}
	return classes, encoded
}

// growForest builds cfg.NEstimators trees in parallel.
func growForest(ctx context.Context, nSamples, nFeatures int, cfg Config, newCrit func() splitCriterion, x [][]float64) ([]Tree, error) {
	master := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic model training, not security
	seeds := make([]int64, cfg.NEstimators)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]Tree, cfg.NEstimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[i])) //nolint:gosec // deterministic model training
			b := &builder{
				x:         x,
				crit:      newCrit(),
				cfg:       cfg,
				rng:       rng,
				nFeatures: nFeatures,
			}
			trees[i] = b.build(sampleIndices(rng, nSamples, cfg.Bootstrap))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("forest: training canceled: %w", err)
	}

	return trees, nil
}

// sampleIndices returns a bootstrap sample or every index in order.
func sampleIndices(rng *rand.Rand, n int, bootstrap bool) []int {
	idx := make([]int, n)
	for i := range idx {
		if bootstrap {
			idx[i] = rng.Intn(n)
		} else {
			idx[i] = i
		}
	}
	return idx
}
