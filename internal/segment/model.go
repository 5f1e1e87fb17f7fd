// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package segment clusters locations into affinity groups with seeded KMeans.
//
// A Model is fitted on the quality-of-life cluster features of a location
// batch. Features are standardized with statistics captured at training
// time, so prediction places new locations in the same scaled space the
// centroids live in. Cluster numbers are only meaningful within the
// training run that produced them.
package segment

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/tomtom215/thrive/internal/features"
	"github.com/tomtom215/thrive/internal/models"
)

// Errors returned by training and assignment.
var (
	ErrInsufficientData = errors.New("segment: insufficient training data")
	ErrSchemaMismatch   = errors.New("segment: feature missing from batch")
)

// Config controls segmentation training.
type Config struct {
	Clusters    int
	Seed        int64
	MaxIter     int
	NInit       int
	Tolerance   float64
	MinRecords  int
	MinFeatures int
}

// DefaultConfig returns k=5 with seed 42, requiring 10 records and 3 features.
func DefaultConfig() Config {
	return Config{
		Clusters:    5,
		Seed:        42,
		MaxIter:     300,
		NInit:       10,
		Tolerance:   1e-4,
		MinRecords:  10,
		MinFeatures: 3,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Clusters < 1 {
		return fmt.Errorf("segment.clusters must be positive, got %d", c.Clusters)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("segment.max_iter must be positive, got %d", c.MaxIter)
	}
	if c.NInit < 1 {
		return fmt.Errorf("segment.n_init must be positive, got %d", c.NInit)
	}
	if c.MinRecords < c.Clusters {
		return fmt.Errorf("segment.min_records must be >= clusters, got %d < %d", c.MinRecords, c.Clusters)
	}
	if c.MinFeatures < 1 || c.MinFeatures > len(models.ClusterFields) {
		return fmt.Errorf("segment.min_features must be in [1, %d], got %d", len(models.ClusterFields), c.MinFeatures)
	}
	return nil
}

// Model is a fitted segmentation model.
type Model struct {
	// Features are the cluster fields the model was trained on, in order.
	Features []models.Field

	// Medians impute missing per-row values at assignment time.
	Medians []float64

	// Scaler standardizes Features before distance computation.
	Scaler features.Scaler

	// Centroids live in the scaled feature space.
	Centroids [][]float64

	Inertia    float64
	Iterations int
	Records    int
	TrainedAt  time.Time
}

// Train fits a model and returns it with the cluster label of every input
// location.
//
// Training needs cfg.MinRecords locations and cfg.MinFeatures cluster
// features present in the batch; otherwise it returns ErrInsufficientData.
func Train(locs []models.Location, cfg Config) (*Model, []int, error) {
	if len(locs) < cfg.MinRecords {
		return nil, nil, fmt.Errorf("%w: %d locations, need %d", ErrInsufficientData, len(locs), cfg.MinRecords)
	}

	valid := make([]models.Field, 0, len(models.ClusterFields))
	for _, f := range models.ClusterFields {
		if models.AnyPresent(locs, f) {
			valid = append(valid, f)
		}
	}
	if len(valid) < cfg.MinFeatures {
		return nil, nil, fmt.Errorf("%w: %d cluster features present, need %d", ErrInsufficientData, len(valid), cfg.MinFeatures)
	}

	m := &Model{
		Features: valid,
		Medians:  make([]float64, len(valid)),
		Records:  len(locs),
	}

	raw := make([][]float64, len(locs))
	for i := range raw {
		raw[i] = make([]float64, len(valid))
	}
	for j, f := range valid {
		filled, median, _, _ := features.ImputeMedian(models.Column(locs, f))
		m.Medians[j] = median
		for i := range locs {
			raw[i][j] = filled[i]
		}
	}

	m.Scaler = features.FitScaler(raw)
	points := make([][]float64, len(raw))
	for i, row := range raw {
		points[i] = m.Scaler.Transform(row)
	}

	k := cfg.Clusters
	if k > len(points) {
		k = len(points)
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic clustering
	res := kmeans(points, k, cfg.MaxIter, cfg.NInit, cfg.Tolerance, rng)

	m.Centroids = res.centroids
	m.Inertia = res.inertia
	m.Iterations = res.iters
	m.TrainedAt = time.Now()

	return m, res.labels, nil
}

// K returns the number of clusters.
func (m *Model) K() int {
	return len(m.Centroids)
}

// Assign returns the nearest-centroid cluster for every location.
// A feature the model was trained on that is absent from the entire batch
// yields ErrSchemaMismatch; absent values in individual rows are imputed
// with the training median.
func (m *Model) Assign(locs []models.Location) ([]int, error) {
	for _, f := range m.Features {
		if len(locs) > 0 && !models.AnyPresent(locs, f) {
			return nil, fmt.Errorf("%w: %s", ErrSchemaMismatch, f)
		}
	}

	labels := make([]int, len(locs))
	row := make([]float64, len(m.Features))
	for i := range locs {
		for j, f := range m.Features {
			row[j] = locs[i].Get(f).Or(m.Medians[j])
		}
		labels[i], _ = nearest(m.Scaler.Transform(row), m.Centroids)
	}
	return labels, nil
}

// Sizes counts how many labels fall in each cluster.
func (m *Model) Sizes(labels []int) []int {
	sizes := make([]int, m.K())
	for _, l := range labels {
		if l >= 0 && l < len(sizes) {
			sizes[l]++
		}
	}
	return sizes
}
