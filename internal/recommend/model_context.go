// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/thrive/internal/affordability"
	"github.com/tomtom215/thrive/internal/recommend/storage"
	"github.com/tomtom215/thrive/internal/segment"
)

// Artifact names in the model store.
const (
	ArtifactRegressor    = "affordability_regressor"
	ArtifactSegmentation = "segmentation"
	ArtifactClassifier   = "recommendation_classifier"
)

// ArtifactNames lists every artifact the engine loads.
var ArtifactNames = []string{ArtifactRegressor, ArtifactSegmentation, ArtifactClassifier}

// ArtifactStore loads and saves versioned model artifacts.
// *storage.Store implements it.
type ArtifactStore interface {
	Save(ctx context.Context, name string, version int, data interface{}, meta storage.ModelMetadata) error
	Load(ctx context.Context, name string, version int, target interface{}) (*storage.ModelMetadata, error)
	NextVersion(name string) int
	Prune(ctx context.Context, name string, keepVersions int) (int, error)
}

// ModelContext is an immutable snapshot of the loaded artifacts. Any field
// may be nil; a context with no artifacts serves everything rule-based.
//
// Segmentation and Classifier always come from the same training run,
// because cluster numbers mean nothing across runs.
type ModelContext struct {
	Regressor    *affordability.Regressor
	Segmentation *segment.Model
	Classifier   *Classifier

	// Versions and RunIDs are keyed by artifact name. Artifacts that were
	// never persisted have version 0.
	Versions map[string]int
	RunIDs   map[string]string

	LoadedAt time.Time
}

// EmptyModelContext returns a context with no artifacts.
func EmptyModelContext() *ModelContext {
	return &ModelContext{
		Versions: make(map[string]int),
		RunIDs:   make(map[string]string),
		LoadedAt: time.Now(),
	}
}

// Hybrid reports whether the context can serve hybrid recommendations.
func (mc *ModelContext) Hybrid() bool {
	return mc != nil && mc.Segmentation != nil && mc.Classifier != nil
}

// Mode returns the serving mode the context supports.
func (mc *ModelContext) Mode() Mode {
	if mc.Hybrid() {
		return ModeHybrid
	}
	return ModeRuleBased
}

// clone returns a shallow copy with its own maps.
func (mc *ModelContext) clone() *ModelContext {
	next := &ModelContext{
		Regressor:    mc.Regressor,
		Segmentation: mc.Segmentation,
		Classifier:   mc.Classifier,
		Versions:     make(map[string]int, len(mc.Versions)),
		RunIDs:       make(map[string]string, len(mc.RunIDs)),
		LoadedAt:     time.Now(),
	}
	for k, v := range mc.Versions {
		next.Versions[k] = v
	}
	for k, v := range mc.RunIDs {
		next.RunIDs[k] = v
	}
	return next
}

// ContextSummary is the JSON view of a model context.
type ContextSummary struct {
	Mode             Mode              `json:"mode"`
	Regressor        bool              `json:"regressor"`
	Clusters         int               `json:"clusters"`
	Versions         map[string]int    `json:"versions"`
	RunIDs           map[string]string `json:"run_ids"`
	LoadedAt         time.Time         `json:"loaded_at"`
	TrainedAt        *time.Time        `json:"trained_at,omitempty"`
	SegmentedRecords int               `json:"segmented_records,omitempty"`
}

// Summary describes the context for health endpoints and logs.
func (mc *ModelContext) Summary() ContextSummary {
	s := ContextSummary{
		Mode:      mc.Mode(),
		Regressor: mc.Regressor != nil,
		Versions:  mc.Versions,
		RunIDs:    mc.RunIDs,
		LoadedAt:  mc.LoadedAt,
	}
	if mc.Segmentation != nil {
		s.Clusters = mc.Segmentation.K()
		s.SegmentedRecords = mc.Segmentation.Records
		t := mc.Segmentation.TrainedAt
		s.TrainedAt = &t
	}
	return s
}

// LoadModelContext loads the latest version of every artifact.
//
// A missing artifact leaves its slot nil and is logged at info. Other load
// failures also leave the slot nil and are returned joined, alongside the
// partially loaded context. A classifier whose training run differs from
// the segmentation's is discarded.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func LoadModelContext(ctx context.Context, store ArtifactStore, logger zerolog.Logger) (*ModelContext, error) {
	mc := EmptyModelContext()
	if store == nil {
		return mc, nil
	}

	var errs []error
	load := func(name string, target interface{}) bool {
		meta, err := store.Load(ctx, name, 0, target)
		if err != nil {
			if errors.Is(err, storage.ErrModelNotFound) {
				logger.Info().Str("artifact", name).Msg("artifact not found, using rule-based fallback")
				return false
			}
			errs = append(errs, fmt.Errorf("load %s: %w", name, err))
			return false
		}
		mc.Versions[name] = meta.Version
		mc.RunIDs[name] = meta.RunID
		return true
	}

	var reg affordability.Regressor
	if load(ArtifactRegressor, &reg) {
		mc.Regressor = &reg
	}

	var seg segment.Model
	if load(ArtifactSegmentation, &seg) {
		mc.Segmentation = &seg
	}

	var cls Classifier
	if load(ArtifactClassifier, &cls) {
		mc.Classifier = &cls
	}

	if mc.Classifier != nil {
		switch {
		case mc.Segmentation == nil:
			logger.Warn().Msg("classifier loaded without segmentation, ignoring classifier")
			mc.dropClassifier()
		case mc.RunIDs[ArtifactClassifier] != mc.RunIDs[ArtifactSegmentation]:
			logger.Warn().
				Str("classifier_run", mc.RunIDs[ArtifactClassifier]).
				Str("segmentation_run", mc.RunIDs[ArtifactSegmentation]).
				Msg("classifier and segmentation come from different training runs, ignoring classifier")
			mc.dropClassifier()
		case mc.Classifier.Clusters != mc.Segmentation.K():
			logger.Warn().
				Int("classifier_clusters", mc.Classifier.Clusters).
				Int("segmentation_clusters", mc.Segmentation.K()).
				Msg("classifier and segmentation disagree on cluster count, ignoring classifier")
			mc.dropClassifier()
		}
	}

	logger.Info().
		Str("mode", mc.Mode().String()).
		Bool("regressor", mc.Regressor != nil).
		Bool("segmentation", mc.Segmentation != nil).
		Bool("classifier", mc.Classifier != nil).
		Msg("model context loaded")

	return mc, errors.Join(errs...)
}

func (mc *ModelContext) dropClassifier() {
	mc.Classifier = nil
	delete(mc.Versions, ArtifactClassifier)
	delete(mc.RunIDs, ArtifactClassifier)
}
