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

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/thrive/internal/affordability"
	"github.com/tomtom215/thrive/internal/forest"
	"github.com/tomtom215/thrive/internal/metrics"
	"github.com/tomtom215/thrive/internal/models"
	"github.com/tomtom215/thrive/internal/recommend/storage"
	"github.com/tomtom215/thrive/internal/segment"
	"github.com/tomtom215/thrive/internal/synthetic"
)

// saveAttempts bounds retries when another process claims a version first.
const saveAttempts = 3

// Train fits the affordability regressor, the segmentation model and the
// cluster classifier on locs.
//
// Each sub-model succeeds or fails independently and the report records
// both outcomes. Trained artifacts are saved to the artifact store, when one
// is set, before the new model context is swapped in. Segmentation and
// classifier are deployed only as a pair. A failed sub-model leaves the
// currently deployed artifact untouched. The returned error joins every
// sub-model failure.
func (e *Engine) Train(ctx context.Context, locs []models.Location) (*TrainReport, error) {
	if !e.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	start := time.Now()
	report := &TrainReport{
		RunID:     uuid.NewString(),
		Records:   len(locs),
		StartedAt: start,
	}
	logger := e.requestLogger(ctx).With().Str("run_id", report.RunID).Logger()
	logger.Info().Int("records", len(locs)).Msg("starting model training")

	next := e.Context().clone()
	var errs []error

	// Regressor.
	reg, err := e.trainRegressor(ctx, locs, &report.Regressor)
	if err == nil {
		err = e.saveArtifact(ctx, ArtifactRegressor, report.RunID, reg, reg.TrainedAt, reg.Records, len(reg.FeatureNames), &report.Regressor)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", ArtifactRegressor, err))
		report.Regressor.Error = err.Error()
		logger.Warn().Err(err).Msg("affordability regressor training failed")
	} else {
		next.Regressor = reg
		next.Versions[ArtifactRegressor] = report.Regressor.Version
		next.RunIDs[ArtifactRegressor] = report.RunID
		report.Regressor.Deployed = true
	}

	// Segmentation, then the classifier on its clusters.
	seg, cls, err := e.trainSegmentation(ctx, next.Regressor, locs, report)
	if err == nil {
		err = e.savePair(ctx, report, seg, cls)
	}
	if err != nil {
		errs = append(errs, err)
		logger.Warn().Err(err).Msg("segmentation or classifier training failed")
	} else {
		next.Segmentation = seg
		next.Classifier = cls
		next.Versions[ArtifactSegmentation] = report.Segmentation.Version
		next.Versions[ArtifactClassifier] = report.Classifier.Version
		next.RunIDs[ArtifactSegmentation] = report.RunID
		next.RunIDs[ArtifactClassifier] = report.RunID
		report.Segmentation.Deployed = true
		report.Classifier.Deployed = true
	}

	if report.Regressor.Deployed || report.Segmentation.Deployed {
		e.current.Store(next)
		e.pruneArtifacts(ctx, logger, report)
	}

	report.Duration = time.Since(start)
	logger.Info().
		Bool("regressor", report.Regressor.Deployed).
		Bool("segmentation", report.Segmentation.Deployed).
		Bool("classifier", report.Classifier.Deployed).
		Str("mode", next.Mode().String()).
		Int64("duration_ms", report.Duration.Milliseconds()).
		Msg("model training complete")

	return report, errors.Join(errs...)
}

func (e *Engine) forestConfig(base forest.Config) forest.Config {
	base.NEstimators = e.config.Training.NEstimators
	base.Seed = e.config.Seed
	base.Workers = e.config.Training.Workers
	return base
}

func (e *Engine) trainRegressor(ctx context.Context, locs []models.Location, rep *SubModelReport) (*affordability.Regressor, error) {
	rep.Name = ArtifactRegressor
	start := time.Now()

	cfg := affordability.TrainConfig{
		MinRecords:   e.config.Training.MinRecords,
		TestFraction: e.config.Training.TestFraction,
		SplitSeed:    e.config.Seed,
		Forest:       e.forestConfig(forest.DefaultRegressorConfig()),
	}
	reg, err := e.scorer.TrainRegressor(ctx, locs, cfg)
	rep.Duration = time.Since(start)
	metrics.RecordTraining(ArtifactRegressor, rep.Duration, err)
	if err != nil {
		if errors.Is(err, affordability.ErrInsufficientData) {
			err = fmt.Errorf("%w: %w", ErrInsufficientTrainingData, err)
		}
		return nil, err
	}

	rep.Success = true
	rep.Scores = map[string]float64{"train_r2": reg.TrainR2, "test_r2": reg.TestR2}
	metrics.RegressorR2.WithLabelValues("train").Set(reg.TrainR2)
	metrics.RegressorR2.WithLabelValues("test").Set(reg.TestR2)
	return reg, nil
}

// trainSegmentation clusters locs and trains the classifier that maps
// profiles onto those clusters. Missing affordability scores are filled
// with reg (or rule-based) first, since affordability is a cluster feature.
func (e *Engine) trainSegmentation(ctx context.Context, reg *affordability.Regressor, locs []models.Location, report *TrainReport) (*segment.Model, *Classifier, error) {
	report.Segmentation.Name = ArtifactSegmentation
	report.Classifier.Name = ArtifactClassifier
	t := e.config.Training

	batch := make([]models.Location, len(locs))
	copy(batch, locs)
	e.fillAffordability(ctx, reg, batch)

	start := time.Now()
	segCfg := segment.DefaultConfig()
	segCfg.Clusters = t.Clusters
	segCfg.Seed = e.config.Seed
	segCfg.MinRecords = t.MinRecords
	segCfg.MinFeatures = t.MinClusterFeatures

	seg, labels, err := segment.Train(batch, segCfg)
	report.Segmentation.Duration = time.Since(start)
	metrics.RecordTraining(ArtifactSegmentation, report.Segmentation.Duration, err)
	if err != nil {
		if errors.Is(err, segment.ErrInsufficientData) {
			err = fmt.Errorf("%w: %w", ErrInsufficientTrainingData, err)
		}
		report.Segmentation.Error = err.Error()
		report.Classifier.Error = "skipped: segmentation failed"
		return nil, nil, fmt.Errorf("%s: %w", ArtifactSegmentation, err)
	}
	report.Segmentation.Success = true
	report.Segmentation.Scores = map[string]float64{"inertia": seg.Inertia}
	for c, size := range seg.Sizes(labels) {
		report.Segmentation.Scores[fmt.Sprintf("cluster_%d_size", c)] = float64(size)
	}

	start = time.Now()
	profiles, userLabels := synthetic.New(e.config.Seed).Users(seg.K(), t.UsersPerCluster)
	cls, err := trainClassifier(ctx, profiles, userLabels, seg.K(), e.forestConfig(forest.DefaultClassifierConfig()))
	report.Classifier.Duration = time.Since(start)
	metrics.RecordTraining(ArtifactClassifier, report.Classifier.Duration, err)
	if err != nil {
		report.Classifier.Error = err.Error()
		return nil, nil, fmt.Errorf("%s: %w", ArtifactClassifier, err)
	}
	report.Classifier.Success = true
	report.Classifier.Scores = map[string]float64{"users": float64(cls.Records)}

	return seg, cls, nil
}

// savePair saves segmentation and classifier. Both share the report's run
// id, so a reload after a half-written pair discards the classifier.
func (e *Engine) savePair(ctx context.Context, report *TrainReport, seg *segment.Model, cls *Classifier) error {
	if err := e.saveArtifact(ctx, ArtifactSegmentation, report.RunID, seg, seg.TrainedAt, seg.Records, len(seg.Features), &report.Segmentation); err != nil {
		report.Segmentation.Error = err.Error()
		return fmt.Errorf("%s: %w", ArtifactSegmentation, err)
	}
	if err := e.saveArtifact(ctx, ArtifactClassifier, report.RunID, cls, cls.TrainedAt, cls.Records, len(cls.Columns), &report.Classifier); err != nil {
		report.Classifier.Error = err.Error()
		return fmt.Errorf("%s: %w", ArtifactClassifier, err)
	}
	return nil
}

// saveArtifact writes one artifact under the next version number. Without
// a store it is a no-op and the artifact is deployed in memory only.
func (e *Engine) saveArtifact(ctx context.Context, name, runID string, data interface{}, trainedAt time.Time, records, width int, rep *SubModelReport) error {
	if e.store == nil {
		return nil
	}

	meta := storage.ModelMetadata{
		RunID:              runID,
		TrainedAt:          trainedAt,
		Records:            records,
		Features:           width,
		Scores:             rep.Scores,
		TrainingDurationMS: rep.Duration.Milliseconds(),
	}

	// Another process sharing the directory may claim the same version
	// between NextVersion and Save; take the next one and try again.
	var version int
	for attempt := 0; ; attempt++ {
		version = e.store.NextVersion(name)
		err := e.store.Save(ctx, name, version, data, meta)
		if err == nil {
			break
		}
		if !errors.Is(err, storage.ErrVersionExists) || attempt >= saveAttempts-1 {
			return fmt.Errorf("save artifact: %w", err)
		}
	}

	rep.Version = version
	metrics.ModelVersion.WithLabelValues(name).Set(float64(version))
	return nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) pruneArtifacts(ctx context.Context, logger zerolog.Logger, report *TrainReport) {
	keep := e.config.Training.KeepVersions
	if e.store == nil || keep == 0 {
		return
	}
	for _, rep := range []SubModelReport{report.Regressor, report.Segmentation, report.Classifier} {
		if !rep.Deployed {
			continue
		}
		removed, err := e.store.Prune(ctx, rep.Name, keep)
		if err != nil {
			logger.Warn().Err(err).Str("artifact", rep.Name).Msg("failed to prune old artifact versions")
			continue
		}
		if removed > 0 {
			logger.Debug().Str("artifact", rep.Name).Int("removed", removed).Msg("pruned old artifact versions")
		}
	}
}

// Reload loads the latest artifacts from the store and swaps them in. If
// any artifact fails to load (other than being absent) the current context
// is kept and the error returned.
func (e *Engine) Reload(ctx context.Context) error {
	if e.store == nil {
		return errors.New("artifact store not set")
	}

	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	mc, err := LoadModelContext(ctx, e.store, e.requestLogger(ctx))
	if err != nil {
		return fmt.Errorf("reload model context: %w", err)
	}

	for name, v := range mc.Versions {
		metrics.ModelVersion.WithLabelValues(name).Set(float64(v))
	}
	e.current.Store(mc)
	return nil
}
