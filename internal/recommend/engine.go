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
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/thrive/internal/affordability"
	"github.com/tomtom215/thrive/internal/logging"
	"github.com/tomtom215/thrive/internal/match"
	"github.com/tomtom215/thrive/internal/metrics"
	"github.com/tomtom215/thrive/internal/models"
	"github.com/tomtom215/thrive/internal/segment"
	"github.com/tomtom215/thrive/internal/validation"
)

// Engine scores and recommends locations. It is safe for concurrent use.
//
// Requests read the current ModelContext once and never block on training;
// Train and Reload build a new context and swap it in atomically.
type Engine struct {
	config *Config
	logger zerolog.Logger
	scorer *affordability.Scorer

	current atomic.Pointer[ModelContext]

	// trainMu serializes Train and Reload.
	trainMu sync.Mutex

	// Collaborators. Set before serving requests.
	store     ArtifactStore
	locations LocationSource
	profiles  ProfileSource
	sink      RecommendationSink
}

// NewEngine creates an engine with an empty model context. Until Reload or
// Train deploys artifacts, every request is served rule-based.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger = logger.With().Str("component", "recommend").Logger()

	scorer, err := affordability.NewScorer(cfg.Affordability, logger)
	if err != nil {
		return nil, fmt.Errorf("create affordability scorer: %w", err)
	}

	e := &Engine{
		config: cfg.Clone(),
		logger: logger,
		scorer: scorer,
	}
	e.current.Store(EmptyModelContext())
	return e, nil
}

// SetArtifactStore sets the store Train saves to and Reload loads from.
func (e *Engine) SetArtifactStore(store ArtifactStore) {
	e.store = store
}

// SetLocationSource sets the source RecommendForUser fetches locations from.
func (e *Engine) SetLocationSource(src LocationSource) {
	e.locations = src
}

// SetProfileSource sets the source RecommendForUser fetches profiles from.
func (e *Engine) SetProfileSource(src ProfileSource) {
	e.profiles = src
}

// SetSink sets the recommendation sink. The sink is wrapped in a circuit
// breaker; a nil sink disables persistence.
func (e *Engine) SetSink(sink RecommendationSink) {
	if sink == nil {
		e.sink = nil
		return
	}
	e.sink = newBreakerSink(sink, e.config.Persistence, e.logger)
}

// SetDataStore wires a store that serves every collaborator role.
func (e *Engine) SetDataStore(ds DataStore) {
	e.SetLocationSource(ds)
	e.SetProfileSource(ds)
	e.SetSink(ds)
}

// Context returns the current model context snapshot.
func (e *Engine) Context() *ModelContext {
	return e.current.Load()
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Category maps an affordability score to its category.
func (e *Engine) Category(score float64) string {
	return e.scorer.Category(score)
}

// requestLogger adds the context's correlation and request ids to the
// engine logger.
func (e *Engine) requestLogger(ctx context.Context) zerolog.Logger {
	return logging.CtxWith(logging.ContextWithLogger(ctx, e.logger)).Logger()
}

// ScoreAffordability scores every location relative to the batch. The
// trained regressor is used when loaded and applicable; otherwise the
// rule-based method. An empty batch yields an empty result.
func (e *Engine) ScoreAffordability(ctx context.Context, locs []models.Location) (*affordability.Result, error) {
	return e.scoreWith(ctx, e.Context().Regressor, locs), nil
}

func (e *Engine) scoreWith(ctx context.Context, reg *affordability.Regressor, locs []models.Location) *affordability.Result {
	if reg != nil && len(locs) > 0 {
		res, err := e.scorer.Trained(locs, reg)
		if err == nil {
			metrics.RecordAffordability(string(res.Method), len(locs))
			return res
		}
		logger := e.requestLogger(ctx)
		logger.Info().Err(err).Msg("trained affordability scoring unavailable, using rule-based")
	}
	res := e.scorer.RuleBased(locs)
	metrics.RecordAffordability(string(res.Method), len(locs))
	return res
}

// fillAffordability sets missing affordability scores in place and returns
// the method used, or "" when nothing was missing.
func (e *Engine) fillAffordability(ctx context.Context, reg *affordability.Regressor, locs []models.Location) string {
	missing := false
	for i := range locs {
		if !locs[i].AffordabilityScore.Valid {
			missing = true
			break
		}
	}
	if !missing {
		return ""
	}

	res := e.scoreWith(ctx, reg, locs)
	for i := range locs {
		if !locs[i].AffordabilityScore.Valid {
			locs[i].AffordabilityScore = models.Some(res.Scores[i])
		}
	}
	return string(res.Method)
}

// Recommend ranks locations for one profile.
//
// With segmentation and classifier loaded, only locations in the profile's
// predicted cluster are ranked; any failure on that path falls back to
// ranking the whole batch. A non-zero userID persists every returned item;
// write failures come back as a *PersistenceError next to a valid result.
func (e *Engine) Recommend(ctx context.Context, userID int64, profile *models.UserProfile, locs []models.Location, opts Options) (*Result, error) {
	start := time.Now()
	logger := e.requestLogger(ctx).With().Int64("user_id", userID).Logger()

	if profile == nil {
		return nil, fmt.Errorf("%w: nil profile", ErrInvalidProfile)
	}
	if verr := validation.ValidateStruct(profile); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, verr)
	}

	if len(locs) == 0 {
		logger.Info().Msg("no locations to recommend from")
		return emptyResult(), fmt.Errorf("%w: empty location batch", ErrDataUnavailable)
	}

	mc := e.Context()

	batch := make([]models.Location, len(locs))
	copy(batch, locs)

	result := &Result{
		Mode:                ModeRuleBased,
		Cluster:             NoCluster,
		AffordabilityMethod: e.fillAffordability(ctx, mc.Regressor, batch),
	}

	candidates := batch
	switch {
	case mc.Hybrid():
		filtered, cluster, reason := hybridCandidates(mc, profile, batch)
		if reason == "" {
			candidates = filtered
			result.Mode = ModeHybrid
			result.Cluster = cluster
			break
		}
		result.FallbackReason = reason
	case mc.Segmentation != nil || mc.Classifier != nil:
		result.FallbackReason = ReasonIncompleteArtifacts
	}
	if result.FallbackReason != "" {
		metrics.RecordFallback(result.FallbackReason)
		logger.Info().Str("reason", result.FallbackReason).Msg("hybrid recommendation unavailable, falling back to rule-based")
	}

	result.Candidates = len(candidates)
	result.Items = rank(candidates, profile)

	limit := opts.Limit
	if limit == 0 {
		limit = e.config.DefaultLimit
	}
	if limit > 0 && len(result.Items) > limit {
		result.Items = result.Items[:limit]
	}

	metrics.RecordRecommendation(result.Mode.String(), time.Since(start))

	logger.Debug().
		Str("mode", result.Mode.String()).
		Int("cluster", result.Cluster).
		Int("candidates", result.Candidates).
		Int("returned", len(result.Items)).
		Msg("recommendation complete")

	if userID == 0 || opts.SkipPersistence || !e.config.Persistence.Enabled || e.sink == nil {
		return result, nil
	}
	if perr := e.persist(ctx, userID, result.Items); perr != nil {
		logger.Warn().Err(perr).Msg("failed to persist recommendations")
		return result, perr
	}
	return result, nil
}

// RecommendForUser fetches the user's profile and all locations from the
// configured sources, then calls Recommend. Fetch failures return an empty
// result with ErrDataUnavailable.
func (e *Engine) RecommendForUser(ctx context.Context, userID int64, opts Options) (*Result, error) {
	if e.profiles == nil || e.locations == nil {
		return emptyResult(), fmt.Errorf("%w: data sources not configured", ErrDataUnavailable)
	}

	profile, err := e.profiles.FetchUserProfile(ctx, userID)
	if err != nil {
		return emptyResult(), fmt.Errorf("%w: fetch profile for user %d: %w", ErrDataUnavailable, userID, err)
	}

	locs, err := e.locations.FetchLocations(ctx)
	if err != nil {
		return emptyResult(), fmt.Errorf("%w: fetch locations: %w", ErrDataUnavailable, err)
	}

	return e.Recommend(ctx, userID, profile, locs, opts)
}

// hybridCandidates returns the batch locations in the profile's predicted
// cluster, or a fallback reason.
func hybridCandidates(mc *ModelContext, profile *models.UserProfile, batch []models.Location) ([]models.Location, int, string) {
	cluster, err := mc.Classifier.PredictCluster(profile)
	if err != nil {
		if errors.Is(err, ErrSchemaMismatch) {
			return nil, NoCluster, ReasonSchemaMismatch
		}
		return nil, NoCluster, ReasonClassifierFailed
	}

	labels, err := mc.Segmentation.Assign(batch)
	if err != nil {
		if errors.Is(err, segment.ErrSchemaMismatch) {
			return nil, NoCluster, ReasonSchemaMismatch
		}
		return nil, NoCluster, ReasonAssignFailed
	}

	var filtered []models.Location
	for i, label := range labels {
		if label == cluster {
			filtered = append(filtered, batch[i])
		}
	}
	if len(filtered) == 0 {
		return nil, NoCluster, ReasonEmptyCluster
	}
	return filtered, cluster, ""
}

// rank scores candidates and sorts them by match score, then quality
// score, then ascending location id.
func rank(candidates []models.Location, profile *models.UserProfile) []Item {
	items := make([]Item, len(candidates))
	for i := range candidates {
		loc := &candidates[i]
		items[i] = Item{
			Location:           *loc,
			MatchScore:         match.Score(loc, profile),
			AffordabilityScore: loc.AffordabilityScore.Or(0),
			QualityScore:       match.QualityScore(loc),
		}
	}

	sort.Slice(items, func(a, b int) bool {
		ia, ib := &items[a], &items[b]
		if ia.MatchScore != ib.MatchScore {
			return ia.MatchScore > ib.MatchScore
		}
		if ia.QualityScore != ib.QualityScore {
			return ia.QualityScore > ib.QualityScore
		}
		return ia.Location.ID < ib.Location.ID
	})
	return items
}

// persist upserts every item. It attempts all writes; an open breaker makes
// the remaining ones fail fast.
func (e *Engine) persist(ctx context.Context, userID int64, items []Item) error {
	now := time.Now().UTC()
	var perr *PersistenceError
	for i := range items {
		rec := models.Recommendation{
			UserID:             userID,
			LocationID:         items[i].Location.ID,
			AffordabilityScore: items[i].AffordabilityScore,
			MatchScore:         items[i].MatchScore,
			CreatedAt:          now,
		}
		if err := e.sink.UpsertRecommendation(ctx, rec); err != nil {
			if perr == nil {
				perr = &PersistenceError{UserID: userID}
			}
			perr.Failed = append(perr.Failed, rec.LocationID)
			perr.Errs = append(perr.Errs, err)
		}
	}
	if perr == nil {
		return nil
	}
	perr.Attempts = len(items)
	return perr
}

func emptyResult() *Result {
	return &Result{
		Items:   []Item{},
		Mode:    ModeRuleBased,
		Cluster: NoCluster,
	}
}
