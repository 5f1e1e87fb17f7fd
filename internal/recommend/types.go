// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/thrive/internal/models"
)

// Mode is the serving path that produced a recommendation.
type Mode string

const (
	// ModeRuleBased ranks every location by match score.
	ModeRuleBased Mode = "rule_based"

	// ModeHybrid predicts the user's preferred cluster and ranks only the
	// locations assigned to it.
	ModeHybrid Mode = "hybrid"
)

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// Fallback reasons reported in Result.FallbackReason and metrics.
const (
	ReasonIncompleteArtifacts = "incomplete_artifacts"
	ReasonSchemaMismatch      = "schema_mismatch"
	ReasonEmptyCluster        = "empty_cluster"
	ReasonClassifierFailed    = "classifier_failed"
	ReasonAssignFailed        = "assign_failed"
)

// NoCluster marks a result that was not filtered by cluster.
const NoCluster = -1

// Options tune a single recommendation request.
type Options struct {
	// Limit truncates the ranked list. Zero uses Config.DefaultLimit.
	Limit int

	// SkipPersistence suppresses the upsert side effect for this request.
	SkipPersistence bool
}

// Item is one ranked location.
type Item struct {
	Location           models.Location `json:"location"`
	MatchScore         float64         `json:"match_score"`
	AffordabilityScore float64         `json:"affordability_score"`
	QualityScore       float64         `json:"quality_score"`
}

// Result is a ranked recommendation list.
type Result struct {
	Items []Item `json:"items"`
	Mode  Mode   `json:"mode"`

	// Cluster is the predicted cluster in hybrid mode, NoCluster otherwise.
	Cluster int `json:"cluster"`

	// FallbackReason is set when hybrid serving was attempted and abandoned.
	FallbackReason string `json:"fallback_reason,omitempty"`

	// AffordabilityMethod is how missing affordability scores were filled.
	AffordabilityMethod string `json:"affordability_method,omitempty"`

	// Candidates is the number of locations considered.
	Candidates int `json:"candidates"`
}

// SubModelReport is the outcome of training one artifact.
type SubModelReport struct {
	Name     string        `json:"name"`
	Success  bool          `json:"success"`
	Deployed bool          `json:"deployed"`
	Error    string        `json:"error,omitempty"`
	Version  int           `json:"version,omitempty"`
	Duration time.Duration `json:"duration"`

	// Scores holds evaluation results, e.g. train/test R².
	Scores map[string]float64 `json:"scores,omitempty"`
}

// TrainReport is the per-sub-model outcome of Engine.Train.
type TrainReport struct {
	RunID        string         `json:"run_id"`
	Records      int            `json:"records"`
	StartedAt    time.Time      `json:"started_at"`
	Duration     time.Duration  `json:"duration"`
	Regressor    SubModelReport `json:"regressor"`
	Segmentation SubModelReport `json:"segmentation"`
	Classifier   SubModelReport `json:"classifier"`
}

// Succeeded reports whether every sub-model trained.
func (r *TrainReport) Succeeded() bool {
	return r.Regressor.Success && r.Segmentation.Success && r.Classifier.Success
}

// LocationSource provides candidate locations.
type LocationSource interface {
	FetchLocations(ctx context.Context) ([]models.Location, error)
}

// ProfileSource provides user profiles. Unknown users return an error
// wrapping ErrNotFound.
type ProfileSource interface {
	FetchUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
}

// RecommendationSink persists recommendations. Implementations must upsert
// on (user_id, location_id).
type RecommendationSink interface {
	UpsertRecommendation(ctx context.Context, rec models.Recommendation) error
}

// DataStore is a store that serves every engine collaborator.
type DataStore interface {
	LocationSource
	ProfileSource
	RecommendationSink
}
