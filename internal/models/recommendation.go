// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package models

import "time"

// Recommendation is the persisted outcome of scoring one location for one user.
// Stores keep at most one row per (UserID, LocationID); writing the same
// pair again replaces the scores and CreatedAt.
type Recommendation struct {
	UserID             int64     `json:"user_id"`
	LocationID         int64     `json:"location_id"`
	AffordabilityScore float64   `json:"affordability_score"`
	MatchScore         float64   `json:"match_score"`
	CreatedAt          time.Time `json:"created_at"`
}
