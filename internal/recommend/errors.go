// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package recommend

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Lower-level errors are wrapped so both the sentinel and
// the cause match errors.Is.
var (
	// ErrDataUnavailable means no locations or no profile could be fetched.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInsufficientTrainingData means a sub-model had too few records or features to train.
	ErrInsufficientTrainingData = errors.New("insufficient training data")

	// ErrArtifactMissing means a trained artifact was not found in the store.
	ErrArtifactMissing = errors.New("artifact missing")

	// ErrSchemaMismatch means a batch lacks a feature a trained model needs.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrPersistenceFailure means a recommendation could not be written.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrInvalidProfile wraps a profile that failed validation.
	ErrInvalidProfile = errors.New("invalid user profile")

	// ErrNotFound is returned by sources for unknown ids.
	ErrNotFound = errors.New("not found")

	// ErrTrainingInProgress is returned when Train is called during a training run.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// PersistenceError aggregates failed recommendation writes from one request.
// The recommendation result it accompanies is still valid.
type PersistenceError struct {
	UserID   int64
	Failed   []int64 // location ids
	Attempts int
	Errs     []error
}

// Error implements error.
func (e *PersistenceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d of %d recommendation writes failed for user %d",
		ErrPersistenceFailure, len(e.Failed), e.Attempts, e.UserID)
	if len(e.Errs) > 0 {
		fmt.Fprintf(&b, ": %v", e.Errs[0])
	}
	return b.String()
}

// Unwrap lets errors.Is match ErrPersistenceFailure and the underlying causes.
func (e *PersistenceError) Unwrap() []error {
	return append([]error{ErrPersistenceFailure}, e.Errs...)
}
