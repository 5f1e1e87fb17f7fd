// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator and converts its
// errors into a named error type, RequestValidationError, so callers can
// fail fast on malformed input instead of tripping over a missing field
// deep inside scoring code.
//
// # Quick Start
//
//	type UserProfile struct {
//	    Income        float64 `json:"income" validate:"gt=0"`
//	    HouseholdSize int     `json:"household_size" validate:"gte=1"`
//	}
//
//	if verr := validation.ValidateStruct(&profile); verr != nil {
//	    for _, fe := range verr.Errors() {
//	        fmt.Println(fe.Field(), fe.Tag())
//	    }
//	}
//
// Field names are reported using the struct's json tag when present.
//
// # Thread Safety
//
// GetValidator initializes the validator exactly once via sync.Once.
// The validator caches struct metadata and is safe for concurrent use.
package validation
