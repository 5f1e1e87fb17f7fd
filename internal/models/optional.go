// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package models

import (
	"database/sql"
	"errors"
	"math"
	"strconv"
)

// Optional is a numeric field that may be absent from a source row.
// The zero value is absent. NaN and infinities are never present; the
// constructors below store them as absent.
type Optional struct {
	Value float64
	Valid bool
}

// Some returns a present Optional holding v, or an absent one when v is
// NaN or infinite.
func Some(v float64) Optional {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Optional{}
	}
	return Optional{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (o Optional) Get() (float64, bool) {
	return o.Value, o.Valid
}

// Or returns the value when present and def otherwise.
func (o Optional) Or(def float64) float64 {
	if o.Valid {
		return o.Value
	}
	return def
}

// AtLeast reports whether the value is present and >= threshold.
// An absent value never satisfies a threshold.
func (o Optional) AtLeast(threshold float64) bool {
	return o.Valid && o.Value >= threshold
}

// Scan implements sql.Scanner so NULL columns, and DOUBLE columns holding
// NaN or an infinity, become absent values.
func (o *Optional) Scan(src interface{}) error {
	var n sql.NullFloat64
	if err := n.Scan(src); err != nil {
		return err
	}
	if !n.Valid {
		*o = Optional{}
		return nil
	}
	*o = Some(n.Float64)
	return nil
}

// Arg returns the value as a query argument, nil when absent.
func (o Optional) Arg() interface{} {
	if !o.Valid {
		return nil
	}
	return o.Value
}

// MarshalJSON encodes absent values as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, o.Value, 'f', -1, 64), nil
}

// UnmarshalJSON decodes null as absent. Out-of-range numbers such as 1e999
// also decode as absent.
func (o *Optional) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional{}
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return err
	}
	*o = Some(v)
	return nil
}
