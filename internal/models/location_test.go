// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package models

import (
	"encoding/json"
	"math"
	"testing"
)

func TestOptional_ScanNull(t *testing.T) {
	var o Optional
	if err := o.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}
	if o.Valid {
		t.Error("Scan(nil) should produce an absent value")
	}

	if err := o.Scan(int64(7)); err != nil {
		t.Fatalf("Scan(7) error = %v", err)
	}
	if v, ok := o.Get(); !ok || v != 7 {
		t.Errorf("Get() = (%v, %v), want (7, true)", v, ok)
	}

	if err := o.Scan("not a number"); err == nil {
		t.Error("Scan(string) expected error")
	}
}

func TestOptional_NonFiniteIsAbsent(t *testing.T) {
	tests := []struct {
		name string
		v    float64
	}{
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if o := Some(tt.v); o.Valid {
				t.Errorf("Some(%v).Valid = true, want false", tt.v)
			}

			o := Some(3)
			if err := o.Scan(tt.v); err != nil {
				t.Fatalf("Scan(%v) error = %v", tt.v, err)
			}
			if o.Valid {
				t.Errorf("Scan(%v) produced a present value %v", tt.v, o.Value)
			}
		})
	}

	var o Optional
	if err := json.Unmarshal([]byte("1e999"), &o); err != nil {
		t.Fatalf("Unmarshal(1e999) error = %v", err)
	}
	if o.Valid {
		t.Error("out-of-range JSON number should decode as absent")
	}
}

func TestOptional_AtLeast(t *testing.T) {
	tests := []struct {
		name string
		o    Optional
		min  float64
		want bool
	}{
		{"absent", Optional{}, 0, false},
		{"equal", Some(70), 70, true},
		{"below", Some(69.99), 70, false},
		{"above", Some(95), 70, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.o.AtLeast(tt.min); got != tt.want {
				t.Errorf("AtLeast(%v) = %v, want %v", tt.min, got, tt.want)
			}
		})
	}
}

func TestOptional_JSON(t *testing.T) {
	loc := Location{ID: 3, City: "Lakeside", CostHousing: Some(1250.5)}

	data, err := json.Marshal(loc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded Location
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.CostHousing != Some(1250.5) {
		t.Errorf("CostHousing = %+v, want 1250.5", decoded.CostHousing)
	}
	if decoded.CostFood.Valid {
		t.Error("CostFood should decode as absent from null")
	}
	if decoded.CostFood.Arg() != nil {
		t.Error("Arg of absent field should be nil")
	}
}

func TestLocation_GetSetRoundTrip(t *testing.T) {
	fields := append(append(append([]Field{}, ScalingFields...), QualityFields...), FieldAffordabilityScore)

	var loc Location
	for i, f := range fields {
		loc.Set(f, Some(float64(i+1)))
	}
	for i, f := range fields {
		if got := loc.Get(f); got != Some(float64(i+1)) {
			t.Errorf("Get(%s) = %+v, want %d", f, got, i+1)
		}
	}

	if loc.Get(Field("bogus")).Valid {
		t.Error("unknown field should be absent")
	}
}

func TestAnyPresent(t *testing.T) {
	locs := []Location{{ID: 1}, {ID: 2, SafetyScore: Some(80)}}

	if !AnyPresent(locs, FieldSafetyScore) {
		t.Error("AnyPresent(safety_score) = false, want true")
	}
	if AnyPresent(locs, FieldTrafficScore) {
		t.Error("AnyPresent(traffic_score) = true, want false")
	}

	col := Column(locs, FieldSafetyScore)
	if len(col) != 2 || col[0].Valid || !col[1].Valid {
		t.Errorf("Column() = %+v", col)
	}
}
