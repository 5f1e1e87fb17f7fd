// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package synthetic

import (
	"testing"

	"github.com/tomtom215/thrive/internal/models"
	"github.com/tomtom215/thrive/internal/validation"
)

func TestLocations_RangesAndIdentity(t *testing.T) {
	locs := New(42).Locations(DefaultLocations)
	if len(locs) != DefaultLocations {
		t.Fatalf("len = %d, want %d", len(locs), DefaultLocations)
	}

	ranges := map[models.Field][2]float64{
		models.FieldCostHousing:        {800, 3000},
		models.FieldCostFood:           {300, 600},
		models.FieldSafetyScore:        {50, 95},
		models.FieldPublicTransitScore: {20, 95},
		models.FieldUnemploymentRate:   {2.5, 8},
		models.FieldAffordabilityScore: {40, 95},
	}

	for i := range locs {
		loc := &locs[i]
		if loc.ID != int64(i+1) {
			t.Errorf("locs[%d].ID = %d, want %d", i, loc.ID, i+1)
		}
		if loc.Country != "USA" || loc.City == "" || loc.State == "" {
			t.Errorf("locs[%d] identity = %q/%q/%q", i, loc.City, loc.State, loc.Country)
		}
		for f, r := range ranges {
			v, ok := loc.Get(f).Get()
			if !ok || v < r[0] || v > r[1] {
				t.Errorf("locs[%d].%s = %v (present %v), want in [%v, %v]", i, f, v, ok, r[0], r[1])
			}
		}
	}

	if locs[0].City != locs[10].City || locs[0].State != locs[10].State {
		t.Error("city and state should cycle every ten locations")
	}
}

func TestLocations_Deterministic(t *testing.T) {
	a := New(7).Locations(20)
	b := New(7).Locations(20)
	c := New(8).Locations(20)

	same, differ := true, false
	for i := range a {
		if a[i] != b[i] {
			same = false
		}
		if a[i].CostHousing != c[i].CostHousing {
			differ = true
		}
	}
	if !same {
		t.Error("same seed produced different locations")
	}
	if !differ {
		t.Error("different seeds produced identical housing costs")
	}
}

func TestUsers_LabelsAndValidity(t *testing.T) {
	profiles, labels := New(42).Users(5, DefaultUsersPerCluster)
	if len(profiles) != 50 || len(labels) != 50 {
		t.Fatalf("got %d profiles / %d labels, want 50/50", len(profiles), len(labels))
	}

	counts := make(map[int]int)
	for i, p := range profiles {
		counts[labels[i]]++
		if p.Income < 40000 || p.Income > 120000 {
			t.Errorf("profiles[%d].Income = %v out of range", i, p.Income)
		}
		if err := validation.ValidateStruct(p); err != nil {
			t.Errorf("profiles[%d] invalid: %v", i, err)
		}
	}
	for c := 0; c < 5; c++ {
		if counts[c] != DefaultUsersPerCluster {
			t.Errorf("cluster %d has %d users, want %d", c, counts[c], DefaultUsersPerCluster)
		}
	}
}
