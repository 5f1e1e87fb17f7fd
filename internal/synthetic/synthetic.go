// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package synthetic generates seeded demonstration data.
//
// Locations stand in for a store with too few rows to train on. Users are
// labeled with a cluster and train the recommendation classifier. The same
// seed always produces the same data.
package synthetic

import (
	"math/rand"

	"github.com/tomtom215/thrive/internal/models"
)

// DefaultLocations is the batch size used when the store is too small to train on.
const DefaultLocations = 50

// DefaultUsersPerCluster is how many labeled users each cluster gets.
const DefaultUsersPerCluster = 10

var cities = []string{
	"Springfield", "Riverside", "Oakwood", "Maplewood", "Cedar Creek",
	"Pine Valley", "Lakeside", "Mountain View", "Greenfield", "Fairview",
}

var states = []string{"CA", "TX", "NY", "FL", "IL", "PA", "OH", "GA", "NC", "MI"}

// Generator produces deterministic synthetic records.
// It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // reproducible demo data
}

// Locations returns n locations with ids 1..n. City and state cycle through
// fixed lists; every numeric attribute is present.
func (g *Generator) Locations(n int) []models.Location {
	locs := make([]models.Location, n)
	for i := range locs {
		locs[i] = models.Location{
			ID:      int64(i + 1),
			City:    cities[i%len(cities)],
			State:   states[i%len(states)],
			Country: "USA",

			AffordabilityScore: models.Some(g.intIn(40, 95)),

			CostHousing:        models.Some(g.uniform(800, 3000)),
			CostFood:           models.Some(g.uniform(300, 600)),
			CostTransportation: models.Some(g.uniform(100, 400)),
			CostHealthcare:     models.Some(g.uniform(200, 500)),
			CostUtilities:      models.Some(g.uniform(100, 300)),

			SafetyScore:      models.Some(g.intIn(50, 95)),
			EducationScore:   models.Some(g.intIn(50, 95)),
			HealthcareScore:  models.Some(g.intIn(50, 95)),
			EnvironmentScore: models.Some(g.intIn(50, 95)),

			UnemploymentRate: models.Some(g.uniform(2.5, 8.0)),
			MedianIncome:     models.Some(g.uniform(40000, 100000)),
			JobGrowthRate:    models.Some(g.uniform(1.0, 5.0)),

			WalkabilityScore:   models.Some(g.intIn(30, 95)),
			PublicTransitScore: models.Some(g.intIn(20, 95)),
			TrafficScore:       models.Some(g.intIn(30, 95)),
		}
	}
	return locs
}

// Users returns perCluster profiles for each of clusters clusters, with the
// cluster each profile is labeled with. Preferences are drawn uniformly.
func (g *Generator) Users(clusters, perCluster int) ([]models.UserProfile, []int) {
	profiles := make([]models.UserProfile, 0, clusters*perCluster)
	labels := make([]int, 0, clusters*perCluster)
	for c := 0; c < clusters; c++ {
		for i := 0; i < perCluster; i++ {
			profiles = append(profiles, g.Profile())
			labels = append(labels, c)
		}
	}
	return profiles, labels
}

// Profile returns one random valid profile.
func (g *Generator) Profile() models.UserProfile {
	return models.UserProfile{
		Income:                   g.uniform(40000, 120000),
		Savings:                  g.uniform(0, 50000),
		HouseholdSize:            1 + g.rng.Intn(5),
		HousingBudgetPreference:  models.BudgetPreferences[g.rng.Intn(len(models.BudgetPreferences))],
		RequiresHealthcare:       g.rng.Intn(2) == 1,
		TransportationPreference: models.TransportPreferences[g.rng.Intn(len(models.TransportPreferences))],
		SafetyImportance:         models.SafetyLevels[g.rng.Intn(len(models.SafetyLevels))],
	}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// intIn returns a whole number in [lo, hi).
func (g *Generator) intIn(lo, hi int) float64 {
	return float64(lo + g.rng.Intn(hi-lo))
}
