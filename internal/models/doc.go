// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

/*
Package models defines the data structures shared by the scorers, the
engine and the stores.

Key Components:

  - Location: one city or region with its cost, quality, economic and
    transportation attributes. Every numeric attribute is an Optional.
  - Optional: a float64 that may be absent. It scans SQL NULL, marshals to
    JSON null and binds as a nil argument.
  - Field: the stable name of a Location attribute. CostFields,
    ScalingFields, QualityFields and ClusterFields group them the way the
    scorers consume them.
  - UserProfile: one household's income, savings, size and preferences,
    with validator tags checked by the validation package.
  - Recommendation: one persisted (user, location) score pair.

Missing Values:

A missing attribute is never a zero. Scorers ask for a column with Column,
test batch coverage with AnyPresent, and decide per use whether to drop the
factor, impute the batch median, or apply a neutral default.

	loc := models.Location{ID: 1, City: "Austin", State: "TX"}
	loc.Set(models.FieldCostHousing, models.Some(1850))

	if v, ok := loc.Get(models.FieldCostFood).Get(); ok {
	    fmt.Println("food cost", v)
	}

Thread Safety:

Models are plain values with no internal synchronization. Batches passed to
the engine are read-only once handed over.
*/
package models
