// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package models

// Field names a numeric Location attribute. The values match the
// column names used by the stores.
type Field string

// Cost fields.
const (
	FieldCostHousing        Field = "cost_housing"
	FieldCostFood           Field = "cost_food"
	FieldCostTransportation Field = "cost_transportation"
	FieldCostHealthcare     Field = "cost_healthcare"
	FieldCostUtilities      Field = "cost_utilities"
)

// Quality fields.
const (
	FieldSafetyScore        Field = "safety_score"
	FieldEducationScore     Field = "education_score"
	FieldHealthcareScore    Field = "healthcare_score"
	FieldEnvironmentScore   Field = "environment_score"
	FieldWalkabilityScore   Field = "walkability_score"
	FieldPublicTransitScore Field = "public_transit_score"
	FieldTrafficScore       Field = "traffic_score"
)

// Economic and derived fields.
const (
	FieldMedianIncome       Field = "median_income"
	FieldUnemploymentRate   Field = "unemployment_rate"
	FieldJobGrowthRate      Field = "job_growth_rate"
	FieldAffordabilityScore Field = "affordability_score"
)

// CostFields are the five cost attributes the affordability score is built from.
var CostFields = []Field{
	FieldCostHousing,
	FieldCostFood,
	FieldCostTransportation,
	FieldCostHealthcare,
	FieldCostUtilities,
}

// ScalingFields are imputed and standardized by the preprocessor.
var ScalingFields = []Field{
	FieldCostHousing,
	FieldCostFood,
	FieldCostTransportation,
	FieldCostHealthcare,
	FieldCostUtilities,
	FieldMedianIncome,
	FieldUnemploymentRate,
	FieldJobGrowthRate,
}

// QualityFields are the 0-100 quality-of-life scores.
var QualityFields = []Field{
	FieldSafetyScore,
	FieldEducationScore,
	FieldHealthcareScore,
	FieldEnvironmentScore,
	FieldWalkabilityScore,
	FieldPublicTransitScore,
	FieldTrafficScore,
}

// ClusterFields are the features segmentation groups locations by.
var ClusterFields = []Field{
	FieldAffordabilityScore,
	FieldSafetyScore,
	FieldEducationScore,
	FieldHealthcareScore,
	FieldWalkabilityScore,
	FieldPublicTransitScore,
}

// Location is one candidate place to live.
//
// Numeric attributes are Optional because source rows routinely omit
// them; the preprocessor imputes the gaps per batch.
type Location struct {
	ID      int64  `json:"id"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`

	CostHousing        Optional `json:"cost_housing"`
	CostFood           Optional `json:"cost_food"`
	CostTransportation Optional `json:"cost_transportation"`
	CostHealthcare     Optional `json:"cost_healthcare"`
	CostUtilities      Optional `json:"cost_utilities"`

	SafetyScore        Optional `json:"safety_score"`
	EducationScore     Optional `json:"education_score"`
	HealthcareScore    Optional `json:"healthcare_score"`
	EnvironmentScore   Optional `json:"environment_score"`
	WalkabilityScore   Optional `json:"walkability_score"`
	PublicTransitScore Optional `json:"public_transit_score"`
	TrafficScore       Optional `json:"traffic_score"`

	MedianIncome     Optional `json:"median_income"`
	UnemploymentRate Optional `json:"unemployment_rate"`
	JobGrowthRate    Optional `json:"job_growth_rate"`

	AffordabilityScore Optional `json:"affordability_score"`
}

// Get returns the named numeric attribute. Unknown names are absent.
//
//nolint:gocyclo // flat field switch
func (l *Location) Get(f Field) Optional {
	switch f {
	case FieldCostHousing:
		return l.CostHousing
	case FieldCostFood:
		return l.CostFood
	case FieldCostTransportation:
		return l.CostTransportation
	case FieldCostHealthcare:
		return l.CostHealthcare
	case FieldCostUtilities:
		return l.CostUtilities
	case FieldSafetyScore:
		return l.SafetyScore
	case FieldEducationScore:
		return l.EducationScore
	case FieldHealthcareScore:
		return l.HealthcareScore
	case FieldEnvironmentScore:
		return l.EnvironmentScore
	case FieldWalkabilityScore:
		return l.WalkabilityScore
	case FieldPublicTransitScore:
		return l.PublicTransitScore
	case FieldTrafficScore:
		return l.TrafficScore
	case FieldMedianIncome:
		return l.MedianIncome
	case FieldUnemploymentRate:
		return l.UnemploymentRate
	case FieldJobGrowthRate:
		return l.JobGrowthRate
	case FieldAffordabilityScore:
		return l.AffordabilityScore
	default:
		return Optional{}
	}
}

// Set assigns the named numeric attribute. Unknown names are ignored.
//
//nolint:gocyclo // flat field switch
func (l *Location) Set(f Field, v Optional) {
	switch f {
	case FieldCostHousing:
		l.CostHousing = v
	case FieldCostFood:
		l.CostFood = v
	case FieldCostTransportation:
		l.CostTransportation = v
	case FieldCostHealthcare:
		l.CostHealthcare = v
	case FieldCostUtilities:
		l.CostUtilities = v
	case FieldSafetyScore:
		l.SafetyScore = v
	case FieldEducationScore:
		l.EducationScore = v
	case FieldHealthcareScore:
		l.HealthcareScore = v
	case FieldEnvironmentScore:
		l.EnvironmentScore = v
	case FieldWalkabilityScore:
		l.WalkabilityScore = v
	case FieldPublicTransitScore:
		l.PublicTransitScore = v
	case FieldTrafficScore:
		l.TrafficScore = v
	case FieldMedianIncome:
		l.MedianIncome = v
	case FieldUnemploymentRate:
		l.UnemploymentRate = v
	case FieldJobGrowthRate:
		l.JobGrowthRate = v
	case FieldAffordabilityScore:
		l.AffordabilityScore = v
	}
}

// Column returns every value of f across locs.
func Column(locs []Location, f Field) []Optional {
	out := make([]Optional, len(locs))
	for i := range locs {
		out[i] = locs[i].Get(f)
	}
	return out
}

// AnyPresent reports whether at least one location carries f.
func AnyPresent(locs []Location, f Field) bool {
	for i := range locs {
		if locs[i].Get(f).Valid {
			return true
		}
	}
	return false
}
