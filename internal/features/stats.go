// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package features

import (
	"math"
	"sort"

	"github.com/tomtom215/thrive/internal/models"
)

// Median returns the median of values. Even-length input averages the two
// middle elements. The second return is false for empty input.
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// Present returns the valid entries of col.
func Present(col []models.Optional) []float64 {
	out := make([]float64, 0, len(col))
	for _, o := range col {
		if o.Valid {
			out = append(out, o.Value)
		}
	}
	return out
}

// ImputeMedian fills absent entries with the median of the present ones.
// It returns the filled column, the median used, how many entries were
// filled, and whether any entry was present at all. A column with no present
// entries is filled with zeros.
func ImputeMedian(col []models.Optional) (filled []float64, median float64, imputed int, ok bool) {
	median, ok = Median(Present(col))

	filled = make([]float64, len(col))
	for i, o := range col {
		if o.Valid {
			filled[i] = o.Value
			continue
		}
		filled[i] = median
		imputed++
	}
	return filled, median, imputed, ok
}

// Scaler standardizes columns to zero mean and unit variance.
// Std is the population standard deviation; zero-variance columns keep a
// scale of 1 so they transform to 0.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes per-column mean and standard deviation of rows.
func FitScaler(rows [][]float64) Scaler {
	if len(rows) == 0 {
		return Scaler{}
	}

	width := len(rows[0])
	s := Scaler{
		Mean: make([]float64, width),
		Std:  make([]float64, width),
	}

	n := float64(len(rows))
	for _, row := range rows {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}

	return s
}

// Transform returns a standardized copy of row.
func (s Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		if j >= len(s.Mean) {
			out[j] = v
			continue
		}
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}
