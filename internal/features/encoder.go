// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package features

import "sort"

// Encoder one-hot encodes a single categorical attribute.
// Categories are kept sorted so column order is stable across runs.
type Encoder struct {
	Name       string
	Categories []string
}

// FitEncoder learns the distinct non-empty values of a categorical column.
func FitEncoder(name string, values []string) Encoder {
	seen := make(map[string]struct{}, len(values))
	cats := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		cats = append(cats, v)
	}
	sort.Strings(cats)

	return Encoder{Name: name, Categories: cats}
}

// Columns returns the output column names, "<name>_<category>".
func (e Encoder) Columns() []string {
	cols := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		cols[i] = e.Name + "_" + c
	}
	return cols
}

// Encode returns the one-hot vector for value.
// Categories not seen at fit time encode as all zeros.
func (e Encoder) Encode(value string) []float64 {
	out := make([]float64, len(e.Categories))
	idx := sort.SearchStrings(e.Categories, value)
	if idx < len(e.Categories) && e.Categories[idx] == value {
		out[idx] = 1
	}
	return out
}
