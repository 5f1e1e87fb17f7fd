// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package features turns raw location records into a numeric feature table.
//
// Preprocessing runs per batch: medians and the standard scaler are fitted on
// the batch being processed, never reused from an unrelated batch. The
// categorical encoders can be fitted from the batch or supplied by a trained
// model so that prediction uses the same one-hot columns the model saw.
package features

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/thrive/internal/models"
)

// Categorical attributes that are one-hot encoded.
const (
	CategoryState   = "state"
	CategoryCountry = "country"
)

// Table is a preprocessed batch. Rows are aligned with IDs and every row has
// len(Columns) values.
type Table struct {
	IDs     []int64
	Columns []string
	Rows    [][]float64

	// Medians holds the imputation value used for each numeric field.
	Medians map[models.Field]float64

	// MissingColumns lists numeric fields with no value in any row.
	MissingColumns []models.Field

	// Scaler is the scaler fitted on this batch's scaling fields.
	Scaler Scaler

	// Encoders are the categorical encoders the table was built with.
	Encoders []Encoder
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// IsMissing reports whether the named column was absent from the whole batch.
func (t *Table) IsMissing(column string) bool {
	for _, f := range t.MissingColumns {
		if string(f) == column {
			return true
		}
	}
	return false
}

// Preprocessor builds feature tables from location batches.
// It holds no per-batch state and is safe for concurrent use.
type Preprocessor struct {
	logger zerolog.Logger
}

// NewPreprocessor creates a preprocessor.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPreprocessor(logger zerolog.Logger) *Preprocessor {
	return &Preprocessor{
		logger: logger.With().Str("component", "features").Logger(),
	}
}

// FitEncoders learns the state and country encoders from a batch.
func FitEncoders(locs []models.Location) []Encoder {
	states := make([]string, len(locs))
	countries := make([]string, len(locs))
	for i := range locs {
		states[i] = locs[i].State
		countries[i] = locs[i].Country
	}
	return []Encoder{
		FitEncoder(CategoryState, states),
		FitEncoder(CategoryCountry, countries),
	}
}

// Process preprocesses a batch, fitting the encoders from the batch itself.
func (p *Preprocessor) Process(locs []models.Location) *Table {
	return p.Transform(locs, FitEncoders(locs))
}

// Transform preprocesses a batch using the given categorical encoders.
//
// Column layout: the eight scaling fields (median-imputed then
// standardized), the quality fields (median-imputed, unscaled), then one
// one-hot block per encoder. An empty batch yields an empty table.
func (p *Preprocessor) Transform(locs []models.Location, encoders []Encoder) *Table {
	t := &Table{
		Medians:  make(map[models.Field]float64),
		Encoders: encoders,
	}

	numeric := make([]models.Field, 0, len(models.ScalingFields)+len(models.QualityFields))
	numeric = append(numeric, models.ScalingFields...)
	numeric = append(numeric, models.QualityFields...)

	for _, f := range numeric {
		t.Columns = append(t.Columns, string(f))
	}
	for _, enc := range encoders {
		t.Columns = append(t.Columns, enc.Columns()...)
	}

	if len(locs) == 0 {
		return t
	}

	cols := make([][]float64, len(numeric))
	imputedTotal := 0
	for j, f := range numeric {
		filled, median, imputed, ok := ImputeMedian(models.Column(locs, f))
		if !ok {
			t.MissingColumns = append(t.MissingColumns, f)
		}
		t.Medians[f] = median
		cols[j] = filled
		imputedTotal += imputed
	}

	scaleRows := make([][]float64, len(locs))
	for i := range locs {
		row := make([]float64, len(models.ScalingFields))
		for j := range models.ScalingFields {
			row[j] = cols[j][i]
		}
		scaleRows[i] = row
	}
	t.Scaler = FitScaler(scaleRows)

	t.IDs = make([]int64, len(locs))
	t.Rows = make([][]float64, len(locs))
	for i := range locs {
		row := make([]float64, 0, len(t.Columns))
		row = append(row, t.Scaler.Transform(scaleRows[i])...)
		for j := len(models.ScalingFields); j < len(numeric); j++ {
			row = append(row, cols[j][i])
		}
		for _, enc := range encoders {
			row = append(row, enc.Encode(categoryValue(&locs[i], enc.Name))...)
		}
		t.IDs[i] = locs[i].ID
		t.Rows[i] = row
	}

	p.logger.Debug().
		Int("rows", len(t.Rows)).
		Int("columns", len(t.Columns)).
		Int("imputed", imputedTotal).
		Int("missing_columns", len(t.MissingColumns)).
		Msg("preprocessed location batch")

	return t
}

// categoryValue returns the categorical attribute an encoder is named after.
func categoryValue(loc *models.Location, name string) string {
	switch name {
	case CategoryState:
		return loc.State
	case CategoryCountry:
		return loc.Country
	default:
		return ""
	}
}
