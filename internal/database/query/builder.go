// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package query

import (
	"fmt"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with positional ($n) arguments.
// Both DuckDB and PostgreSQL accept the $n form, so one builder serves both stores.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("user_id", 42)
//	wb.AddAtLeast("match_score", 60.0)
//	whereClause, args := wb.Build()
//	// user_id = $1 AND match_score >= $2
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// next returns the placeholder for the next argument.
func (wb *WhereBuilder) next() string {
	return fmt.Sprintf("$%d", len(wb.args)+1)
}

// AddEquals adds a "column = $n" condition.
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, column+" = "+wb.next())
	wb.args = append(wb.args, value)
	return wb
}

// AddAtLeast adds a "column >= $n" condition.
func (wb *WhereBuilder) AddAtLeast(column string, value interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, column+" >= "+wb.next())
	wb.args = append(wb.args, value)
	return wb
}

// AddIn adds a "column IN ($n, ...)" condition. An empty slice is skipped.
func (wb *WhereBuilder) AddIn(column string, values []interface{}) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = wb.next()
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return wb
}

// Build returns the WHERE clause (without "WHERE " prefix) and arguments.
// An empty builder yields "1=1" so it can always be interpolated.
//
// Example:
//
//	whereClause, args := wb.Build()
//	query := fmt.Sprintf("SELECT * FROM table WHERE %s", whereClause)
//	db.Query(query, args...)
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// placeholders returns "$1, $2, ..., $n".
func placeholders(n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(p, ", ")
}

// upsert builds an INSERT ... ON CONFLICT DO UPDATE statement that
// overwrites every non-key column with the incoming row.
func upsert(table string, columns, keys []string) string {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	sets := make([]string, 0, len(columns))
	for _, c := range columns {
		if !isKey[c] {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		table, strings.Join(columns, ", "), placeholders(len(columns)),
		strings.Join(keys, ", "), strings.Join(sets, ", "))
}
