// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package query

import (
	"fmt"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddIn("author", []string{"Le Guin", "Herbert"})
//	wb.AddMin("rating", &minRating)
//	whereClause, args := wb.Build()
//	// author IN (?, ?) AND rating >= ?
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

// AddClause adds a raw WHERE clause with its arguments.
//
// Parameters:
//   - clause: SQL condition fragment (e.g., "kind = ?")
//   - args: Arguments to bind to placeholders in the clause
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?" unless value is empty.
func (wb *WhereBuilder) AddEquals(column, value string) *WhereBuilder {
	if value != "" {
		wb.AddClause(column+" = ?", value)
	}
	return wb
}

// AddIn adds "column IN (?, ?, ...)". An empty slice is skipped.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if clause, args := In(column, values); clause != "" {
		wb.AddClause(clause, args...)
	}
	return wb
}

// AddMin adds "column >= ?" when value is non-nil.
func (wb *WhereBuilder) AddMin(column string, value *float64) *WhereBuilder {
	if value != nil {
		wb.AddClause(column+" >= ?", *value)
	}
	return wb
}

// AddMax adds "column <= ?" when value is non-nil.
func (wb *WhereBuilder) AddMax(column string, value *float64) *WhereBuilder {
	if value != nil {
		wb.AddClause(column+" <= ?", *value)
	}
	return wb
}

// AddAny adds the clauses of other as one parenthesized OR group. An empty
// builder is skipped.
func (wb *WhereBuilder) AddAny(other *WhereBuilder) *WhereBuilder {
	if other == nil || other.IsEmpty() {
		return wb
	}
	if len(other.clauses) == 1 {
		return wb.AddClause(other.clauses[0], other.args...)
	}
	return wb.AddClause("("+strings.Join(other.clauses, " OR ")+")", other.args...)
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
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

// In returns "column IN (?, ...)" and its arguments, or "" for no values.
func In(column string, values []string) (string, []interface{}) {
	if len(values) == 0 {
		return "", nil
	}
	placeholders := make([]string, len(values))
	args := make([]interface{}, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
}
