// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package query provides SQL query building utilities for the database package.
//
// WhereBuilder assembles parameterized WHERE clauses. Groups of alternatives
// are built in a second builder and attached with AddAny:
//
//	any := query.NewWhereBuilder().
//	    AddClause("list_has_any(string_split(genres, ','), string_split(?, ','))", "Fantasy").
//	    AddIn("author", []string{"Le Guin"})
//
//	wb := query.NewWhereBuilder().AddAny(any).AddMin("rating", &min)
//	whereClause, args := wb.Build()
//	// (list_has_any(...) OR author IN (?)) AND rating >= ?
//
// Values are always bound as arguments; column names must be constants.
package query
