// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package query

import (
	"testing"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}
	if wb.Count() != 0 {
		t.Errorf("Expected count 0, got %d", wb.Count())
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddIn(t *testing.T) {
	wb := NewWhereBuilder().AddIn("author", []string{"a", "b", "c"})

	whereClause, args := wb.Build()
	if want := "author IN (?, ?, ?)"; whereClause != want {
		t.Errorf("Build() = %q, want %q", whereClause, want)
	}
	if len(args) != 3 || args[2] != "c" {
		t.Errorf("args = %v", args)
	}

	if !NewWhereBuilder().AddIn("author", nil).IsEmpty() {
		t.Error("AddIn(nil) should be skipped")
	}
}

func TestWhereBuilder_Ranges(t *testing.T) {
	lo, hi := 3.5, 4.5

	tests := []struct {
		name     string
		min, max *float64
		want     string
		wantArgs int
	}{
		{"both", &lo, &hi, "rating >= ? AND rating <= ?", 2},
		{"min only", &lo, nil, "rating >= ?", 1},
		{"max only", nil, &hi, "rating <= ?", 1},
		{"neither", nil, nil, "1=1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, args := NewWhereBuilder().AddMin("rating", tt.min).AddMax("rating", tt.max).Build()
			if got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestWhereBuilder_AddAny(t *testing.T) {
	group := NewWhereBuilder().
		AddClause("genre = ?", "Fantasy").
		AddIn("author", []string{"Le Guin"})

	wb := NewWhereBuilder().AddEquals("id", "b1").AddAny(group)

	whereClause, args := wb.Build()
	if want := "id = ? AND (genre = ? OR author IN (?))"; whereClause != want {
		t.Errorf("Build() = %q, want %q", whereClause, want)
	}
	if len(args) != 3 || args[0] != "b1" || args[1] != "Fantasy" || args[2] != "Le Guin" {
		t.Errorf("args = %v", args)
	}

	single := NewWhereBuilder().AddAny(NewWhereBuilder().AddEquals("kind", "view"))
	if got, _ := single.Build(); got != "kind = ?" {
		t.Errorf("single-clause group = %q, want no parentheses", got)
	}

	if !NewWhereBuilder().AddAny(NewWhereBuilder()).IsEmpty() {
		t.Error("AddAny(empty) should be skipped")
	}
}

func TestWhereBuilder_BuildWithPrefix(t *testing.T) {
	got, _ := NewWhereBuilder().AddEquals("user_id", "u1").AddEquals("book_id", "").BuildWithPrefix()
	if want := "WHERE user_id = ?"; got != want {
		t.Errorf("BuildWithPrefix() = %q, want %q", got, want)
	}
}
