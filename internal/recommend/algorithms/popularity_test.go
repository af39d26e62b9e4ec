// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package algorithms

import (
	"testing"

	"github.com/tomtom215/shelfwise/internal/models"
)

func popularBooks(n int) []models.Book {
	books := make([]models.Book, n)
	for i := range books {
		books[i] = models.Book{ID: string(rune('a' + i)), Rating: 5 - float64(i)*0.1}
	}
	return books
}

func TestPopularityPick(t *testing.T) {
	t.Parallel()

	books := popularBooks(8)
	p := NewPopularity(42)

	got := p.Pick(books, 4)
	if len(got) != 4 {
		t.Fatalf("Pick() returned %d, want 4", len(got))
	}

	inPool := make(map[string]bool, len(books))
	for _, b := range books {
		inPool[b.ID] = true
	}
	seen := make(map[string]bool)
	for _, c := range got {
		if !inPool[c.Book.ID] {
			t.Errorf("Pick() returned %s, not in pool", c.Book.ID)
		}
		if seen[c.Book.ID] {
			t.Errorf("Pick() returned %s twice", c.Book.ID)
		}
		seen[c.Book.ID] = true
		if c.Score != PopularityScore || c.Source != models.SourcePopularity || c.Tag != models.TagPopular {
			t.Errorf("candidate = %+v", c)
		}
	}

	if books[0].ID != "a" || books[7].ID != "h" {
		t.Error("Pick() reordered its input")
	}

	if got := p.Pick(books, 20); len(got) != len(books) {
		t.Errorf("Pick(20) returned %d, want %d", len(got), len(books))
	}
	if got := p.Pick(books, 0); got != nil {
		t.Errorf("Pick(0) = %+v, want nil", got)
	}
	if got := p.Pick(nil, 3); got != nil {
		t.Errorf("Pick(nil) = %+v, want nil", got)
	}
}

func TestPopularitySeeded(t *testing.T) {
	t.Parallel()

	books := popularBooks(10)
	a := NewPopularity(7).Pick(books, 5)
	b := NewPopularity(7).Pick(books, 5)
	for i := range a {
		if a[i].Book.ID != b[i].Book.ID {
			t.Fatalf("same seed produced different picks: %s vs %s at %d", a[i].Book.ID, b[i].Book.ID, i)
		}
	}
}

func TestColdStart(t *testing.T) {
	t.Parallel()

	got := ColdStart(popularBooks(3))
	if len(got) != 3 || got[0].Book.ID != "a" || got[2].Book.ID != "c" {
		t.Fatalf("ColdStart() = %+v", got)
	}
	for _, c := range got {
		if c.Score != ColdStartScore || c.Reason != ReasonColdStart {
			t.Errorf("candidate = %+v", c)
		}
	}
	if got := ColdStart(nil); len(got) != 0 {
		t.Errorf("ColdStart(nil) = %+v", got)
	}
}
