// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package models

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestInteractionKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind          InteractionKind
		valid         bool
		collaborative bool
	}{
		{KindView, true, true},
		{KindRating, true, true},
		{KindWishlist, true, false},
		{InteractionKind("purchase"), false, false},
		{InteractionKind(""), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			if got := tt.kind.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if got := tt.kind.Collaborative(); got != tt.collaborative {
				t.Errorf("Collaborative() = %v, want %v", got, tt.collaborative)
			}
		})
	}
}

func TestDeltaFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Interaction
		want MetricsDelta
	}{
		{"view", Interaction{Kind: KindView, TimeOnPage: intPtr(30)}, MetricsDelta{Views: 1}},
		{"wishlist", Interaction{Kind: KindWishlist}, MetricsDelta{Wishlists: 1}},
		{"rating without value", Interaction{Kind: KindRating}, MetricsDelta{}},
		{"unknown", Interaction{Kind: "share"}, MetricsDelta{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DeltaFor(&tt.in)
			if got.Views != tt.want.Views || got.Wishlists != tt.want.Wishlists || got.Rating != nil {
				t.Errorf("DeltaFor() = %+v, want %+v", got, tt.want)
			}
		})
	}

	t.Run("rating", func(t *testing.T) {
		t.Parallel()
		got := DeltaFor(&Interaction{Kind: KindRating, RatingValue: intPtr(4)})
		if got.Rating == nil || *got.Rating != 4 {
			t.Fatalf("DeltaFor(rating).Rating = %v, want 4", got.Rating)
		}
		if got.Empty() {
			t.Error("rating delta reported Empty")
		}
	})
}

func TestNextAverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		avg       float64
		count     int
		value     int
		wantAvg   float64
		wantCount int
	}{
		{"first rating", 0, 0, 4, 4.0, 1},
		{"rounds to one decimal", 4.5, 2, 3, 4.0, 3},
		{"repeating decimal", 4.0, 2, 5, 4.3, 3},
		{"stays in range", 5.0, 10, 5, 5.0, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			avg, n := NextAverage(tt.avg, tt.count, tt.value)
			if avg != tt.wantAvg || n != tt.wantCount {
				t.Errorf("NextAverage(%v, %d, %d) = (%v, %d), want (%v, %d)",
					tt.avg, tt.count, tt.value, avg, n, tt.wantAvg, tt.wantCount)
			}
		})
	}
}

func TestCacheEntry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	candidates := []Candidate{
		{Book: Book{ID: "b1"}, Score: 0.9, Reason: "same author", Tag: TagSameAuthor},
		{Book: Book{ID: "b2"}, Score: 0.5, Reason: "similar rating", Tag: TagHighRating},
	}

	entry := NewCacheEntry(EntryContentBased, "b0", candidates, now, 24*time.Hour)

	if len(entry.Items) != 2 || entry.Items[0].BookID != "b1" || entry.Items[1].Tag != TagHighRating {
		t.Fatalf("Items = %+v", entry.Items)
	}
	if !entry.ExpiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("ExpiresAt = %v, want %v", entry.ExpiresAt, now.Add(24*time.Hour))
	}
	if entry.Expired(now.Add(23 * time.Hour)) {
		t.Error("entry expired before its TTL")
	}
	if !entry.Expired(now.Add(24 * time.Hour)) {
		t.Error("entry not expired at ExpiresAt")
	}
}

func TestEntryKind(t *testing.T) {
	t.Parallel()

	if !EntryContentBased.Valid() || !EntryCollaborative.Valid() || EntryKind("hybrid").Valid() {
		t.Error("EntryKind.Valid() mismatch")
	}
	if EntryCollaborative.Source() != SourceCollaborative {
		t.Errorf("EntryCollaborative.Source() = %q", EntryCollaborative.Source())
	}
	if EntryContentBased.Source() != SourceContentBased {
		t.Errorf("EntryContentBased.Source() = %q", EntryContentBased.Source())
	}
}

func TestPreferencesEmpty(t *testing.T) {
	t.Parallel()

	if !(Preferences{ExcludedGenres: []string{"Horror"}}).Empty() {
		t.Error("excluded genres alone should count as empty")
	}
	if (Preferences{FavoriteAuthors: []string{"Le Guin"}}).Empty() {
		t.Error("favorite author should not be empty")
	}
}

func TestNewPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, limit, total, wantPages int
	}{
		{1, 20, 0, 0},
		{1, 20, 20, 1},
		{2, 20, 21, 2},
		{1, 0, 5, 0},
	}
	for _, tt := range tests {
		if got := NewPagination(tt.page, tt.limit, tt.total); got.TotalPages != tt.wantPages {
			t.Errorf("NewPagination(%d, %d, %d).TotalPages = %d, want %d",
				tt.page, tt.limit, tt.total, got.TotalPages, tt.wantPages)
		}
	}
}
