// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package algorithms

import (
	"testing"

	"github.com/tomtom215/shelfwise/internal/models"
)

func TestPreferenceFilter(t *testing.T) {
	t.Parallel()

	p := NewPreference()

	tests := []struct {
		name   string
		prefs  models.Preferences
		limit  int
		wantOK bool
	}{
		{"no preferences", models.Preferences{}, 5, false},
		{"only exclusions", models.Preferences{ExcludedGenres: []string{"Horror"}}, 5, false},
		{"genres", models.Preferences{FavoriteGenres: []string{"Fantasy"}}, 5, true},
		{"authors", models.Preferences{FavoriteAuthors: []string{"Le Guin"}}, 5, true},
		{"zero limit", models.Preferences{FavoriteGenres: []string{"Fantasy"}}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			filter, ok := p.Filter(tt.prefs, tt.limit)
			if ok != tt.wantOK {
				t.Fatalf("Filter() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !filter.MatchAny || filter.Limit != tt.limit || filter.Sort != models.SortByRating {
				t.Errorf("Filter() = %+v", filter)
			}
		})
	}
}

func TestPreferenceCandidates(t *testing.T) {
	t.Parallel()

	got := NewPreference().Candidates([]models.Book{{ID: "a"}, {ID: "b"}})
	if len(got) != 2 || got[0].Book.ID != "a" {
		t.Fatalf("Candidates() = %+v", got)
	}
	for _, c := range got {
		if c.Score != PreferenceScore || c.Reason != ReasonPreference || c.Source != models.SourcePreference {
			t.Errorf("candidate = %+v", c)
		}
	}
}
