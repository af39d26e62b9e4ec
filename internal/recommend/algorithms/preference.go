// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package algorithms

import "github.com/tomtom215/shelfwise/internal/models"

// Preference matches books against a user's favorite genres and authors.
type Preference struct {
	base
}

// NewPreference creates a preference matcher.
func NewPreference() *Preference {
	return &Preference{base: base{name: "preference"}}
}

// Filter returns the catalog query for prefs. ok is false when the user
// declared no favorites, in which case no query should be issued.
func (p *Preference) Filter(prefs models.Preferences, limit int) (filter models.BookFilter, ok bool) {
	if prefs.Empty() || limit <= 0 {
		return models.BookFilter{}, false
	}
	return models.BookFilter{
		Genres:   prefs.FavoriteGenres,
		Authors:  prefs.FavoriteAuthors,
		MatchAny: true,
		Sort:     models.SortByRating,
		Limit:    limit,
	}, true
}

// Candidates wraps matched books.
//
//nolint:gocritic // rangeValCopy: books are copied into candidates anyway
func (p *Preference) Candidates(books []models.Book) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(books))
	for _, b := range books {
		candidates = append(candidates, models.Candidate{
			Book:   b,
			Score:  PreferenceScore,
			Reason: ReasonPreference,
			Tag:    models.TagPreference,
			Source: models.SourcePreference,
		})
	}
	return candidates
}
