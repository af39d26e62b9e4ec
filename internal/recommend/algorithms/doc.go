// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package algorithms implements the candidate sources of the recommendation
// engine.
//
// # Sources
//
//   - Similarity: weighted content similarity between two books
//   - Collaborative: Jaccard neighbourhoods and neighbour rating aggregation
//   - Preference: matching a user's favorite genres and authors
//   - Popularity: highly rated books, shuffled for variety, plus the cold
//     start fallback
//
// The algorithms do no I/O. The engine loads books and interactions and
// passes them in; every function here is a pure transformation apart from
// the popularity shuffle.
//
// # Content Similarity
//
//	sim(a, b) = 0.40 * [same author]
//	          + 0.35 * |genres(a) ∩ genres(b)| / max(|genres(a)|, |genres(b)|)
//	          + 0.15 * max(0, 1 - |rating(a) - rating(b)| / 5)
//	          + 0.10 * max(0, 1 - |norm(views(a)) - norm(views(b))|)
//
// where norm(v) = log(v+1) / log(1000). norm exceeds 1 past 999 views, so the
// popularity term is floored at zero. The result is clamped to [0, 1].
//
// # Thread Safety
//
// All types are safe for concurrent use.
package algorithms

// base provides the name shared by all algorithms.
type base struct {
	name string
}

// Name returns the algorithm identifier.
func (b *base) Name() string {
	return b.name
}

// Score constants for sources whose score does not depend on the book.
const (
	// PreferenceScore is assigned to books matching stated preferences.
	PreferenceScore = 0.90

	// ColdStartScore is assigned to fallback books for users without history.
	ColdStartScore = 0.80

	// PopularityScore is assigned to shuffled popular books.
	PopularityScore = 0.70
)

// Reason texts.
const (
	ReasonSameAuthor    = "same author"
	ReasonSimilarRating = "similar rating"
	ReasonSimilarUsers  = "users with similar taste rated this highly"
	ReasonPreference    = "matches stated preferences"
	ReasonPopular       = "popular and highly rated"
	ReasonColdStart     = "popular across all users"
	ReasonSimilar       = "similar content"
)
