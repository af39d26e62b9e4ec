// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package models

import "time"

// InteractionKind classifies a user-book interaction.
type InteractionKind string

const (
	// KindView records a visit to a book page. TimeOnPage is required.
	KindView InteractionKind = "view"
	// KindRating records a 1-5 rating. RatingValue is required.
	KindRating InteractionKind = "rating"
	// KindWishlist records a book added to the user's wishlist.
	KindWishlist InteractionKind = "wishlist"
)

// Valid reports whether k is a known interaction kind.
func (k InteractionKind) Valid() bool {
	switch k {
	case KindView, KindRating, KindWishlist:
		return true
	default:
		return false
	}
}

// Collaborative reports whether k counts toward user-user similarity.
func (k InteractionKind) Collaborative() bool {
	return k == KindView || k == KindRating
}

// Interaction is an append-only user-book event.
type Interaction struct {
	ID     string          `json:"id"`
	UserID string          `json:"user_id"`
	BookID string          `json:"book_id"`
	Kind   InteractionKind `json:"kind"`

	// RatingValue is set iff Kind is KindRating, in [1,5].
	RatingValue *int `json:"rating_value,omitempty"`

	// TimeOnPage is set iff Kind is KindView, in seconds.
	TimeOnPage *int `json:"time_on_page,omitempty"`

	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// InteractionStats aggregates interaction counts for a user, a book or the
// whole log.
type InteractionStats struct {
	TotalViews        int     `json:"total_views"`
	TotalRatings      int     `json:"total_ratings"`
	TotalWishlists    int     `json:"total_wishlists"`
	TotalInteractions int     `json:"total_interactions"`
	AverageRating     float64 `json:"average_rating"`
}

// ActiveUser is a user ranked by interaction volume.
type ActiveUser struct {
	User             User      `json:"user"`
	InteractionCount int       `json:"interaction_count"`
	LastActivity     time.Time `json:"last_activity"`
}

// InteractionPage is one page of an interaction history, newest first.
type InteractionPage struct {
	Interactions []Interaction `json:"interactions"`
	Pagination   Pagination    `json:"pagination"`
}
