// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package models

import (
	"math"
	"time"
)

// Book is a catalog entry.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genres        []string  `json:"genres"`
	Description   string    `json:"description,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	PublishedYear int       `json:"published_year,omitempty"`
	CoverImage    string    `json:"cover_image,omitempty"`
	Rating        float64   `json:"rating"`
	RatingCount   int       `json:"rating_count"`
	ViewCount     int       `json:"view_count"`
	WishlistCount int       `json:"wishlist_count"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// SortOrder selects the ordering of a catalog query.
type SortOrder int

const (
	// SortByRating orders by rating desc, then views desc.
	SortByRating SortOrder = iota
	// SortByPopularity orders by rating desc, views desc, then rating count desc.
	SortByPopularity
)

// BookFilter narrows a catalog query.
type BookFilter struct {
	// IDs restricts the result to the given book IDs. Order is not preserved.
	IDs []string

	Genres  []string
	Authors []string

	// MatchAny combines Genres and Authors with OR instead of AND.
	MatchAny bool

	MinRating *float64
	MaxRating *float64

	Sort   SortOrder
	Limit  int // 0 means unbounded
	Offset int
}

// MetricsDelta is the catalog update that follows a recorded interaction.
type MetricsDelta struct {
	Views     int
	Wishlists int

	// Rating, when set, is folded into the running average.
	Rating *int
}

// Empty reports whether the delta changes nothing.
func (d MetricsDelta) Empty() bool {
	return d.Views == 0 && d.Wishlists == 0 && d.Rating == nil
}

// DeltaFor returns the metric update implied by an interaction.
func DeltaFor(in *Interaction) MetricsDelta {
	switch in.Kind {
	case KindView:
		return MetricsDelta{Views: 1}
	case KindRating:
		if in.RatingValue == nil {
			return MetricsDelta{}
		}
		v := *in.RatingValue
		return MetricsDelta{Rating: &v}
	case KindWishlist:
		return MetricsDelta{Wishlists: 1}
	default:
		return MetricsDelta{}
	}
}

// NextAverage folds value into a running average of count ratings and
// rounds the result to one decimal.
func NextAverage(avg float64, count, value int) (float64, int) {
	n := count + 1
	next := (avg*float64(count) + float64(value)) / float64(n)
	return math.Round(next*10) / 10, n
}
