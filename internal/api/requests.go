// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

// RecordInteractionRequest is the body of POST /interactions.
type RecordInteractionRequest struct {
	UserID     string `json:"userId" validate:"required,entityid"`
	BookID     string `json:"bookId" validate:"required,entityid"`
	Kind       string `json:"interactionType" validate:"required,interactionkind"`
	Rating     *int   `json:"ratingValue,omitempty" validate:"omitempty,min=1,max=5"`
	TimeOnPage *int   `json:"timeOnPage,omitempty" validate:"required_if=Kind view,omitempty,gte=0"`
	SessionID  string `json:"sessionId" validate:"required,max=128"`
}

// PageQuery is the pagination of history and catalog listings.
type PageQuery struct {
	Page  int `query:"page" validate:"gte=1"`
	Limit int `query:"limit" validate:"gte=1"`
}

// LimitQuery bounds list endpoints. Zero selects the server default.
type LimitQuery struct {
	Limit int `query:"limit" validate:"gte=0"`
}

// BooksQuery filters GET /books.
type BooksQuery struct {
	PageQuery
	Genres    []string `query:"genres" validate:"dive,max=64"`
	Authors   []string `query:"authors" validate:"dive,max=256"`
	MinRating *float64 `query:"minRating" validate:"omitempty,gte=0,lte=5"`
	MaxRating *float64 `query:"maxRating" validate:"omitempty,gte=0,lte=5"`
}

// StatsQuery scopes GET /interactions/stats. Both ids are optional.
type StatsQuery struct {
	UserID string `query:"userId" validate:"omitempty,entityid"`
	BookID string `query:"bookId" validate:"omitempty,entityid"`
}
