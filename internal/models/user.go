// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package models

import "time"

// Preferences are the tastes a user declared explicitly.
type Preferences struct {
	FavoriteGenres  []string `json:"favorite_genres"`
	FavoriteAuthors []string `json:"favorite_authors"`
	ExcludedGenres  []string `json:"excluded_genres,omitempty"`
}

// Empty reports whether no favorite genre or author is declared.
func (p Preferences) Empty() bool {
	return len(p.FavoriteGenres) == 0 && len(p.FavoriteAuthors) == 0
}

// User is an account as seen by the engine.
type User struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email,omitempty"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
}
