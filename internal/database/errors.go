// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import "errors"

var (
	// ErrBookNotFound is returned by writes that target a missing book.
	// Reads return (nil, nil) instead.
	ErrBookNotFound = errors.New("book not found")

	// ErrInvalidGenre rejects empty genres and genres containing a comma.
	ErrInvalidGenre = errors.New("invalid genre")

	// ErrInvalidInteraction rejects interactions missing required fields.
	ErrInvalidInteraction = errors.New("invalid interaction")
)
