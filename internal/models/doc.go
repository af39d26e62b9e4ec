// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package models defines the data structures shared by Shelfwise packages.

Domain records:

  - Book: catalog entry with the rating and view metrics used for scoring
  - User: account with declared Preferences
  - Interaction: append-only view, rating or wishlist event

Recommendation records:

  - Candidate: transient scored recommendation tagged with its Source
  - CacheEntry: precomputed ranked list with an expiry time

API records:

  - APIResponse, APIError, Metadata: the envelope of every HTTP response
  - Pagination: page metadata for list endpoints

The package has no dependencies on other internal packages.
*/
package models
