// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package models

import "time"

// Source identifies which component produced a candidate.
type Source string

const (
	SourceContentBased  Source = "content_based"
	SourceCollaborative Source = "collaborative"
	SourcePopularity    Source = "popularity"
	SourcePreference    Source = "preference"
)

// ReasonTag is the machine-readable counterpart of a human-readable reason.
type ReasonTag string

const (
	TagSameAuthor   ReasonTag = "same_author"
	TagSameGenre    ReasonTag = "same_genre"
	TagHighRating   ReasonTag = "high_rating"
	TagSimilarUsers ReasonTag = "similar_users"
	TagPopular      ReasonTag = "popular"
	TagPreference   ReasonTag = "preference"
	TagSimilar      ReasonTag = "similar_content"
)

// Candidate is a scored recommendation. It is never persisted except when
// folded into a CacheEntry.
type Candidate struct {
	Book   Book      `json:"book"`
	Score  float64   `json:"score"`
	Reason string    `json:"reason"`
	Tag    ReasonTag `json:"tag"`
	Source Source    `json:"type"`
}

// EntryKind is the kind of a cached recommendation list.
type EntryKind string

const (
	// EntryContentBased lists are keyed by book ID.
	EntryContentBased EntryKind = "content_based"
	// EntryCollaborative lists are keyed by user ID.
	EntryCollaborative EntryKind = "collaborative"
)

// Valid reports whether k is a known cache kind.
func (k EntryKind) Valid() bool {
	return k == EntryContentBased || k == EntryCollaborative
}

// Source returns the candidate source tag for lists of this kind.
func (k EntryKind) Source() Source {
	if k == EntryCollaborative {
		return SourceCollaborative
	}
	return SourceContentBased
}

// CachedItem is one ranked element of a cached list.
type CachedItem struct {
	BookID string    `json:"book_id"`
	Score  float64   `json:"score"`
	Reason string    `json:"reason"`
	Tag    ReasonTag `json:"tag"`
}

// CacheEntry is a precomputed ranked list. Items is never empty.
type CacheEntry struct {
	Kind         EntryKind    `json:"kind"`
	SourceID     string       `json:"source_id"`
	Items        []CachedItem `json:"items"`
	CalculatedAt time.Time    `json:"calculated_at"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// NewCacheEntry folds candidates into an entry stamped at now.
func NewCacheEntry(kind EntryKind, sourceID string, candidates []Candidate, now time.Time, ttl time.Duration) CacheEntry {
	items := make([]CachedItem, len(candidates))
	for i := range candidates {
		items[i] = CachedItem{
			BookID: candidates[i].Book.ID,
			Score:  candidates[i].Score,
			Reason: candidates[i].Reason,
			Tag:    candidates[i].Tag,
		}
	}
	return CacheEntry{
		Kind:         kind,
		SourceID:     sourceID,
		Items:        items,
		CalculatedAt: now,
		ExpiresAt:    now.Add(ttl),
	}
}

// CacheStats counts live cache entries per kind.
type CacheStats struct {
	ContentBased  int `json:"content_based"`
	Collaborative int `json:"collaborative"`
	Total         int `json:"total"`
}
