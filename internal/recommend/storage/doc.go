// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package storage persists precomputed recommendation lists.
//
// Each list is stored under
//
//	rec:{kind}:{source_id}
//
// where kind is content_based (source_id is a book ID) or collaborative
// (source_id is a user ID). Entries carry their own expiry; Get never returns
// an entry whose ExpiresAt has passed, and BadgerStore additionally sets a
// native TTL so expired keys are reclaimed by compaction.
//
// # Implementations
//
//   - BadgerStore: durable, backed by BadgerDB (on disk or in memory)
//   - MemoryStore: map-backed, for tests and single-process deployments
//   - BreakerStore: wraps another Store with a circuit breaker
//
// # Thread Safety
//
// All stores are safe for concurrent use.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/shelfwise/internal/models"
)

const keyPrefix = "rec:"

// ErrInvalidEntry is returned by Upsert for entries that must not be stored.
var ErrInvalidEntry = errors.New("invalid cache entry")

// Store is the contract shared by all cache implementations.
type Store interface {
	// Get returns the live entry for (kind, sourceID), or nil when absent or
	// expired.
	Get(ctx context.Context, kind models.EntryKind, sourceID string) (*models.CacheEntry, error)

	// Upsert replaces the entry for (entry.Kind, entry.SourceID).
	Upsert(ctx context.Context, entry *models.CacheEntry) error

	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, kind models.EntryKind, sourceID string) error

	// Stats counts live entries per kind.
	Stats(ctx context.Context) (models.CacheStats, error)
}

func entryKey(kind models.EntryKind, sourceID string) []byte {
	return []byte(keyPrefix + string(kind) + ":" + sourceID)
}

func kindPrefix(kind models.EntryKind) []byte {
	return []byte(keyPrefix + string(kind) + ":")
}

// validate rejects entries that would violate the cache invariants.
func validate(entry *models.CacheEntry, now time.Time) error {
	switch {
	case entry == nil:
		return fmt.Errorf("%w: nil entry", ErrInvalidEntry)
	case !entry.Kind.Valid():
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEntry, entry.Kind)
	case strings.TrimSpace(entry.SourceID) == "":
		return fmt.Errorf("%w: empty source id", ErrInvalidEntry)
	case len(entry.Items) == 0:
		return fmt.Errorf("%w: empty list for %s %s", ErrInvalidEntry, entry.Kind, entry.SourceID)
	case entry.Expired(now):
		return fmt.Errorf("%w: already expired at %s", ErrInvalidEntry, entry.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}
