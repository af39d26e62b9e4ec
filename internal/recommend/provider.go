// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/shelfwise/internal/models"
)

// Note: the engine depends only on these interfaces. The database and
// storage packages implement them without importing this package.

// Catalog provides book records.
type Catalog interface {
	// FindByID returns the book, or nil when it does not exist.
	FindByID(ctx context.Context, id string) (*models.Book, error)

	// FindMany returns books matching filter in filter.Sort order.
	FindMany(ctx context.Context, filter models.BookFilter) ([]models.Book, error)

	// All returns the whole catalog in a stable order.
	All(ctx context.Context) ([]models.Book, error)

	// UpdateMetrics applies counter and rating changes to one book.
	UpdateMetrics(ctx context.Context, id string, delta models.MetricsDelta) error
}

// InteractionLog provides reading history.
type InteractionLog interface {
	// FindByUser returns a user's interactions, newest first.
	FindByUser(ctx context.Context, userID string) ([]models.Interaction, error)

	// FindByItem returns a book's interactions, newest first.
	FindByItem(ctx context.Context, bookID string) ([]models.Interaction, error)

	// DistinctUserIDs returns every user with at least one interaction, in a
	// stable order.
	DistinctUserIDs(ctx context.Context) ([]string, error)

	// Append stores a new interaction.
	Append(ctx context.Context, in *models.Interaction) error
}

// UserStore provides user records.
type UserStore interface {
	// FindByID returns the user, or nil when it does not exist.
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CacheStore holds precomputed lists.
type CacheStore interface {
	// Get returns the live entry, or nil when absent or expired.
	Get(ctx context.Context, kind models.EntryKind, sourceID string) (*models.CacheEntry, error)

	// Upsert replaces the entry for (entry.Kind, entry.SourceID).
	Upsert(ctx context.Context, entry *models.CacheEntry) error
}

// Cache lookup outcomes reported to an Observer.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Observer receives engine events for metrics. Implementations must be safe
// for concurrent use.
type Observer interface {
	CacheLookup(kind models.EntryKind, outcome string)
	Computed(operation string, duration time.Duration, err error)
	Generated(report *GenerateReport)
}

type nopObserver struct{}

func (nopObserver) CacheLookup(models.EntryKind, string)  {}
func (nopObserver) Computed(string, time.Duration, error) {}
func (nopObserver) Generated(*GenerateReport)             {}

// Deps are the collaborators of an Engine. Catalog, Interactions, Users and
// Cache are required.
type Deps struct {
	Catalog      Catalog
	Interactions InteractionLog
	Users        UserStore
	Cache        CacheStore

	// Observer defaults to a no-op.
	Observer Observer

	// Clock defaults to time.Now.
	Clock func() time.Time
}
