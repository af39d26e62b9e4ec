// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/shelfwise/internal/models"
)

// MemoryStore implements Store with a map. Expired entries are dropped when
// read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]models.CacheEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]models.CacheEntry),
		now:     time.Now,
	}
}

// WithClock replaces the clock used for expiry checks.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// Get retrieves a live entry.
func (s *MemoryStore) Get(_ context.Context, kind models.EntryKind, sourceID string) (*models.CacheEntry, error) {
	key := string(entryKey(kind, sourceID))

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if entry.Expired(s.now()) {
		s.mu.Lock()
		if cur, still := s.entries[key]; still && cur.Expired(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, nil
	}

	items := make([]models.CachedItem, len(entry.Items))
	copy(items, entry.Items)
	entry.Items = items
	return &entry, nil
}

// Upsert replaces an entry.
func (s *MemoryStore) Upsert(_ context.Context, entry *models.CacheEntry) error {
	if err := validate(entry, s.now()); err != nil {
		return err
	}

	stored := *entry
	stored.Items = make([]models.CachedItem, len(entry.Items))
	copy(stored.Items, entry.Items)

	s.mu.Lock()
	s.entries[string(entryKey(entry.Kind, entry.SourceID))] = stored
	s.mu.Unlock()
	return nil
}

// Delete removes an entry.
func (s *MemoryStore) Delete(_ context.Context, kind models.EntryKind, sourceID string) error {
	s.mu.Lock()
	delete(s.entries, string(entryKey(kind, sourceID)))
	s.mu.Unlock()
	return nil
}

// Stats counts live entries.
func (s *MemoryStore) Stats(_ context.Context) (models.CacheStats, error) {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.CacheStats
	for _, e := range s.entries {
		if e.Expired(now) {
			continue
		}
		switch e.Kind {
		case models.EntryContentBased:
			stats.ContentBased++
		case models.EntryCollaborative:
			stats.Collaborative++
		}
	}
	stats.Total = stats.ContentBased + stats.Collaborative
	return stats, nil
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
