// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/models"
)

// BadgerConfig configures OpenBadger.
type BadgerConfig struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in RAM.
	InMemory bool
}

// BadgerStore implements Store using BadgerDB.
type BadgerStore struct {
	db    *badger.DB
	owned bool
	now   func() time.Time
}

// OpenBadger opens a BadgerDB instance owned by the returned store.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else if cfg.Path == "" {
		return nil, errors.New("badger path is required unless in_memory is set")
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	s := NewBadgerStore(db)
	s.owned = true
	return s, nil
}

// NewBadgerStore creates a store on an existing database. The caller keeps
// ownership of db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, now: time.Now}
}

// WithClock replaces the clock used for expiry checks.
func (s *BadgerStore) WithClock(now func() time.Time) *BadgerStore {
	s.now = now
	return s
}

// Get retrieves a live entry.
func (s *BadgerStore) Get(ctx context.Context, kind models.EntryKind, sourceID string) (*models.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entry models.CacheEntry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(kind, sourceID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", kind, sourceID, err)
	}

	if entry.Expired(s.now()) {
		return nil, nil
	}
	return &entry, nil
}

// Upsert stores an entry with a native TTL matching its ExpiresAt.
func (s *BadgerStore) Upsert(ctx context.Context, entry *models.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.now()
	if err := validate(entry, now); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	ttl := entry.ExpiresAt.Sub(now)
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(entryKey(entry.Kind, entry.SourceID), data).WithTTL(ttl)
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("set entry: %w", err)
		}
		return nil
	})
}

// Delete removes an entry.
func (s *BadgerStore) Delete(ctx context.Context, kind models.EntryKind, sourceID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(entryKey(kind, sourceID))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete entry: %w", err)
		}
		return nil
	})
}

// Stats counts live entries by prefix scan.
func (s *BadgerStore) Stats(ctx context.Context) (models.CacheStats, error) {
	var stats models.CacheStats

	content, err := s.count(ctx, models.EntryContentBased)
	if err != nil {
		return stats, err
	}
	collab, err := s.count(ctx, models.EntryCollaborative)
	if err != nil {
		return stats, err
	}

	stats.ContentBased = content
	stats.Collaborative = collab
	stats.Total = content + collab
	return stats, nil
}

func (s *BadgerStore) count(ctx context.Context, kind models.EntryKind) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := kindPrefix(kind)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count %s entries: %w", kind, err)
	}
	return count, nil
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
