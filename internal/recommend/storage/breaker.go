// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package storage

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shelfwise/internal/models"
)

// BreakerConfig configures the circuit breaker around a Store.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // requests allowed while half-open
	Interval         time.Duration // closed-state counter reset period
	Timeout          time.Duration // open-state duration before half-open
	FailureThreshold uint32        // consecutive failures that trip the breaker
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "recommendation-cache",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerStore fails fast with gobreaker.ErrOpenState while the wrapped
// Store is unhealthy. A nil result from Get (absent entry) is a success.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerStore wraps next. onStateChange may be nil.
func NewBreakerStore(next Store, cfg BreakerConfig, onStateChange func(name string, from, to gobreaker.State)) *BreakerStore {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	threshold := cfg.FailureThreshold

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: onStateChange,
	}

	return &BreakerStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State returns the breaker state for monitoring.
func (s *BreakerStore) State() string {
	return s.cb.State().String()
}

// Get reads through the breaker.
func (s *BreakerStore) Get(ctx context.Context, kind models.EntryKind, sourceID string) (*models.CacheEntry, error) {
	res, err := s.cb.Execute(func() (any, error) {
		return s.next.Get(ctx, kind, sourceID)
	})
	if err != nil {
		return nil, err
	}
	entry, _ := res.(*models.CacheEntry)
	return entry, nil
}

// Upsert writes through the breaker. Invalid entries do not count as
// backend failures.
func (s *BreakerStore) Upsert(ctx context.Context, entry *models.CacheEntry) error {
	var invalid error
	_, err := s.cb.Execute(func() (any, error) {
		err := s.next.Upsert(ctx, entry)
		if errors.Is(err, ErrInvalidEntry) {
			invalid = err
			return nil, nil
		}
		return nil, err
	})
	if invalid != nil {
		return invalid
	}
	return err
}

// Delete removes through the breaker.
func (s *BreakerStore) Delete(ctx context.Context, kind models.EntryKind, sourceID string) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.next.Delete(ctx, kind, sourceID)
	})
	return err
}

// Stats reads through the breaker.
func (s *BreakerStore) Stats(ctx context.Context) (models.CacheStats, error) {
	res, err := s.cb.Execute(func() (any, error) {
		return s.next.Stats(ctx)
	})
	if err != nil {
		return models.CacheStats{}, err
	}
	stats, _ := res.(models.CacheStats)
	return stats, nil
}
