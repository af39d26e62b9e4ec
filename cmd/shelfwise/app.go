// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"fmt"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/recommend/storage"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

// loadConfig loads configuration and initializes the global logger.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return cfg, nil
}

// cache is the recommendation cache with its closer. store is the
// breaker-wrapped view when the breaker is enabled.
type cache struct {
	badger *storage.BadgerStore
	store  storage.Store
}

func openCache(cfg *config.CacheConfig) (*cache, error) {
	bs, err := storage.OpenBadger(storage.BadgerConfig{
		Path:     cfg.Path,
		InMemory: cfg.InMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open recommendation cache: %w", err)
	}

	c := &cache{badger: bs, store: bs}
	if cfg.BreakerEnabled {
		bc := storage.DefaultBreakerConfig()
		bc.FailureThreshold = cfg.BreakerFailures
		if cfg.BreakerTimeout > 0 {
			bc.Timeout = cfg.BreakerTimeout
		}
		c.store = storage.NewBreakerStore(bs, bc, func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Cache circuit breaker state changed")
		})
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("breaker", cfg.BreakerEnabled).
		Msg("Recommendation cache opened")
	return c, nil
}

func (c *cache) Close() error {
	return c.badger.Close()
}

// newEngine builds the engine over the database stores and the cache.
func newEngine(cfg *config.Config, db *database.DB, c *cache) (*recommend.Engine, error) {
	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), recommend.Deps{
		Catalog:      db.Books(),
		Interactions: db.Interactions(),
		Users:        db.Users(),
		Cache:        c.store,
		Observer:     metrics.Observer{},
	}, logging.WithComponent("recommend"))
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation engine: %w", err)
	}
	return engine, nil
}

// closeWithLog closes a resource at shutdown and logs a failure.
func closeWithLog(name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		logging.Error().Err(err).Str("resource", name).Msg("Error closing resource")
	}
}
