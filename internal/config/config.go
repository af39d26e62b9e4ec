// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"time"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Events    EventsConfig    `koanf:"events"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging or production
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // 0 = use NumCPU
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // DuckDB default is true
	SkipIndexes            bool   `koanf:"skip_indexes"`             // fast test setup
}

// CacheConfig holds the recommendation cache settings.
type CacheConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps the cache in memory only. Useful for tests and
	// single-shot CLI runs.
	InMemory bool `koanf:"in_memory"`

	// BreakerEnabled wraps the store in a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled"`

	// BreakerFailures is the number of consecutive failures that opens the circuit.
	BreakerFailures uint32 `koanf:"breaker_failures"`

	// BreakerTimeout is how long the circuit stays open before probing.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// EventsConfig controls the in-process interaction event bus.
type EventsConfig struct {
	// Enabled routes metric updates through the event bus. When disabled the
	// recorder applies them synchronously.
	Enabled bool `koanf:"enabled"`

	// BufferSize is the gochannel output buffer.
	BufferSize int64 `koanf:"buffer_size"`

	RetryCount           int           `koanf:"retry_count"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	CloseTimeout         time.Duration `koanf:"close_timeout"`
}

// APIConfig holds API pagination settings
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication and authorization settings
type SecurityConfig struct {
	// AuthMode is "jwt" or "none". With "none" every request runs as the
	// anonymous user and authenticated routes reject with 401.
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	Issuer            string        `koanf:"issuer"`
	AdminRole         string        `koanf:"admin_role"`
	DefaultRole       string        `koanf:"default_role"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds the recommendation engine and scheduler settings.
//
// Environment Variables:
//   - RECOMMEND_SCHEDULE: Batch regeneration interval, 0 disables (default: 6h)
//   - RECOMMEND_GENERATE_ON_START: Run one batch at startup (default: false)
//   - RECOMMEND_CACHE_TTL: Lifetime of generated lists (default: 24h)
//   - RECOMMEND_WORKERS: Concurrent batch workers (default: 4)
type RecommendConfig struct {
	Schedule        time.Duration `koanf:"schedule"`
	GenerateOnStart bool          `koanf:"generate_on_start"`

	ContentThreshold       float64       `koanf:"content_threshold"`
	CollaborativeThreshold float64       `koanf:"collaborative_threshold"`
	MaxSimilarUsers        int           `koanf:"max_similar_users"`
	MinNeighbourRating     int           `koanf:"min_neighbour_rating"`
	CacheTTL               time.Duration `koanf:"cache_ttl"`
	Seed                   int64         `koanf:"seed"`

	Quotas    QuotasConfig    `koanf:"quotas"`
	History   HistoryConfig   `koanf:"history"`
	Batch     BatchConfig     `koanf:"batch"`
	Diversity DiversityConfig `koanf:"diversity"`

	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// QuotasConfig holds the share of a request limit given to each source.
type QuotasConfig struct {
	PersonalizedCollaborative float64 `koanf:"personalized_collaborative"`
	PersonalizedPreference    float64 `koanf:"personalized_preference"`
	HybridCollaborative       float64 `koanf:"hybrid_collaborative"`
	HybridContent             float64 `koanf:"hybrid_content"`
	HybridPopularity          float64 `koanf:"hybrid_popularity"`
	HybridPreference          float64 `koanf:"hybrid_preference"`
}

// HistoryConfig controls how recent reading seeds hybrid content candidates.
type HistoryConfig struct {
	Window               int `koanf:"window"`
	SeedItems            int `koanf:"seed_items"`
	PopularityOversample int `koanf:"popularity_oversample"`
}

// BatchConfig controls the regeneration job.
type BatchConfig struct {
	ListSize         int     `koanf:"list_size"`
	MaxUsers         int     `koanf:"max_users"`
	Workers          int     `koanf:"workers"`
	UpsertsPerSecond float64 `koanf:"upserts_per_second"`
}

// DiversityConfig holds the hybrid over-representation penalties.
type DiversityConfig struct {
	AuthorStep  float64 `koanf:"author_step"`
	AuthorFloor float64 `koanf:"author_floor"`
	GenreStep   float64 `koanf:"genre_step"`
	GenreFloor  float64 `koanf:"genre_floor"`
}

// EngineConfig converts the loaded settings into an engine configuration.
func (r *RecommendConfig) EngineConfig() *recommend.Config {
	return &recommend.Config{
		ContentSimilarityThreshold:       r.ContentThreshold,
		CollaborativeSimilarityThreshold: r.CollaborativeThreshold,
		MaxSimilarUsers:                  r.MaxSimilarUsers,
		MinNeighbourRating:               r.MinNeighbourRating,
		CacheTTL:                         r.CacheTTL,
		Quotas: recommend.QuotaConfig{
			Personalized: recommend.PersonalizedQuotas{
				Collaborative: r.Quotas.PersonalizedCollaborative,
				Preference:    r.Quotas.PersonalizedPreference,
			},
			Hybrid: recommend.HybridQuotas{
				Collaborative: r.Quotas.HybridCollaborative,
				Content:       r.Quotas.HybridContent,
				Popularity:    r.Quotas.HybridPopularity,
				Preference:    r.Quotas.HybridPreference,
			},
		},
		History: recommend.HistoryConfig{
			Window:               r.History.Window,
			SeedItems:            r.History.SeedItems,
			PopularityOversample: r.History.PopularityOversample,
		},
		Batch: recommend.BatchConfig{
			ListSize:         r.Batch.ListSize,
			MaxUsers:         r.Batch.MaxUsers,
			Workers:          r.Batch.Workers,
			UpsertsPerSecond: r.Batch.UpsertsPerSecond,
		},
		Diversity: recommend.DiversityConfig{
			AuthorStep:  r.Diversity.AuthorStep,
			AuthorFloor: r.Diversity.AuthorFloor,
			GenreStep:   r.Diversity.GenreStep,
			GenreFloor:  r.Diversity.GenreFloor,
		},
		Limits: recommend.LimitsConfig{
			DefaultLimit: r.DefaultLimit,
			MaxLimit:     r.MaxLimit,
		},
		Seed: r.Seed,
	}
}
