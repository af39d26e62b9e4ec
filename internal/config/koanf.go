// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/shelfwise/config.yaml",
	"/etc/shelfwise/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:                   "/data/shelfwise.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
		},
		Cache: CacheConfig{
			Path:            "/data/recommendations",
			InMemory:        false,
			BreakerEnabled:  true,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Events: EventsConfig{
			Enabled:              true,
			BufferSize:           256,
			RetryCount:           3,
			RetryInitialInterval: 100 * time.Millisecond,
			CloseTimeout:         10 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			TokenTTL:        24 * time.Hour,
			Issuer:          "shelfwise",
			AdminRole:       "admin",
			DefaultRole:     "user",
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			Schedule:               6 * time.Hour,
			GenerateOnStart:        false,
			ContentThreshold:       engine.ContentSimilarityThreshold,
			CollaborativeThreshold: engine.CollaborativeSimilarityThreshold,
			MaxSimilarUsers:        engine.MaxSimilarUsers,
			MinNeighbourRating:     engine.MinNeighbourRating,
			CacheTTL:               engine.CacheTTL,
			Seed:                   engine.Seed,
			Quotas: QuotasConfig{
				PersonalizedCollaborative: engine.Quotas.Personalized.Collaborative,
				PersonalizedPreference:    engine.Quotas.Personalized.Preference,
				HybridCollaborative:       engine.Quotas.Hybrid.Collaborative,
				HybridContent:             engine.Quotas.Hybrid.Content,
				HybridPopularity:          engine.Quotas.Hybrid.Popularity,
				HybridPreference:          engine.Quotas.Hybrid.Preference,
			},
			History: HistoryConfig{
				Window:               engine.History.Window,
				SeedItems:            engine.History.SeedItems,
				PopularityOversample: engine.History.PopularityOversample,
			},
			Batch: BatchConfig{
				ListSize:         engine.Batch.ListSize,
				MaxUsers:         engine.Batch.MaxUsers,
				Workers:          engine.Batch.Workers,
				UpsertsPerSecond: engine.Batch.UpsertsPerSecond,
			},
			Diversity: DiversityConfig{
				AuthorStep:  engine.Diversity.AuthorStep,
				AuthorFloor: engine.Diversity.AuthorFloor,
				GenreStep:   engine.Diversity.GenreStep,
				GenreFloor:  engine.Diversity.GenreFloor,
			},
			DefaultLimit: engine.Limits.DefaultLimit,
			MaxLimit:     engine.Limits.MaxLimit,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML already yields slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Cache mappings
	"cache_path":             "cache.path",
	"cache_in_memory":        "cache.in_memory",
	"cache_breaker_enabled":  "cache.breaker_enabled",
	"cache_breaker_failures": "cache.breaker_failures",
	"cache_breaker_timeout":  "cache.breaker_timeout",

	// Events mappings
	"events_enabled":     "events.enabled",
	"events_buffer_size": "events.buffer_size",
	"events_retry_count": "events.retry_count",

	// API mappings
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// Security mappings
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"token_ttl":           "security.token_ttl",
	"jwt_issuer":          "security.issuer",
	"admin_role":          "security.admin_role",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine mappings
	"recommend_schedule":                "recommend.schedule",
	"recommend_generate_on_start":       "recommend.generate_on_start",
	"recommend_content_threshold":       "recommend.content_threshold",
	"recommend_collaborative_threshold": "recommend.collaborative_threshold",
	"recommend_max_similar_users":       "recommend.max_similar_users",
	"recommend_min_neighbour_rating":    "recommend.min_neighbour_rating",
	"recommend_cache_ttl":               "recommend.cache_ttl",
	"cache_ttl":                         "recommend.cache_ttl",
	"recommend_seed":                    "recommend.seed",
	"recommend_list_size":               "recommend.batch.list_size",
	"recommend_max_users":               "recommend.batch.max_users",
	"recommend_workers":                 "recommend.batch.workers",
	"recommend_upserts_per_second":      "recommend.batch.upserts_per_second",
	"recommend_default_limit":           "recommend.default_limit",
	"recommend_max_limit":               "recommend.max_limit",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - CACHE_TTL -> recommend.cache_ttl
//
// Unmapped variables return "" and are skipped so that unrelated
// environment variables never pollute the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
