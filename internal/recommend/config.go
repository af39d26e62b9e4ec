// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// ContentSimilarityThreshold drops content candidates scoring at or below it.
	// Default: 0.30.
	ContentSimilarityThreshold float64 `json:"content_similarity_threshold"`

	// CollaborativeSimilarityThreshold drops neighbours whose Jaccard
	// similarity is at or below it.
	// Default: 0.10.
	CollaborativeSimilarityThreshold float64 `json:"collaborative_similarity_threshold"`

	// MaxSimilarUsers caps the neighbourhood size.
	// Default: 20.
	MaxSimilarUsers int `json:"max_similar_users"`

	// MinNeighbourRating is the lowest rating a neighbour must give a book
	// for it to be aggregated.
	// Default: 4.
	MinNeighbourRating int `json:"min_neighbour_rating"`

	// CacheTTL is the lifetime of entries written by Generate.
	// Default: 24h.
	CacheTTL time.Duration `json:"cache_ttl"`

	// Quotas split a request limit across candidate sources.
	Quotas QuotaConfig `json:"quotas"`

	// History controls which recent books seed hybrid content candidates.
	History HistoryConfig `json:"history"`

	// Batch controls Generate.
	Batch BatchConfig `json:"batch"`

	// Diversity controls the author/genre penalty applied to hybrid lists.
	Diversity DiversityConfig `json:"diversity"`

	// Limits bounds the limit argument of every operation.
	Limits LimitsConfig `json:"limits"`

	// Seed seeds the popularity shuffle. Zero selects a time-based seed.
	Seed int64 `json:"seed"`
}

// QuotaConfig holds the share of a limit given to each source.
type QuotaConfig struct {
	Personalized PersonalizedQuotas `json:"personalized"`
	Hybrid       HybridQuotas       `json:"hybrid"`
}

// PersonalizedQuotas for ForUser.
type PersonalizedQuotas struct {
	Collaborative float64 `json:"collaborative"`
	Preference    float64 `json:"preference"`
}

// HybridQuotas for Hybrid.
type HybridQuotas struct {
	Collaborative float64 `json:"collaborative"`
	Content       float64 `json:"content"`
	Popularity    float64 `json:"popularity"`
	Preference    float64 `json:"preference"`
}

// Sum returns the total share.
func (q HybridQuotas) Sum() float64 {
	return q.Collaborative + q.Content + q.Popularity + q.Preference
}

// HistoryConfig controls the hybrid content source.
type HistoryConfig struct {
	// Window is how many recent view/rating interactions are inspected.
	// Default: 10.
	Window int `json:"window"`

	// SeedItems is how many distinct recent books seed content candidates.
	// Default: 3.
	SeedItems int `json:"seed_items"`

	// PopularityOversample multiplies the popularity quota before shuffling.
	// Default: 2.
	PopularityOversample int `json:"popularity_oversample"`
}

// BatchConfig controls the regeneration job.
type BatchConfig struct {
	// ListSize is the length of every generated list.
	// Default: 10.
	ListSize int `json:"list_size"`

	// MaxUsers bounds how many interacting users get a collaborative entry.
	// Default: 50.
	MaxUsers int `json:"max_users"`

	// Workers is the number of keys computed concurrently.
	// Default: 4.
	Workers int `json:"workers"`

	// UpsertsPerSecond paces cache writes. Zero disables pacing.
	UpsertsPerSecond float64 `json:"upserts_per_second"`
}

// DiversityConfig holds the over-representation penalties. A candidate's
// score is multiplied by max(AuthorFloor, 1 - authorCount*AuthorStep) and
// max(GenreFloor, 1 - meanGenreCount*GenreStep).
type DiversityConfig struct {
	AuthorStep  float64 `json:"author_step"`
	AuthorFloor float64 `json:"author_floor"`
	GenreStep   float64 `json:"genre_step"`
	GenreFloor  float64 `json:"genre_floor"`
}

// LimitsConfig bounds the limit argument.
type LimitsConfig struct {
	// DefaultLimit replaces a non-positive limit.
	// Default: 10.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any requested limit.
	// Default: 100.
	MaxLimit int `json:"max_limit"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		ContentSimilarityThreshold:       0.30,
		CollaborativeSimilarityThreshold: 0.10,
		MaxSimilarUsers:                  20,
		MinNeighbourRating:               4,
		CacheTTL:                         24 * time.Hour,
		Quotas: QuotaConfig{
			Personalized: PersonalizedQuotas{
				Collaborative: 0.6,
				Preference:    0.4,
			},
			Hybrid: HybridQuotas{
				Collaborative: 0.4,
				Content:       0.3,
				Popularity:    0.2,
				Preference:    0.1,
			},
		},
		History: HistoryConfig{
			Window:               10,
			SeedItems:            3,
			PopularityOversample: 2,
		},
		Diversity: DiversityConfig{
			AuthorStep:  0.1,
			AuthorFloor: 0.5,
			GenreStep:   0.05,
			GenreFloor:  0.7,
		},
		Batch: BatchConfig{
			ListSize: 10,
			MaxUsers: 50,
			Workers:  4,
		},
		Limits: LimitsConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	var errs []error

	if c.ContentSimilarityThreshold < 0 || c.ContentSimilarityThreshold >= 1 {
		errs = append(errs, fmt.Errorf("content_similarity_threshold must be in [0, 1), got %f", c.ContentSimilarityThreshold))
	}
	if c.CollaborativeSimilarityThreshold < 0 || c.CollaborativeSimilarityThreshold >= 1 {
		errs = append(errs, fmt.Errorf("collaborative_similarity_threshold must be in [0, 1), got %f", c.CollaborativeSimilarityThreshold))
	}
	if c.MaxSimilarUsers < 1 {
		errs = append(errs, fmt.Errorf("max_similar_users must be positive, got %d", c.MaxSimilarUsers))
	}
	if c.MinNeighbourRating < 1 || c.MinNeighbourRating > 5 {
		errs = append(errs, fmt.Errorf("min_neighbour_rating must be in [1, 5], got %d", c.MinNeighbourRating))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must be positive, got %v", c.CacheTTL))
	}

	p := c.Quotas.Personalized
	for name, share := range map[string]float64{
		"quotas.personalized.collaborative": p.Collaborative,
		"quotas.personalized.preference":    p.Preference,
		"quotas.hybrid.collaborative":       c.Quotas.Hybrid.Collaborative,
		"quotas.hybrid.content":             c.Quotas.Hybrid.Content,
		"quotas.hybrid.popularity":          c.Quotas.Hybrid.Popularity,
		"quotas.hybrid.preference":          c.Quotas.Hybrid.Preference,
	} {
		if share < 0 || share > 1 {
			errs = append(errs, fmt.Errorf("%s must be in [0, 1], got %f", name, share))
		}
	}
	if p.Collaborative+p.Preference > 1+1e-9 {
		errs = append(errs, fmt.Errorf("personalized quotas sum to %f, must not exceed 1", p.Collaborative+p.Preference))
	}
	if c.Quotas.Hybrid.Sum() > 1+1e-9 {
		errs = append(errs, fmt.Errorf("hybrid quotas sum to %f, must not exceed 1", c.Quotas.Hybrid.Sum()))
	}

	if c.History.Window < 1 {
		errs = append(errs, fmt.Errorf("history.window must be positive, got %d", c.History.Window))
	}
	if c.History.SeedItems < 1 || c.History.SeedItems > c.History.Window {
		errs = append(errs, fmt.Errorf("history.seed_items must be in [1, %d], got %d", c.History.Window, c.History.SeedItems))
	}
	if c.History.PopularityOversample < 1 {
		errs = append(errs, fmt.Errorf("history.popularity_oversample must be positive, got %d", c.History.PopularityOversample))
	}

	for name, v := range map[string]float64{
		"diversity.author_step":  c.Diversity.AuthorStep,
		"diversity.author_floor": c.Diversity.AuthorFloor,
		"diversity.genre_step":   c.Diversity.GenreStep,
		"diversity.genre_floor":  c.Diversity.GenreFloor,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be in [0, 1], got %f", name, v))
		}
	}

	if c.Batch.ListSize < 1 {
		errs = append(errs, fmt.Errorf("batch.list_size must be positive, got %d", c.Batch.ListSize))
	}
	if c.Batch.MaxUsers < 0 {
		errs = append(errs, fmt.Errorf("batch.max_users must be non-negative, got %d", c.Batch.MaxUsers))
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers))
	}
	if c.Batch.UpsertsPerSecond < 0 || math.IsInf(c.Batch.UpsertsPerSecond, 0) {
		errs = append(errs, fmt.Errorf("batch.upserts_per_second must be a non-negative finite number, got %f", c.Batch.UpsertsPerSecond))
	}

	if c.Limits.DefaultLimit < 1 {
		errs = append(errs, fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit))
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		errs = append(errs, fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit))
	}

	return errors.Join(errs...)
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// all nested structs hold value types only
	cp := *c
	return &cp
}

// ClampLimit applies DefaultLimit and MaxLimit to a requested limit.
func (c *Config) ClampLimit(limit int) int {
	if limit <= 0 {
		return c.Limits.DefaultLimit
	}
	if limit > c.Limits.MaxLimit {
		return c.Limits.MaxLimit
	}
	return limit
}
