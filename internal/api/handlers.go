// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Version is reported by /health. Overridden at build time with
// -ldflags "-X github.com/tomtom215/shelfwise/internal/api.Version=...".
var Version = "dev"

// BookReader serves catalog reads. *database.BookStore implements it.
type BookReader interface {
	FindByID(ctx context.Context, id string) (*models.Book, error)
	List(ctx context.Context, filter models.BookFilter, page, limit int) (*models.BookPage, error)
	Genres(ctx context.Context) ([]string, error)
	Authors(ctx context.Context) ([]string, error)
}

// InteractionReader serves interaction history and aggregates.
// *database.InteractionStore implements it.
type InteractionReader interface {
	UserHistory(ctx context.Context, userID string, page, limit int) (*models.InteractionPage, error)
	BookHistory(ctx context.Context, bookID string, page, limit int) (*models.InteractionPage, error)
	Stats(ctx context.Context, userID, bookID string) (*models.InteractionStats, error)
	ActiveUsers(ctx context.Context, limit int) ([]models.ActiveUser, error)
}

// Recommender is the recommendation engine surface used by the handlers.
type Recommender interface {
	ContentBased(ctx context.Context, bookID string, limit int) ([]models.Candidate, error)
	Collaborative(ctx context.Context, userID string, limit int) ([]models.Candidate, error)
	ForUser(ctx context.Context, userID string, limit int) ([]models.Candidate, error)
	Hybrid(ctx context.Context, userID string, limit int) ([]models.Candidate, error)
	Generate(ctx context.Context) (*recommend.GenerateReport, error)
}

// InteractionRecorder stores a new interaction.
type InteractionRecorder interface {
	Record(ctx context.Context, req *recommend.RecordRequest) (*models.Interaction, error)
}

// CacheStatter reports cache entry counts.
type CacheStatter interface {
	Stats(ctx context.Context) (models.CacheStats, error)
}

// Pinger checks that a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators of Handler. Database is only used by
// /health and may be nil.
type Dependencies struct {
	Books        BookReader
	Interactions InteractionReader
	Engine       Recommender
	Recorder     InteractionRecorder
	CacheStats   CacheStatter
	Database     Pinger
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: /health
//   - handlers_books.go: catalog reads
//   - handlers_interactions.go: interaction recording and history
//   - handlers_recommend.go: recommendation lists, generation and cache stats
type Handler struct {
	books        BookReader
	interactions InteractionReader
	engine       Recommender
	recorder     InteractionRecorder
	cacheStats   CacheStatter
	database     Pinger

	api             config.APIConfig
	requestTimeout  time.Duration
	generateTimeout time.Duration
	startTime       time.Time
}

// NewHandler creates the API handler. cfg supplies pagination bounds and
// the per-request timeout.
func NewHandler(deps Dependencies, cfg *config.Config) (*Handler, error) {
	if deps.Books == nil || deps.Interactions == nil || deps.Engine == nil || deps.Recorder == nil || deps.CacheStats == nil {
		return nil, errors.New("books, interactions, engine, recorder and cache stats are required")
	}
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	apiCfg := cfg.API
	if apiCfg.DefaultPageSize <= 0 {
		apiCfg.DefaultPageSize = 20
	}
	if apiCfg.MaxPageSize < apiCfg.DefaultPageSize {
		apiCfg.MaxPageSize = apiCfg.DefaultPageSize
	}

	timeout := cfg.Server.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Handler{
		books:           deps.Books,
		interactions:    deps.Interactions,
		engine:          deps.Engine,
		recorder:        deps.Recorder,
		cacheStats:      deps.CacheStats,
		database:        deps.Database,
		api:             apiCfg,
		requestTimeout:  timeout,
		generateTimeout: 30 * time.Minute,
		startTime:       time.Now(),
	}, nil
}

// withTimeout bounds a handler's backend calls.
func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.requestTimeout)
}
