// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/recommend/algorithms"
	"github.com/tomtom215/shelfwise/internal/recommend/hybrid"
	"github.com/tomtom215/shelfwise/internal/recommend/reranking"
)

// Operation names reported to the Observer.
const (
	OpContentBased  = "content_based"
	OpCollaborative = "collaborative"
	OpForUser       = "for_user"
	OpHybrid        = "hybrid"
	OpGenerate      = "generate"
)

// Engine produces book recommendations. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	catalog      Catalog
	interactions InteractionLog
	users        UserStore
	cache        CacheStore
	observer     Observer
	now          func() time.Time

	similarity    *algorithms.Similarity
	collaborative *algorithms.Collaborative
	preference    *algorithms.Preference
	popularity    *algorithms.Popularity
	composer      *hybrid.Composer

	// generateMu serializes Generate runs
	generateMu sync.Mutex
	lastReport atomic.Pointer[GenerateReport]

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
}

// Metrics is a snapshot of engine counters.
type Metrics struct {
	RequestCount int64           `json:"request_count"`
	CacheHits    int64           `json:"cache_hits"`
	CacheMisses  int64           `json:"cache_misses"`
	ErrorCount   int64           `json:"error_count"`
	LastGenerate *GenerateReport `json:"last_generate,omitempty"`
}

// NewEngine creates a recommendation engine. A nil cfg selects DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Deps, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Catalog == nil || deps.Interactions == nil || deps.Users == nil || deps.Cache == nil {
		return nil, errors.New("catalog, interactions, users and cache are required")
	}

	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	cfg = cfg.Clone()
	q := cfg.Quotas

	return &Engine{
		config:       cfg,
		logger:       logger.With().Str("component", "recommend").Logger(),
		catalog:      deps.Catalog,
		interactions: deps.Interactions,
		users:        deps.Users,
		cache:        deps.Cache,
		observer:     deps.Observer,
		now:          deps.Clock,
		similarity: algorithms.NewSimilarity(algorithms.SimilarityConfig{
			Threshold: cfg.ContentSimilarityThreshold,
		}),
		collaborative: algorithms.NewCollaborative(algorithms.CollaborativeConfig{
			SimilarityThreshold: cfg.CollaborativeSimilarityThreshold,
			MaxNeighbours:       cfg.MaxSimilarUsers,
			MinRating:           cfg.MinNeighbourRating,
		}),
		preference: algorithms.NewPreference(),
		popularity: algorithms.NewPopularity(cfg.Seed),
		composer: hybrid.NewComposer(hybrid.Config{
			PersonalizedCollaborative: q.Personalized.Collaborative,
			PersonalizedPreference:    q.Personalized.Preference,
			Collaborative:             q.Hybrid.Collaborative,
			Content:                   q.Hybrid.Content,
			Popularity:                q.Hybrid.Popularity,
			Preference:                q.Hybrid.Preference,
			Diversity: reranking.DiversityConfig{
				AuthorStep:  cfg.Diversity.AuthorStep,
				AuthorFloor: cfg.Diversity.AuthorFloor,
				GenreStep:   cfg.Diversity.GenreStep,
				GenreFloor:  cfg.Diversity.GenreFloor,
			},
		}),
	}, nil
}

// ContentBased returns books similar to bookID. A cached list is served when
// present; otherwise the list is computed against the whole catalog.
func (e *Engine) ContentBased(ctx context.Context, bookID string, limit int) (recs []models.Candidate, err error) {
	defer e.finish(OpContentBased, time.Now(), &recs, &err)

	if err := ValidateID("book id", bookID); err != nil {
		return nil, err
	}
	limit = e.config.ClampLimit(limit)

	target, err := e.catalog.FindByID(ctx, bookID)
	if err != nil {
		return nil, computation("find book", err)
	}
	if target == nil {
		return nil, notFound("book", bookID)
	}

	if cached, ok, err := e.fromCache(ctx, models.EntryContentBased, bookID, limit); err != nil || ok {
		return cached, err
	}
	return e.contentCandidates(ctx, target, limit)
}

// Collaborative returns books rated highly by users with similar reading
// history. Users without interactions receive the popular fallback list.
func (e *Engine) Collaborative(ctx context.Context, userID string, limit int) (recs []models.Candidate, err error) {
	defer e.finish(OpCollaborative, time.Now(), &recs, &err)

	if err := ValidateID("user id", userID); err != nil {
		return nil, err
	}
	limit = e.config.ClampLimit(limit)

	if _, err := e.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return e.cachedCollaborative(ctx, userID, limit)
}

// ForUser blends collaborative and preference candidates.
func (e *Engine) ForUser(ctx context.Context, userID string, limit int) (recs []models.Candidate, err error) {
	defer e.finish(OpForUser, time.Now(), &recs, &err)

	if err := ValidateID("user id", userID); err != nil {
		return nil, err
	}
	limit = e.config.ClampLimit(limit)

	user, err := e.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	collabN, prefN := e.composer.PersonalizedSplit(limit)

	var collab []models.Candidate
	if collabN > 0 {
		if collab, err = e.cachedCollaborative(ctx, userID, collabN); err != nil {
			return nil, err
		}
	}

	pref, err := e.preferenceCandidates(ctx, user, prefN)
	if err != nil {
		return nil, err
	}

	return e.composer.Personalized(collab, pref, limit), nil
}

// Hybrid merges collaborative, recent-history content, popularity and
// preference candidates, then diversifies the result.
func (e *Engine) Hybrid(ctx context.Context, userID string, limit int) (recs []models.Candidate, err error) {
	defer e.finish(OpHybrid, time.Now(), &recs, &err)

	if err := ValidateID("user id", userID); err != nil {
		return nil, err
	}
	limit = e.config.ClampLimit(limit)

	user, err := e.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	split := e.composer.HybridSplit(limit)

	var collab []models.Candidate
	if split.Collaborative > 0 {
		if collab, err = e.cachedCollaborative(ctx, userID, split.Collaborative); err != nil {
			return nil, err
		}
	}

	content, err := e.historyCandidates(ctx, userID, split.Content)
	if err != nil {
		return nil, err
	}

	popular, err := e.popularCandidates(ctx, split.Popularity)
	if err != nil {
		return nil, err
	}

	pref, err := e.preferenceCandidates(ctx, user, split.Preference)
	if err != nil {
		return nil, err
	}

	return e.composer.Hybrid([][]models.Candidate{collab, content, popular, pref}, limit), nil
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() Metrics {
	return Metrics{
		RequestCount: e.requestCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		ErrorCount:   e.errorCount.Load(),
		LastGenerate: e.lastReport.Load(),
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// finish records request metrics and replaces a nil success result with an
// empty list.
func (e *Engine) finish(op string, start time.Time, recs *[]models.Candidate, err *error) {
	e.requestCount.Add(1)
	if *err != nil {
		e.errorCount.Add(1)
		if errors.Is(*err, ErrComputationFailure) {
			e.logger.Error().Str("operation", op).Err(*err).Msg("recommendation failed")
		}
	} else if *recs == nil {
		*recs = []models.Candidate{}
	}
	e.observer.Computed(op, time.Since(start), *err)
}

func (e *Engine) requireUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		return nil, computation("find user", err)
	}
	if user == nil {
		return nil, notFound("user", userID)
	}
	return user, nil
}

// fromCache serves a cached list. ok is false on a miss. Cache read failures
// count as misses.
func (e *Engine) fromCache(ctx context.Context, kind models.EntryKind, sourceID string, limit int) (recs []models.Candidate, ok bool, err error) {
	entry, err := e.cache.Get(ctx, kind, sourceID)
	if err != nil {
		e.logger.Warn().Str("kind", string(kind)).Str("source_id", sourceID).Err(err).Msg("cache read failed, computing live")
		e.cacheMisses.Add(1)
		e.observer.CacheLookup(kind, CacheError)
		return nil, false, nil
	}
	if entry == nil || entry.Expired(e.now()) {
		e.cacheMisses.Add(1)
		e.observer.CacheLookup(kind, CacheMiss)
		return nil, false, nil
	}

	e.cacheHits.Add(1)
	e.observer.CacheLookup(kind, CacheHit)

	ids := make([]string, len(entry.Items))
	for i := range entry.Items {
		ids[i] = entry.Items[i].BookID
	}
	books, err := e.catalog.FindMany(ctx, models.BookFilter{IDs: ids})
	if err != nil {
		return nil, false, computation("load cached books", err)
	}
	byID := indexBooks(books)

	recs = make([]models.Candidate, 0, min(limit, len(entry.Items)))
	for _, item := range entry.Items {
		if len(recs) == limit {
			break
		}
		book, found := byID[item.BookID]
		if !found {
			continue
		}
		recs = append(recs, models.Candidate{
			Book:   book,
			Score:  item.Score,
			Reason: item.Reason,
			Tag:    item.Tag,
			Source: kind.Source(),
		})
	}
	return recs, true, nil
}

func (e *Engine) contentCandidates(ctx context.Context, target *models.Book, limit int) ([]models.Candidate, error) {
	pool, err := e.catalog.All(ctx)
	if err != nil {
		return nil, computation("list catalog", err)
	}
	return e.similarity.TopSimilar(target, pool, limit), nil
}

func (e *Engine) cachedCollaborative(ctx context.Context, userID string, limit int) ([]models.Candidate, error) {
	if cached, ok, err := e.fromCache(ctx, models.EntryCollaborative, userID, limit); err != nil || ok {
		return cached, err
	}
	return e.collaborativeCandidates(ctx, userID, limit)
}

// collaborativeCandidates computes a collaborative list from live data.
func (e *Engine) collaborativeCandidates(ctx context.Context, userID string, limit int) ([]models.Candidate, error) {
	history, err := e.interactions.FindByUser(ctx, userID)
	if err != nil {
		return nil, computation("load user history", err)
	}
	if len(history) == 0 {
		return e.coldStart(ctx, limit)
	}

	ids, err := e.interactions.DistinctUserIDs(ctx)
	if err != nil {
		return nil, computation("list users", err)
	}

	idx := newHistoryIndex(len(ids))
	for _, id := range ids {
		if id == userID {
			continue
		}
		h, err := e.interactions.FindByUser(ctx, id)
		if err != nil {
			return nil, computation("load history of user "+id, err)
		}
		idx.add(id, h)
	}

	aggs := e.rankCollaborative(userID, history, idx, limit)
	if len(aggs) == 0 {
		return nil, nil
	}

	bookIDs := make([]string, len(aggs))
	for i := range aggs {
		bookIDs[i] = aggs[i].BookID
	}
	books, err := e.catalog.FindMany(ctx, models.BookFilter{IDs: bookIDs})
	if err != nil {
		return nil, computation("load recommended books", err)
	}
	return e.collaborative.Candidates(aggs, indexBooks(books)), nil
}

// rankCollaborative scores books for userID against the other users in idx.
// Every book the user interacted with, of any kind, is excluded.
func (e *Engine) rankCollaborative(userID string, history []models.Interaction, idx *historyIndex, limit int) []algorithms.Aggregate {
	others := make([]algorithms.History, 0, len(idx.order))
	for _, id := range idx.order {
		if id == userID {
			continue
		}
		others = append(others, algorithms.History{UserID: id, Interactions: idx.byUser[id]})
	}

	neighbours := e.collaborative.SimilarUsers(algorithms.ItemSet(history), others)
	if len(neighbours) == 0 {
		e.logger.Debug().Str("user_id", userID).Msg("no similar users")
		return nil
	}

	exclude := make(map[string]struct{}, len(history))
	for i := range history {
		exclude[history[i].BookID] = struct{}{}
	}
	return e.collaborative.Aggregate(neighbours, idx.byUser, exclude, limit)
}

func (e *Engine) coldStart(ctx context.Context, limit int) ([]models.Candidate, error) {
	books, err := e.catalog.FindMany(ctx, models.BookFilter{Sort: models.SortByRating, Limit: limit})
	if err != nil {
		return nil, computation("load popular books", err)
	}
	return algorithms.ColdStart(books), nil
}

func (e *Engine) preferenceCandidates(ctx context.Context, user *models.User, limit int) ([]models.Candidate, error) {
	filter, ok := e.preference.Filter(user.Preferences, limit)
	if !ok {
		return nil, nil
	}
	books, err := e.catalog.FindMany(ctx, filter)
	if err != nil {
		return nil, computation("load preferred books", err)
	}
	return e.preference.Candidates(books), nil
}

// historyCandidates seeds content similarity with the user's most recently
// viewed or rated books.
func (e *Engine) historyCandidates(ctx context.Context, userID string, quota int) ([]models.Candidate, error) {
	if quota <= 0 {
		return nil, nil
	}

	history, err := e.interactions.FindByUser(ctx, userID)
	if err != nil {
		return nil, computation("load user history", err)
	}
	seeds := recentSeeds(history, e.config.History.Window, e.config.History.SeedItems)
	if len(seeds) == 0 {
		return nil, nil
	}

	pool, err := e.catalog.All(ctx)
	if err != nil {
		return nil, computation("list catalog", err)
	}
	byID := make(map[string]int, len(pool))
	for i := range pool {
		byID[pool[i].ID] = i
	}

	perSeed := (quota + e.config.History.SeedItems - 1) / e.config.History.SeedItems

	var out []models.Candidate
	for _, id := range seeds {
		i, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, e.similarity.TopSimilar(&pool[i], pool, perSeed)...)
	}
	return out, nil
}

func (e *Engine) popularCandidates(ctx context.Context, quota int) ([]models.Candidate, error) {
	if quota <= 0 {
		return nil, nil
	}
	books, err := e.catalog.FindMany(ctx, models.BookFilter{
		Sort:  models.SortByPopularity,
		Limit: quota * e.config.History.PopularityOversample,
	})
	if err != nil {
		return nil, computation("load popular books", err)
	}
	return e.popularity.Pick(books, quota), nil
}

// recentSeeds returns up to n distinct book IDs from the first window view
// or rating interactions of a newest-first history.
func recentSeeds(history []models.Interaction, window, n int) []string {
	seen := make(map[string]struct{}, n)
	var seeds []string
	inspected := 0
	for i := range history {
		if inspected == window || len(seeds) == n {
			break
		}
		if !history[i].Kind.Collaborative() {
			continue
		}
		inspected++
		id := history[i].BookID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		seeds = append(seeds, id)
	}
	return seeds
}

func indexBooks(books []models.Book) map[string]models.Book {
	byID := make(map[string]models.Book, len(books))
	for i := range books {
		byID[books[i].ID] = books[i]
	}
	return byID
}

// historyIndex holds loaded interaction histories in user order.
type historyIndex struct {
	order  []string
	byUser map[string][]models.Interaction
}

func newHistoryIndex(n int) *historyIndex {
	return &historyIndex{
		order:  make([]string, 0, n),
		byUser: make(map[string][]models.Interaction, n),
	}
}

func (h *historyIndex) add(userID string, interactions []models.Interaction) {
	if _, ok := h.byUser[userID]; !ok {
		h.order = append(h.order, userID)
	}
	h.byUser[userID] = interactions
}
