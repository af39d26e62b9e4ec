// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tomtom215/shelfwise/internal/models"
)

// ErrGenerateInProgress is returned when Generate is already running.
var ErrGenerateInProgress = errors.New("generation already in progress")

// GenerateReport summarizes one Generate run.
type GenerateReport struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`

	// Books and Users are the number of keys attempted per kind.
	Books int `json:"books"`
	Users int `json:"users"`

	ContentEntries       int64 `json:"content_entries"`
	CollaborativeEntries int64 `json:"collaborative_entries"`

	// Empty counts keys whose list was empty and therefore not written.
	Empty int64 `json:"empty"`

	// Failures counts keys that could not be computed or written.
	Failures int64 `json:"failures"`
}

type writeOutcome int

const (
	written writeOutcome = iota
	skippedEmpty
	writeFailed
)

// Generate recomputes and stores the content list of every book and the
// collaborative list of up to Batch.MaxUsers interacting users. A failure on
// one key is logged and skipped; the run fails only when the catalog or the
// user list cannot be loaded.
func (e *Engine) Generate(ctx context.Context) (report *GenerateReport, err error) {
	if !e.generateMu.TryLock() {
		return nil, ErrGenerateInProgress
	}
	defer e.generateMu.Unlock()

	start := time.Now()
	defer func() {
		e.observer.Computed(OpGenerate, time.Since(start), err)
	}()

	books, err := e.catalog.All(ctx)
	if err != nil {
		return nil, computation("list catalog", err)
	}
	users, err := e.interactions.DistinctUserIDs(ctx)
	if err != nil {
		return nil, computation("list users", err)
	}

	targets := users
	if len(targets) > e.config.Batch.MaxUsers {
		targets = targets[:e.config.Batch.MaxUsers]
	}

	report = &GenerateReport{
		StartedAt: e.now(),
		Books:     len(books),
		Users:     len(targets),
	}

	e.logger.Info().
		Int("books", len(books)).
		Int("users", len(targets)).
		Int("workers", e.config.Batch.Workers).
		Msg("starting recommendation generation")

	var limiter *rate.Limiter
	if ups := e.config.Batch.UpsertsPerSecond; ups > 0 {
		limiter = rate.NewLimiter(rate.Limit(ups), 1)
	}

	var content, collab, empty, failures atomic.Int64
	tally := func(outcome writeOutcome, ok *atomic.Int64) {
		switch outcome {
		case written:
			ok.Add(1)
		case skippedEmpty:
			empty.Add(1)
		case writeFailed:
			failures.Add(1)
		}
	}

	listSize := e.config.Batch.ListSize

	var g errgroup.Group
	g.SetLimit(e.config.Batch.Workers)

	for i := range books {
		if ctx.Err() != nil {
			break
		}
		book := &books[i]
		g.Go(func() error {
			recs := e.similarity.TopSimilar(book, books, listSize)
			tally(e.writeEntry(ctx, limiter, models.EntryContentBased, book.ID, recs), &content)
			return nil
		})
	}

	// Histories are loaded once and shared by every collaborative key.
	idx := newHistoryIndex(len(users))
	for _, id := range users {
		if ctx.Err() != nil {
			break
		}
		h, err := e.interactions.FindByUser(ctx, id)
		if err != nil {
			e.logger.Warn().Str("user_id", id).Err(err).Msg("skipping user with unreadable history")
			continue
		}
		idx.add(id, h)
	}
	catalog := indexBooks(books)

	for _, userID := range targets {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			history, ok := idx.byUser[userID]
			if !ok {
				failures.Add(1)
				return nil
			}
			recs, err := e.batchCollaborative(ctx, userID, history, idx, catalog, listSize)
			if err != nil {
				e.logger.Warn().Str("user_id", userID).Err(err).Msg("collaborative generation failed")
				failures.Add(1)
				return nil
			}
			tally(e.writeEntry(ctx, limiter, models.EntryCollaborative, userID, recs), &collab)
			return nil
		})
	}

	// workers never return errors
	_ = g.Wait()

	report.ContentEntries = content.Load()
	report.CollaborativeEntries = collab.Load()
	report.Empty = empty.Load()
	report.Failures = failures.Load()
	report.Duration = time.Since(start)

	e.lastReport.Store(report)
	e.observer.Generated(report)

	e.logger.Info().
		Int64("content_entries", report.ContentEntries).
		Int64("collaborative_entries", report.CollaborativeEntries).
		Int64("empty", report.Empty).
		Int64("failures", report.Failures).
		Dur("duration", report.Duration).
		Msg("recommendation generation complete")

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("generation interrupted: %w", err)
	}
	return report, nil
}

// batchCollaborative is collaborativeCandidates over preloaded data.
func (e *Engine) batchCollaborative(ctx context.Context, userID string, history []models.Interaction, idx *historyIndex, catalog map[string]models.Book, limit int) ([]models.Candidate, error) {
	if len(history) == 0 {
		return e.coldStart(ctx, limit)
	}
	aggs := e.rankCollaborative(userID, history, idx, limit)
	return e.collaborative.Candidates(aggs, catalog), nil
}

func (e *Engine) writeEntry(ctx context.Context, limiter *rate.Limiter, kind models.EntryKind, sourceID string, recs []models.Candidate) writeOutcome {
	if len(recs) == 0 {
		return skippedEmpty
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return writeFailed
		}
	}

	entry := models.NewCacheEntry(kind, sourceID, recs, e.now(), e.config.CacheTTL)
	if err := e.cache.Upsert(ctx, &entry); err != nil {
		e.logger.Warn().
			Str("kind", string(kind)).
			Str("source_id", sourceID).
			Err(err).
			Msg("cache write failed")
		return writeFailed
	}
	return written
}
