// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package recommend implements the book recommendation engine.
//
// # Architecture
//
// The Engine composes independent components that exchange plain structs:
//
//   - algorithms.Similarity: pairwise content similarity between books
//   - algorithms.Collaborative: Jaccard user similarity and rating aggregation
//   - algorithms.Preference: matching against declared favorite genres/authors
//   - algorithms.Popularity: highest-rated books, shuffled for variety
//   - hybrid.Composer: quota split, de-duplication and diversification
//   - storage: precomputed lists with a time-to-live
//
// Catalog, interaction and user records live behind the Catalog,
// InteractionLog and UserStore interfaces; the Engine never writes them except
// for the metric update that follows a recorded interaction (see Recorder).
//
// # Operations
//
//	engine, err := recommend.NewEngine(cfg, recommend.Deps{
//	    Catalog: db, Interactions: db, Users: db, Cache: cache,
//	}, logger)
//
//	recs, err := engine.ContentBased(ctx, bookID, 10)
//	recs, err = engine.Collaborative(ctx, userID, 10)
//	recs, err = engine.ForUser(ctx, userID, 10)
//	recs, err = engine.Hybrid(ctx, userID, 10)
//	report, err := engine.Generate(ctx)
//
// ContentBased and Collaborative read the cache first and fall back to live
// computation. Only Generate writes the cache.
//
// # Errors
//
// Failures wrap one of ErrNotFound, ErrInvalidInput or ErrComputationFailure
// and are classified with errors.Is.
//
// # Concurrency
//
// All operations are safe for concurrent use. The popularity shuffle is the
// only non-deterministic step; its random source is guarded by a mutex.
package recommend
