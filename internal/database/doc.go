// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package database stores the catalog, users and reading history in DuckDB.
//
// A single DB owns the connection. Typed views expose one table each and
// implement the recommendation engine's collaborator interfaces:
//
//	db, err := database.New(&cfg.Database)
//	engine, err := recommend.NewEngine(engineCfg, recommend.Deps{
//	    Catalog:      db.Books(),
//	    Interactions: db.Interactions(),
//	    Users:        db.Users(),
//	    Cache:        cache,
//	}, logger)
//
// Lookups by id return (nil, nil) for missing rows. Writes to a missing book
// return ErrBookNotFound.
//
// Testing: use an in-memory database with SkipIndexes for fast setup:
//
//	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", SkipIndexes: true})
package database
