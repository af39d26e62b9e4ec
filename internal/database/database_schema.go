// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
database_schema.go - Database Schema Management

Tables:
  - books: catalog records with running rating average and engagement counters.
    Genres are stored as a comma-separated string and matched with
    string_split/list_has_any.
  - users: accounts with declared preferences stored as a JSON document.
  - user_interactions: append-only reading history (view, rating, wishlist).

Timestamps are plain TIMESTAMP columns written in UTC by the application, so
no extension is needed for defaults or WAL replay.

Index Strategy:
Indexes are created for the history lookups (user_id, book_id with time
ordering) and author filters. Columns touched by UpdateMetrics are left
unindexed since DuckDB rewrites updates of indexed columns as delete+insert.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			genres TEXT NOT NULL DEFAULT '',
			description TEXT,
			publisher TEXT,
			published_year INTEGER,
			cover_image TEXT,
			rating DOUBLE NOT NULL DEFAULT 0,
			rating_count INTEGER NOT NULL DEFAULT 0,
			view_count INTEGER NOT NULL DEFAULT 0,
			wishlist_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT,
			preferences TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS user_interactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			book_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			rating_value INTEGER,
			time_on_page INTEGER,
			session_id TEXT NOT NULL,
			occurred_at TIMESTAMP NOT NULL
		);`,
	}
}

// createIndexes creates database indexes for query optimization.
// Skipped when cfg.SkipIndexes is true (fast test setup).
func (db *DB) createIndexes() error {
	if db.cfg != nil && db.cfg.SkipIndexes {
		return nil
	}

	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

// getIndexQueries returns index creation SQL statements
func getIndexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_interactions_user_time ON user_interactions(user_id, occurred_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_book_time ON user_interactions(book_id, occurred_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_kind ON user_interactions(kind);`,
		`CREATE INDEX IF NOT EXISTS idx_books_author ON books(author);`,
	}
}
