// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/models"
)

// UserStore reads and writes the users table. It implements
// recommend.UserStore.
type UserStore struct {
	db *DB
}

// Users returns the user view of the database.
func (db *DB) Users() *UserStore {
	return &UserStore{db: db}
}

// FindByID returns the user, or nil when it does not exist.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	var u models.User
	var email sql.NullString
	var prefs string
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, preferences, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &email, &prefs, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	u.Email = email.String
	if err := json.Unmarshal([]byte(prefs), &u.Preferences); err != nil {
		return nil, fmt.Errorf("failed to decode preferences for user %s: %w", id, err)
	}
	return &u, nil
}

// Upsert inserts or replaces a user. A zero CreatedAt is set to now.
func (s *UserStore) Upsert(ctx context.Context, u *models.User) error {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	prefs, err := json.Marshal(u.Preferences)
	if err != nil {
		return fmt.Errorf("failed to encode preferences for user %s: %w", u.ID, err)
	}
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	var email any
	if u.Email != "" {
		email = u.Email
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO users (id, username, email, preferences, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			preferences = EXCLUDED.preferences`,
		u.ID, u.Username, email, string(prefs), created,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}
	return nil
}
