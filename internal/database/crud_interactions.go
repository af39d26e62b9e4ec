// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/shelfwise/internal/database/query"
	"github.com/tomtom215/shelfwise/internal/models"
)

// InteractionStore reads and appends the user_interactions table. It
// implements recommend.InteractionLog.
type InteractionStore struct {
	db *DB
}

// Interactions returns the interaction view of the database.
func (db *DB) Interactions() *InteractionStore {
	return &InteractionStore{db: db}
}

const interactionColumns = `id, user_id, book_id, kind, rating_value, time_on_page, session_id, occurred_at`

// newestFirst orders history deterministically when timestamps tie.
const newestFirst = `ORDER BY occurred_at DESC, id`

func scanInteraction(row rowScanner) (models.Interaction, error) {
	var in models.Interaction
	var kind string
	var rating, timeOnPage sql.NullInt64
	if err := row.Scan(&in.ID, &in.UserID, &in.BookID, &kind, &rating, &timeOnPage, &in.SessionID, &in.Timestamp); err != nil {
		return models.Interaction{}, err
	}
	in.Kind = models.InteractionKind(kind)
	if rating.Valid {
		v := int(rating.Int64)
		in.RatingValue = &v
	}
	if timeOnPage.Valid {
		v := int(timeOnPage.Int64)
		in.TimeOnPage = &v
	}
	return in, nil
}

func (s *InteractionStore) query(ctx context.Context, q string, args ...any) ([]models.Interaction, error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	rows, err := s.db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := make([]models.Interaction, 0)
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interactions: %w", err)
	}
	return out, nil
}

// Append stores a new interaction.
func (s *InteractionStore) Append(ctx context.Context, in *models.Interaction) error {
	if in == nil || in.ID == "" || in.UserID == "" || in.BookID == "" || !in.Kind.Valid() {
		return ErrInvalidInteraction
	}

	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO user_interactions (`+interactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.BookID, string(in.Kind), nullableInt(in.RatingValue), nullableInt(in.TimeOnPage),
		in.SessionID, ts.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append interaction %s: %w", in.ID, err)
	}
	return nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// FindByUser returns a user's interactions, newest first.
func (s *InteractionStore) FindByUser(ctx context.Context, userID string) ([]models.Interaction, error) {
	return s.query(ctx, `SELECT `+interactionColumns+` FROM user_interactions WHERE user_id = ? `+newestFirst, userID)
}

// FindByItem returns a book's interactions, newest first.
func (s *InteractionStore) FindByItem(ctx context.Context, bookID string) ([]models.Interaction, error) {
	return s.query(ctx, `SELECT `+interactionColumns+` FROM user_interactions WHERE book_id = ? `+newestFirst, bookID)
}

// DistinctUserIDs returns every user with at least one interaction, ordered by id.
func (s *InteractionStore) DistinctUserIDs(ctx context.Context) ([]string, error) {
	return s.db.distinct(ctx, `SELECT DISTINCT user_id FROM user_interactions ORDER BY user_id`)
}

// UserHistory returns one page of a user's interactions, newest first.
func (s *InteractionStore) UserHistory(ctx context.Context, userID string, page, limit int) (*models.InteractionPage, error) {
	return s.page(ctx, "user_id", userID, page, limit)
}

// BookHistory returns one page of a book's interactions, newest first.
func (s *InteractionStore) BookHistory(ctx context.Context, bookID string, page, limit int) (*models.InteractionPage, error) {
	return s.page(ctx, "book_id", bookID, page, limit)
}

// page is shared by UserHistory and BookHistory; column is a constant.
func (s *InteractionStore) page(ctx context.Context, column, id string, page, limit int) (*models.InteractionPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	whereClause, args := query.NewWhereBuilder().AddClause(column+" = ?", id).BuildWithPrefix()

	var total int
	cctx, cancel := s.db.ensureContext(ctx)
	err := s.db.conn.QueryRowContext(cctx, `SELECT COUNT(*) FROM user_interactions `+whereClause, args...).Scan(&total)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	items, err := s.query(ctx, `SELECT `+interactionColumns+` FROM user_interactions `+whereClause+` `+newestFirst+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	return &models.InteractionPage{Interactions: items, Pagination: models.NewPagination(page, limit, total)}, nil
}

// Stats aggregates interactions, optionally restricted to one user and/or
// one book. AverageRating is rounded to one decimal and 0 without ratings.
func (s *InteractionStore) Stats(ctx context.Context, userID, bookID string) (*models.InteractionStats, error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	whereClause, args := query.NewWhereBuilder().
		AddEquals("user_id", userID).
		AddEquals("book_id", bookID).
		BuildWithPrefix()

	var st models.InteractionStats
	var avg sql.NullFloat64
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE kind = 'view'),
			COUNT(*) FILTER (WHERE kind = 'rating'),
			COUNT(*) FILTER (WHERE kind = 'wishlist'),
			COUNT(*),
			AVG(rating_value) FILTER (WHERE kind = 'rating')
		FROM user_interactions `+whereClause, args...,
	).Scan(&st.TotalViews, &st.TotalRatings, &st.TotalWishlists, &st.TotalInteractions, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute interaction stats: %w", err)
	}
	if avg.Valid {
		st.AverageRating = math.Round(avg.Float64*10) / 10
	}
	return &st, nil
}

// ActiveUsers returns the users with the most interactions, ties broken by
// the most recent activity.
func (s *InteractionStore) ActiveUsers(ctx context.Context, limit int) ([]models.ActiveUser, error) {
	if limit < 1 {
		limit = 10
	}

	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT i.user_id, COALESCE(u.username, ''), COALESCE(u.email, ''), COUNT(*) AS n, MAX(i.occurred_at) AS last_activity
		FROM user_interactions i
		LEFT JOIN users u ON u.id = i.user_id
		GROUP BY i.user_id, u.username, u.email
		ORDER BY n DESC, last_activity DESC, i.user_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query active users: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := make([]models.ActiveUser, 0, limit)
	for rows.Next() {
		var au models.ActiveUser
		if err := rows.Scan(&au.User.ID, &au.User.Username, &au.User.Email, &au.InteractionCount, &au.LastActivity); err != nil {
			return nil, fmt.Errorf("failed to scan active user: %w", err)
		}
		out = append(out, au)
	}
	return out, rows.Err()
}
