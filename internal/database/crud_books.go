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
	"strings"
	"time"

	"github.com/tomtom215/shelfwise/internal/database/query"
	"github.com/tomtom215/shelfwise/internal/models"
)

// BookStore reads and writes the books table. It implements
// recommend.Catalog.
type BookStore struct {
	db *DB
}

// Books returns the catalog view of the database.
func (db *DB) Books() *BookStore {
	return &BookStore{db: db}
}

// genreSeparator joins genres in the books.genres column.
const genreSeparator = ","

// bookColumns is the SELECT list matching scanBook.
const bookColumns = `id, title, author, genres,
	COALESCE(description, ''), COALESCE(publisher, ''), COALESCE(published_year, 0), COALESCE(cover_image, ''),
	rating, rating_count, view_count, wishlist_count, created_at, updated_at`

// genreMatch is true when the book carries at least one of the bound
// comma-separated genres.
const genreMatch = `list_has_any(string_split(genres, ','), string_split(?, ','))`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (models.Book, error) {
	var b models.Book
	var genres string
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &genres,
		&b.Description, &b.Publisher, &b.PublishedYear, &b.CoverImage,
		&b.Rating, &b.RatingCount, &b.ViewCount, &b.WishlistCount,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return models.Book{}, err
	}
	b.Genres = splitGenres(genres)
	return b, nil
}

func splitGenres(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, genreSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinGenres(genres []string) (string, error) {
	for _, g := range genres {
		if g == "" || strings.Contains(g, genreSeparator) {
			return "", fmt.Errorf("%w: %q", ErrInvalidGenre, g)
		}
	}
	return strings.Join(genres, genreSeparator), nil
}

func (s *BookStore) queryBooks(ctx context.Context, q string, args ...any) ([]models.Book, error) {
	rows, err := s.db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer closeWithLog(rows, "rows")

	books := make([]models.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}
	return books, nil
}

// FindByID returns the book, or nil when it does not exist.
func (s *BookStore) FindByID(ctx context.Context, id string) (*models.Book, error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	row := s.db.conn.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book %s: %w", id, err)
	}
	return &b, nil
}

// bookWhere translates a filter into a WHERE clause.
func bookWhere(filter *models.BookFilter) *query.WhereBuilder {
	match := query.NewWhereBuilder()
	if len(filter.Genres) > 0 {
		match.AddClause(genreMatch, strings.Join(filter.Genres, genreSeparator))
	}
	match.AddIn("author", filter.Authors)

	wb := query.NewWhereBuilder().AddIn("id", filter.IDs)
	if filter.MatchAny {
		wb.AddAny(match)
	} else {
		clause, args := match.Build()
		if !match.IsEmpty() {
			wb.AddClause(clause, args...)
		}
	}
	return wb.AddMin("rating", filter.MinRating).AddMax("rating", filter.MaxRating)
}

func orderBy(sort models.SortOrder) string {
	if sort == models.SortByPopularity {
		return "rating DESC, view_count DESC, rating_count DESC, id"
	}
	return "rating DESC, view_count DESC, id"
}

// FindMany returns books matching filter in filter.Sort order.
func (s *BookStore) FindMany(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	whereClause, args := bookWhere(&filter).BuildWithPrefix()
	q := fmt.Sprintf(`SELECT %s FROM books %s ORDER BY %s`, bookColumns, whereClause, orderBy(filter.Sort))
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		q += " OFFSET ?"
		args = append(args, filter.Offset)
	}
	return s.queryBooks(ctx, q, args...)
}

// Count returns how many books match filter, ignoring Limit and Offset.
func (s *BookStore) Count(ctx context.Context, filter models.BookFilter) (int, error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	whereClause, args := bookWhere(&filter).BuildWithPrefix()
	var n int
	if err := s.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM books `+whereClause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

// List returns one page of the catalog sorted by rating then views.
func (s *BookStore) List(ctx context.Context, filter models.BookFilter, page, limit int) (*models.BookPage, error) {
	if page < 1 {
		page = 1
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit
	filter.Sort = models.SortByRating

	total, err := s.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	books, err := s.FindMany(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.BookPage{Books: books, Pagination: models.NewPagination(page, limit, total)}, nil
}

// All returns the whole catalog ordered by id.
func (s *BookStore) All(ctx context.Context) ([]models.Book, error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	return s.queryBooks(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
}

// Upsert inserts or replaces a catalog record. Zero timestamps are set
// to now; CreatedAt of an existing row is preserved.
func (s *BookStore) Upsert(ctx context.Context, b *models.Book) error {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	genres, err := joinGenres(b.Genres)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	created := b.CreatedAt
	if created.IsZero() {
		created = now
	}
	updated := b.UpdatedAt
	if updated.IsZero() {
		updated = now
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO books (id, title, author, genres, description, publisher, published_year, cover_image,
			rating, rating_count, view_count, wishlist_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			genres = EXCLUDED.genres,
			description = EXCLUDED.description,
			publisher = EXCLUDED.publisher,
			published_year = EXCLUDED.published_year,
			cover_image = EXCLUDED.cover_image,
			rating = EXCLUDED.rating,
			rating_count = EXCLUDED.rating_count,
			view_count = EXCLUDED.view_count,
			wishlist_count = EXCLUDED.wishlist_count,
			updated_at = EXCLUDED.updated_at`,
		b.ID, b.Title, b.Author, genres, b.Description, b.Publisher, b.PublishedYear, b.CoverImage,
		b.Rating, b.RatingCount, b.ViewCount, b.WishlistCount, created, updated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert book %s: %w", b.ID, err)
	}
	return nil
}

// UpdateMetrics applies counter and rating changes to one book. A rating is
// folded into the running average rounded to one decimal.
func (s *BookStore) UpdateMetrics(ctx context.Context, id string, delta models.MetricsDelta) error {
	if delta.Empty() {
		return nil
	}

	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	mu := s.db.acquireBookLock(id)
	defer mu.Unlock()

	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		var rating float64
		var count int
		err := tx.QueryRowContext(ctx, `SELECT rating, rating_count FROM books WHERE id = ?`, id).Scan(&rating, &count)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrBookNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to read metrics for %s: %w", id, err)
		}

		if delta.Rating != nil {
			rating, count = models.NextAverage(rating, count, *delta.Rating)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE books SET
				rating = ?,
				rating_count = ?,
				view_count = view_count + ?,
				wishlist_count = wishlist_count + ?,
				updated_at = ?
			WHERE id = ?`,
			rating, count, delta.Views, delta.Wishlists, time.Now().UTC(), id,
		)
		if err != nil {
			return fmt.Errorf("failed to update metrics for %s: %w", id, err)
		}
		return nil
	})
}

// Genres returns the distinct genres in the catalog, sorted.
func (s *BookStore) Genres(ctx context.Context) ([]string, error) {
	return s.db.distinct(ctx, `
		SELECT DISTINCT g FROM (SELECT unnest(string_split(genres, ',')) AS g FROM books)
		WHERE g <> '' ORDER BY g`)
}

// Authors returns the distinct authors in the catalog, sorted.
func (s *BookStore) Authors(ctx context.Context) ([]string, error) {
	return s.db.distinct(ctx, `SELECT DISTINCT author FROM books ORDER BY author`)
}

func (db *DB) distinct(ctx context.Context, q string) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct values: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
