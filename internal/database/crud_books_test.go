// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tomtom215/shelfwise/internal/models"
)

func TestBookStore_FindByID(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	b, err := db.Books().FindByID(ctx, "b1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if b == nil || b.Title != "A Wizard of Earthsea" || b.Author != "Le Guin" {
		t.Fatalf("FindByID() = %+v", b)
	}
	if len(b.Genres) != 2 || b.Genres[0] != "Fantasy" || b.Genres[1] != "SciFi" {
		t.Errorf("Genres = %v, want [Fantasy SciFi]", b.Genres)
	}
	if b.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	missing, err := db.Books().FindByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("FindByID(missing) = %v, %v, want nil, nil", missing, err)
	}
}

func TestBookStore_FindMany(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.BookFilter
		want   []string
	}{
		{"all by rating", models.BookFilter{}, []string{"b3", "b1", "b2", "b4", "b5"}},
		{"popularity breaks ties by rating count", models.BookFilter{Sort: models.SortByPopularity}, []string{"b3", "b1", "b2", "b5", "b4"}},
		{"genre", models.BookFilter{Genres: []string{"Fantasy"}}, []string{"b1", "b2"}},
		{"any of several genres", models.BookFilter{Genres: []string{"SciFi", "Classic"}}, []string{"b3", "b1", "b4", "b5"}},
		{"genre is exact", models.BookFilter{Genres: []string{"Sci"}}, []string{}},
		{"author", models.BookFilter{Authors: []string{"Austen", "Herbert"}}, []string{"b3", "b4"}},
		{"genre and author", models.BookFilter{Genres: []string{"Fantasy"}, Authors: []string{"Herbert"}}, []string{}},
		{"genre or author", models.BookFilter{Genres: []string{"Fantasy"}, Authors: []string{"Herbert"}, MatchAny: true}, []string{"b3", "b1", "b2"}},
		{"min rating", models.BookFilter{MinRating: floatPtr(4.4)}, []string{"b3", "b1"}},
		{"rating range", models.BookFilter{MinRating: floatPtr(4.2), MaxRating: floatPtr(4.5)}, []string{"b1", "b2"}},
		{"ids", models.BookFilter{IDs: []string{"b5", "b2", "zz"}}, []string{"b2", "b5"}},
		{"limit", models.BookFilter{Limit: 2}, []string{"b3", "b1"}},
		{"limit and offset", models.BookFilter{Limit: 2, Offset: 2}, []string{"b2", "b4"}},
		{"offset only", models.BookFilter{Offset: 3}, []string{"b4", "b5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Books().FindMany(ctx, tt.filter)
			if err != nil {
				t.Fatalf("FindMany() error = %v", err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("FindMany() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestBookStore_AllAndList(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	all, err := db.Books().All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if want := []string{"b1", "b2", "b3", "b4", "b5"}; !equalIDs(ids(all), want) {
		t.Errorf("All() = %v, want %v", ids(all), want)
	}

	page, err := db.Books().List(ctx, models.BookFilter{Genres: []string{"Romance"}}, 1, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Pagination.Total != 2 || page.Pagination.TotalPages != 2 {
		t.Errorf("Pagination = %+v, want total 2, pages 2", page.Pagination)
	}
	if !equalIDs(ids(page.Books), []string{"b4"}) {
		t.Errorf("List() page 1 = %v, want [b4]", ids(page.Books))
	}
}

func TestBookStore_UpsertRejectsBadGenres(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, genres := range [][]string{{"Sci,Fi"}, {""}} {
		err := db.Books().Upsert(ctx, &models.Book{ID: "x", Title: "X", Author: "Y", Genres: genres})
		if !errors.Is(err, ErrInvalidGenre) {
			t.Errorf("Upsert(%q) error = %v, want ErrInvalidGenre", genres, err)
		}
	}

	// a book with no genres is fine
	if err := db.Books().Upsert(ctx, &models.Book{ID: "x", Title: "X", Author: "Y"}); err != nil {
		t.Fatalf("Upsert(no genres) error = %v", err)
	}
	b, err := db.Books().FindByID(ctx, "x")
	if err != nil || b == nil || len(b.Genres) != 0 {
		t.Errorf("FindByID(x) = %+v, %v, want empty genres", b, err)
	}
}

func TestBookStore_UpdateMetrics(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()
	books := db.Books()

	// b2: 4.3 over 8 ratings, plus a 5 -> (34.4+5)/9 = 4.377.. -> 4.4
	if err := books.UpdateMetrics(ctx, "b2", models.MetricsDelta{Rating: intPtr(5)}); err != nil {
		t.Fatalf("UpdateMetrics(rating) error = %v", err)
	}
	if err := books.UpdateMetrics(ctx, "b2", models.MetricsDelta{Views: 1}); err != nil {
		t.Fatalf("UpdateMetrics(view) error = %v", err)
	}
	if err := books.UpdateMetrics(ctx, "b2", models.MetricsDelta{Wishlists: 1}); err != nil {
		t.Fatalf("UpdateMetrics(wishlist) error = %v", err)
	}

	b, err := books.FindByID(ctx, "b2")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if b.Rating != 4.4 || b.RatingCount != 9 {
		t.Errorf("rating = %v/%d, want 4.4/9", b.Rating, b.RatingCount)
	}
	if b.ViewCount != 801 || b.WishlistCount != 1 {
		t.Errorf("views/wishlists = %d/%d, want 801/1", b.ViewCount, b.WishlistCount)
	}

	if err := books.UpdateMetrics(ctx, "nope", models.MetricsDelta{Views: 1}); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("UpdateMetrics(missing) error = %v, want ErrBookNotFound", err)
	}
	if err := books.UpdateMetrics(ctx, "nope", models.MetricsDelta{}); err != nil {
		t.Errorf("UpdateMetrics(empty delta) error = %v, want nil", err)
	}
}

func TestBookStore_UpdateMetricsConcurrent(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()
	books := db.Books()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- books.UpdateMetrics(ctx, "b4", models.MetricsDelta{Views: 1})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("UpdateMetrics() error = %v", err)
		}
	}

	b, err := books.FindByID(ctx, "b4")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if b.ViewCount != 300+n {
		t.Errorf("ViewCount = %d, want %d", b.ViewCount, 300+n)
	}
}

func TestBookStore_GenresAndAuthors(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	genres, err := db.Books().Genres(ctx)
	if err != nil {
		t.Fatalf("Genres() error = %v", err)
	}
	if want := []string{"Classic", "Fantasy", "Romance", "SciFi"}; !equalIDs(genres, want) {
		t.Errorf("Genres() = %v, want %v", genres, want)
	}

	authors, err := db.Books().Authors(ctx)
	if err != nil {
		t.Fatalf("Authors() error = %v", err)
	}
	if want := []string{"Austen", "Bronte", "Herbert", "Le Guin"}; !equalIDs(authors, want) {
		t.Errorf("Authors() = %v, want %v", authors, want)
	}
}
