// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// ListBooks handles GET /api/v1/books.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := newQueryParams(r)
	req := BooksQuery{
		PageQuery: PageQuery{
			Page:  q.Int("page", 1),
			Limit: q.Int("limit", h.api.DefaultPageSize),
		},
		Genres:    q.List("genres"),
		Authors:   q.List("authors"),
		MinRating: q.Float("minRating"),
		MaxRating: q.Float("maxRating"),
	}
	if apiErr := q.Err(); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if req.MinRating != nil && req.MaxRating != nil && *req.MinRating > *req.MaxRating {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "minRating must not exceed maxRating", nil)
		return
	}
	if req.Limit > h.api.MaxPageSize {
		req.Limit = h.api.MaxPageSize
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	page, err := h.books.List(ctx, models.BookFilter{
		Genres:    req.Genres,
		Authors:   req.Authors,
		MinRating: req.MinRating,
		MaxRating: req.MaxRating,
		Sort:      models.SortByRating,
	}, req.Page, req.Limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list books", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, page, start)
}

// GetBook handles GET /api/v1/books/{id}.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")
	if err := recommend.ValidateID("book id", id); err != nil {
		respondEngineError(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	book, err := h.books.FindByID(ctx, id)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load book", err)
		return
	}
	if book == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "book "+id+" not found", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, book, start)
}

// SimilarBooks handles GET /api/v1/books/{id}/similar. It serves the
// content-based list of the book.
func (h *Handler) SimilarBooks(w http.ResponseWriter, r *http.Request) {
	h.serveRecommendations(w, r, ListContentBased, chi.URLParam(r, "id"), h.engine.ContentBased)
}

// ListGenres handles GET /api/v1/books/genres.
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	h.serveDistinct(w, r, "genres", h.books.Genres)
}

// ListAuthors handles GET /api/v1/books/authors.
func (h *Handler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	h.serveDistinct(w, r, "authors", h.books.Authors)
}

func (h *Handler) serveDistinct(w http.ResponseWriter, r *http.Request, name string, load func(ctx context.Context) ([]string, error)) {
	start := time.Now()
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	values, err := load(ctx)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list "+name, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{name: values, "count": len(values)}, start)
}
