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

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

const (
	defaultHistoryLimit     = 20
	defaultActiveUsersLimit = 10
	maxActiveUsersLimit     = 100
)

// RecordInteraction handles POST /api/v1/interactions.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecordInteractionRequest
	if apiErr := decodeJSONBody(w, r, &req); apiErr != nil {
		respondAPIError(w, r, statusFor(apiErr), apiErr, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	in, err := h.recorder.Record(ctx, &recommend.RecordRequest{
		UserID:     req.UserID,
		BookID:     req.BookID,
		Kind:       models.InteractionKind(req.Kind),
		Rating:     req.Rating,
		TimeOnPage: req.TimeOnPage,
		SessionID:  req.SessionID,
	})
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	metrics.RecordInteraction(in.Kind)
	respondSuccess(w, r, http.StatusCreated, in, start)
}

// UserInteractions handles GET /api/v1/interactions/user/{userId}.
func (h *Handler) UserInteractions(w http.ResponseWriter, r *http.Request) {
	h.serveHistory(w, r, "user id", chi.URLParam(r, "userId"), h.interactions.UserHistory)
}

// BookInteractions handles GET /api/v1/interactions/book/{bookId}.
func (h *Handler) BookInteractions(w http.ResponseWriter, r *http.Request) {
	h.serveHistory(w, r, "book id", chi.URLParam(r, "bookId"), h.interactions.BookHistory)
}

type historyFunc func(ctx context.Context, id string, page, limit int) (*models.InteractionPage, error)

func (h *Handler) serveHistory(w http.ResponseWriter, r *http.Request, field, id string, load historyFunc) {
	start := time.Now()
	if err := recommend.ValidateID(field, id); err != nil {
		respondEngineError(w, r, err)
		return
	}

	q := newQueryParams(r)
	req := PageQuery{Page: q.Int("page", 1), Limit: q.Int("limit", defaultHistoryLimit)}
	if apiErr := q.Err(); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if req.Limit > h.api.MaxPageSize {
		req.Limit = h.api.MaxPageSize
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	page, err := load(ctx, id, req.Page, req.Limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load interactions", err)
		return
	}
	if page.Interactions == nil {
		page.Interactions = []models.Interaction{}
	}
	respondSuccess(w, r, http.StatusOK, page, start)
}

// InteractionStats handles GET /api/v1/interactions/stats. Without ids the
// whole log is aggregated.
func (h *Handler) InteractionStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := newQueryParams(r)
	req := StatsQuery{UserID: q.String("userId"), BookID: q.String("bookId")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	stats, err := h.interactions.Stats(ctx, req.UserID, req.BookID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute interaction statistics", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, stats, start)
}

// ActiveUsers handles GET /api/v1/interactions/active-users.
func (h *Handler) ActiveUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := newQueryParams(r)
	req := LimitQuery{Limit: q.Int("limit", defaultActiveUsersLimit)}
	if apiErr := q.Err(); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	switch {
	case req.Limit == 0:
		req.Limit = defaultActiveUsersLimit
	case req.Limit > maxActiveUsersLimit:
		req.Limit = maxActiveUsersLimit
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	users, err := h.interactions.ActiveUsers(ctx, req.Limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load active users", err)
		return
	}
	if users == nil {
		users = []models.ActiveUser{}
	}
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{"users": users, "count": len(users)}, start)
}
