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

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/models"
)

// List types reported by RecommendationsResponse.
const (
	ListContentBased  = "content_based"
	ListCollaborative = "collaborative"
	ListPersonalized  = "personalized"
	ListHybrid        = "hybrid"
)

// RecommendationsResponse is the data of every recommendation list route.
type RecommendationsResponse struct {
	Type            string             `json:"type"`
	SourceID        string             `json:"source_id"`
	Count           int                `json:"count"`
	Recommendations []models.Candidate `json:"recommendations"`
}

type recommendFunc func(ctx context.Context, id string, limit int) ([]models.Candidate, error)

// ContentRecommendations handles GET /api/v1/recommendations/content/{bookId}.
func (h *Handler) ContentRecommendations(w http.ResponseWriter, r *http.Request) {
	h.serveRecommendations(w, r, ListContentBased, chi.URLParam(r, "bookId"), h.engine.ContentBased)
}

// CollaborativeRecommendations handles GET /api/v1/recommendations/collaborative/{userId}.
func (h *Handler) CollaborativeRecommendations(w http.ResponseWriter, r *http.Request) {
	h.serveRecommendations(w, r, ListCollaborative, chi.URLParam(r, "userId"), h.engine.Collaborative)
}

// UserRecommendations handles GET /api/v1/recommendations/user for the
// authenticated caller.
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "authentication required", nil)
		return
	}
	h.serveRecommendations(w, r, ListPersonalized, claims.UserID, h.engine.ForUser)
}

// HybridRecommendations handles GET /api/v1/recommendations/hybrid for the
// authenticated caller.
func (h *Handler) HybridRecommendations(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "authentication required", nil)
		return
	}
	h.serveRecommendations(w, r, ListHybrid, claims.UserID, h.engine.Hybrid)
}

func (h *Handler) serveRecommendations(w http.ResponseWriter, r *http.Request, kind, id string, fn recommendFunc) {
	start := time.Now()
	q := newQueryParams(r)
	req := LimitQuery{Limit: q.Int("limit", 0)}
	if apiErr := q.Err(); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	recs, err := fn(ctx, id, req.Limit)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	if recs == nil {
		recs = []models.Candidate{}
	}

	respondSuccess(w, r, http.StatusOK, RecommendationsResponse{
		Type:            kind,
		SourceID:        id,
		Count:           len(recs),
		Recommendations: recs,
	}, start)
}

// GenerateRecommendations handles POST /api/v1/recommendations/generate. It
// runs the batch job synchronously and returns its report.
func (h *Handler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// outlives a dropped client connection
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.generateTimeout)
	defer cancel()

	report, err := h.engine.Generate(ctx)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	event := logging.Ctx(r.Context()).Info()
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		event = event.Str("user_id", claims.UserID).Str("role", claims.Role)
	}
	event.
		Int64("content_entries", report.ContentEntries).
		Int64("collaborative_entries", report.CollaborativeEntries).
		Int64("failures", report.Failures).
		Dur("duration", report.Duration).
		Msg("Recommendation generation triggered via API")

	respondSuccess(w, r, http.StatusOK, report, start)
}

// RecommendationStats handles GET /api/v1/recommendations/stats.
func (h *Handler) RecommendationStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	stats, err := h.cacheStats.Stats(ctx)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to read cache statistics", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, stats, start)
}
