// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/authz"
	"github.com/tomtom215/shelfwise/internal/config"
)

// Router mounts Handler on a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authn         *auth.Middleware
	authz         *authz.Middleware
	metrics       http.Handler
}

// NewRouter creates a router. authn and authzMW protect the personalized and
// admin routes; a nil authn rejects them all with 401. authzMW is required.
func NewRouter(handler *Handler, mw *ChiMiddleware, authn *auth.Middleware, authzMW *authz.Middleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	if authn == nil {
		authn = auth.NewMiddleware(nil, config.AuthModeNone)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		authn:         authn,
		authz:         authzMW,
		metrics:       promhttp.Handler(),
	}
}

// WithMetricsHandler replaces the /metrics handler. Tests use it to serve a
// private registry.
func (router *Router) WithMetricsHandler(h http.Handler) *Router {
	router.metrics = h
	return router
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", router.metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(PrometheusMetrics)

		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.ListBooks)
			r.Get("/genres", h.ListGenres)
			r.Get("/authors", h.ListAuthors)
			r.Get("/{id}", h.GetBook)
			r.Get("/{id}/similar", h.SimilarBooks)
		})

		r.Route("/interactions", func(r chi.Router) {
			r.Post("/", h.RecordInteraction)
			r.Get("/user/{userId}", h.UserInteractions)
			r.Get("/book/{bookId}", h.BookInteractions)
			r.Get("/stats", h.InteractionStats)
			r.Get("/active-users", h.ActiveUsers)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/content/{bookId}", h.ContentRecommendations)
			r.Get("/collaborative/{userId}", h.CollaborativeRecommendations)

			r.Group(func(r chi.Router) {
				r.Use(router.authn.Authenticate)

				r.With(router.authz.Authorize(authz.ObjectRecommendations, authz.ActionRead)).
					Get("/user", h.UserRecommendations)
				r.With(router.authz.Authorize(authz.ObjectRecommendations, authz.ActionRead)).
					Get("/hybrid", h.HybridRecommendations)
				r.With(router.authz.Authorize(authz.ObjectRecommendations, authz.ActionGenerate)).
					Post("/generate", h.GenerateRecommendations)
				r.With(router.authz.Authorize(authz.ObjectStats, authz.ActionRead)).
					Get("/stats", h.RecommendationStats)
			})
		})
	})

	return r
}
