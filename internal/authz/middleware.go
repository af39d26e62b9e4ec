// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package authz

import (
	"net/http"

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/logging"
)

// ErrCodeAuthorization is the error code of a 403 response.
const ErrCodeAuthorization = "AUTHORIZATION_ERROR"

// Middleware provides authorization middleware using Casbin.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Authorize returns middleware that lets the request through only when the
// caller's role may perform action on object. It must run after
// auth.Middleware.Authenticate.
func (m *Middleware) Authorize(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.ClaimsFromContext(r.Context())
			if claims == nil {
				auth.WriteError(w, r, http.StatusForbidden, ErrCodeAuthorization, "no authentication context")
				return
			}

			allowed, err := m.enforcer.Enforce(claims.Role, object, action)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
				auth.WriteError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization check failed")
				return
			}
			if !allowed {
				logging.Ctx(r.Context()).Info().
					Str("user_id", claims.UserID).
					Str("role", claims.Role).
					Str("object", object).
					Str("action", action).
					Msg("Authorization denied")
				auth.WriteError(w, r, http.StatusForbidden, ErrCodeAuthorization, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
