// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package authz

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/shelfwise/internal/auth"
)

func TestAuthorize(t *testing.T) {
	e, err := NewEnforcer(EnforcerConfig{DefaultRole: RoleUser, AdminRole: RoleAdmin})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	mw := NewMiddleware(e)
	handler := mw.Authorize(ObjectRecommendations, ActionGenerate)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	tests := []struct {
		name       string
		claims     *auth.Claims
		wantStatus int
	}{
		{"admin", &auth.Claims{UserID: "a1", Role: "admin"}, http.StatusAccepted},
		{"user", &auth.Claims{UserID: "u1", Role: "user"}, http.StatusForbidden},
		{"unauthenticated", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/generate", nil)
			if tt.claims != nil {
				req = req.WithContext(auth.ContextWithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusForbidden && !strings.Contains(rec.Body.String(), ErrCodeAuthorization) {
				t.Errorf("body = %s, want %s", rec.Body.String(), ErrCodeAuthorization)
			}
		})
	}
}
