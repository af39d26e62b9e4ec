// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package validation

import (
	"strings"
	"testing"
)

type recordRequest struct {
	UserID    string `json:"user_id" validate:"required,entityid"`
	Kind      string `json:"kind" validate:"required,interactionkind"`
	Rating    *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	SessionID string `json:"session_id" validate:"required,max=128"`
}

type limitQuery struct {
	Limit int `query:"limit" validate:"min=0,max=100"`
}

func intPtr(v int) *int { return &v }

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      interface{}
		wantFields []string
		wantMsg    string
	}{
		{
			name:  "valid view",
			input: &recordRequest{UserID: "u1", Kind: "view", SessionID: "s"},
		},
		{
			name:  "valid rating",
			input: &recordRequest{UserID: "u1", Kind: "rating", Rating: intPtr(5), SessionID: "s"},
		},
		{
			name:       "missing fields use json names",
			input:      &recordRequest{},
			wantFields: []string{"user_id", "kind", "session_id"},
			wantMsg:    "user_id is required",
		},
		{
			name:       "rating out of range",
			input:      &recordRequest{UserID: "u1", Kind: "rating", Rating: intPtr(6), SessionID: "s"},
			wantFields: []string{"rating"},
			wantMsg:    "rating must be at most 5",
		},
		{
			name:       "unknown kind",
			input:      &recordRequest{UserID: "u1", Kind: "share", SessionID: "s"},
			wantFields: []string{"kind"},
			wantMsg:    "kind must be one of: view, rating, wishlist",
		},
		{
			name:       "blank id",
			input:      &recordRequest{UserID: "   ", Kind: "view", SessionID: "s"},
			wantFields: []string{"user_id"},
		},
		{
			name:       "id with slash",
			input:      &recordRequest{UserID: "a/b", Kind: "view", SessionID: "s"},
			wantFields: []string{"user_id"},
		},
		{
			name:       "long session",
			input:      &recordRequest{UserID: "u1", Kind: "view", SessionID: strings.Repeat("s", 129)},
			wantFields: []string{"session_id"},
			wantMsg:    "session_id must be at most 128 characters",
		},
		{
			name:       "query tag name",
			input:      &limitQuery{Limit: 101},
			wantFields: []string{"limit"},
			wantMsg:    "limit must be at most 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if len(tt.wantFields) == 0 {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Fatalf("fields = %+v, want %v", verr.Fields, tt.wantFields)
			}
			for i, f := range tt.wantFields {
				if verr.Fields[i].Field != f {
					t.Errorf("Fields[%d].Field = %q, want %q", i, verr.Fields[i].Field, f)
				}
			}
			if tt.wantMsg != "" && verr.Fields[0].Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", verr.Fields[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	verr := ValidateStruct(&recordRequest{UserID: "u1", Kind: "rating", Rating: intPtr(0), SessionID: "s"})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	apiErr := verr.ToAPIError()
	if apiErr.Code != ErrorCode {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrorCode)
	}
	if apiErr.Message != "rating must be at least 1" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Details should list fields")
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "validation failed" || empty.Details != nil {
		t.Errorf("empty ToAPIError() = %+v", empty)
	}
}
