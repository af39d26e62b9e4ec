// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package authz

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnforcerEmbeddedPolicy(t *testing.T) {
	e, err := NewEnforcer(EnforcerConfig{DefaultRole: RoleUser, AdminRole: RoleAdmin})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	tests := []struct {
		role, object, action string
		want                 bool
	}{
		{"user", ObjectRecommendations, ActionRead, true},
		{"user", ObjectRecommendations, ActionGenerate, false},
		{"user", ObjectStats, ActionRead, false},
		{"admin", ObjectRecommendations, ActionRead, true},
		{"admin", ObjectRecommendations, ActionGenerate, true},
		{"admin", ObjectStats, ActionRead, true},
		{"guest", ObjectRecommendations, ActionRead, false},
		{"", ObjectRecommendations, ActionRead, true},
		{"", ObjectRecommendations, ActionGenerate, false},
	}
	for _, tt := range tests {
		got, err := e.Enforce(tt.role, tt.object, tt.action)
		if err != nil {
			t.Fatalf("Enforce(%q, %q, %q) error = %v", tt.role, tt.object, tt.action, err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%q, %q, %q) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
		}
	}

	if len(e.Policy()) != 3 {
		t.Errorf("Policy() has %d rules, want 3", len(e.Policy()))
	}
}

func TestEnforcerRoleAliases(t *testing.T) {
	e, err := NewEnforcer(EnforcerConfig{DefaultRole: "reader", AdminRole: "librarian"})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	if ok, _ := e.Enforce("librarian", ObjectRecommendations, ActionGenerate); !ok {
		t.Error("librarian should inherit admin")
	}
	if ok, _ := e.Enforce("reader", ObjectRecommendations, ActionRead); !ok {
		t.Error("reader should inherit user")
	}
	if ok, _ := e.Enforce("reader", ObjectStats, ActionRead); ok {
		t.Error("reader must not read stats")
	}
}

func TestEnforcerNoDefaultRole(t *testing.T) {
	e, err := NewEnforcer(EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	if ok, _ := e.Enforce("", ObjectRecommendations, ActionRead); ok {
		t.Error("empty role without a default should be denied")
	}
}

func TestEnforcerPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.csv")
	policy := "p, editor, recommendations, generate\n"
	if err := os.WriteFile(path, []byte(policy), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e, err := NewEnforcer(EnforcerConfig{PolicyPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	if ok, _ := e.Enforce("editor", ObjectRecommendations, ActionGenerate); !ok {
		t.Error("editor should be allowed by the file policy")
	}
	if ok, _ := e.Enforce("admin", ObjectRecommendations, ActionGenerate); ok {
		t.Error("file policy replaces the embedded policy")
	}
}

func TestLoadEmbeddedPolicyRejectsMalformed(t *testing.T) {
	e, err := NewEnforcer(EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	if err := loadEmbeddedPolicy(e.enforcer, "p, only-two\n"); err == nil {
		t.Error("loadEmbeddedPolicy() expected error for malformed line")
	}
}
