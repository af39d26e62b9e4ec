// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Security.AuthMode != AuthModeJWT {
		t.Errorf("Security.AuthMode = %q, want jwt", cfg.Security.AuthMode)
	}
	if cfg.Recommend.Schedule != 6*time.Hour {
		t.Errorf("Recommend.Schedule = %v, want 6h", cfg.Recommend.Schedule)
	}
	if cfg.Recommend.ContentThreshold != 0.30 {
		t.Errorf("Recommend.ContentThreshold = %v, want 0.30", cfg.Recommend.ContentThreshold)
	}
	if cfg.Recommend.CacheTTL != 24*time.Hour {
		t.Errorf("Recommend.CacheTTL = %v, want 24h", cfg.Recommend.CacheTTL)
	}
	if cfg.API.DefaultPageSize != 20 {
		t.Errorf("API.DefaultPageSize = %d, want 20", cfg.API.DefaultPageSize)
	}

	// Without a secret the defaults are rejected in jwt mode.
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("Validate() = %v, want JWT_SECRET error", err)
	}

	cfg.Security.JWTSecret = testSecret
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with secret = %v, want nil", err)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CACHE_TTL", "12h")
	t.Setenv("RECOMMEND_WORKERS", "8")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Recommend.CacheTTL != 12*time.Hour {
		t.Errorf("Recommend.CacheTTL = %v, want 12h", cfg.Recommend.CacheTTL)
	}
	if cfg.Recommend.Batch.Workers != 8 {
		t.Errorf("Recommend.Batch.Workers = %d, want 8", cfg.Recommend.Batch.Workers)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadFileLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 7000
security:
  jwt_secret: ` + testSecret + `
recommend:
  schedule: 0s
  quotas:
    hybrid_content: 0.2
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// env wins over the file
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want 7100", cfg.Server.Port)
	}
	if cfg.Recommend.Schedule != 0 {
		t.Errorf("Recommend.Schedule = %v, want 0", cfg.Recommend.Schedule)
	}
	if cfg.Recommend.Quotas.HybridContent != 0.2 {
		t.Errorf("Quotas.HybridContent = %v, want 0.2", cfg.Recommend.Quotas.HybridContent)
	}
	// untouched keys keep their defaults
	if cfg.Recommend.Quotas.HybridCollaborative != 0.4 {
		t.Errorf("Quotas.HybridCollaborative = %v, want 0.4", cfg.Recommend.Quotas.HybridCollaborative)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFile(absent) error = nil, want error")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"CACHE_TTL", "recommend.cache_ttl"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
