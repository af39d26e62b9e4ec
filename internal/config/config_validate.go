// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Auth modes accepted by security.auth_mode.
const (
	AuthModeJWT  = "jwt"
	AuthModeNone = "none"
)

// minJWTSecretLength is the shortest HS256 secret accepted in jwt mode.
const minJWTSecretLength = 32

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateServer(),
		c.validateDatabase(),
		c.validateCache(),
		c.validateAPI(),
		c.validateSecurity(),
		c.validateLogging(),
		c.validateRecommend(),
	)
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.InMemory && c.Cache.Path == "" {
		return fmt.Errorf("CACHE_PATH is required unless CACHE_IN_MEMORY=true")
	}
	if c.Cache.BreakerEnabled {
		if c.Cache.BreakerFailures == 0 {
			return fmt.Errorf("CACHE_BREAKER_FAILURES must be positive")
		}
		if c.Cache.BreakerTimeout <= 0 {
			return fmt.Errorf("CACHE_BREAKER_TIMEOUT must be positive, got %v", c.Cache.BreakerTimeout)
		}
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be >= API_DEFAULT_PAGE_SIZE (%d)", c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case AuthModeNone:
		return nil
	case AuthModeJWT:
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeJWT, AuthModeNone, c.Security.AuthMode)
	}

	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", minJWTSecretLength)
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %v", c.Security.TokenTTL)
	}
	if c.Security.AdminRole == "" || c.Security.DefaultRole == "" {
		return fmt.Errorf("admin_role and default_role are required")
	}
	if !c.Security.RateLimitDisabled && (c.Security.RateLimitReqs < 1 || c.Security.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT=true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be trace, debug, info, warn or error, got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.Schedule < 0 {
		return fmt.Errorf("RECOMMEND_SCHEDULE must be non-negative, got %v", c.Recommend.Schedule)
	}
	if err := c.Recommend.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// AuthEnabled reports whether requests carry JWT bearer tokens.
func (c *Config) AuthEnabled() bool {
	return c.Security.AuthMode == AuthModeJWT
}
