// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package config loads application configuration with koanf.
//
// Sources are layered, later layers overriding earlier ones:
//
//  1. Built-in defaults (structs provider)
//  2. An optional YAML file: $CONFIG_PATH, ./config.yaml or /etc/shelfwise/config.yaml
//  3. Environment variables, mapped through an explicit table
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engineCfg := cfg.Recommend.EngineConfig()
//
// Common environment variables:
//
//	HTTP_PORT            server.port (default 8080)
//	DUCKDB_PATH          database.path
//	CACHE_PATH           cache.path (BadgerDB directory)
//	JWT_SECRET           security.jwt_secret (>= 32 chars in jwt mode)
//	AUTH_MODE            security.auth_mode (jwt or none)
//	LOG_LEVEL            logging.level
//	RECOMMEND_SCHEDULE   recommend.schedule (0 disables the scheduler)
//	CACHE_TTL            recommend.cache_ttl
package config
