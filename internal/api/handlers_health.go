// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthStatus is the data of GET /health.
type HealthStatus struct {
	Status            string  `json:"status"` // healthy or degraded
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	CacheConnected    bool    `json:"cache_connected"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Health handles GET /health. It answers 200 while degraded; the status
// field carries the verdict.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	dbConnected := h.database != nil && h.database.Ping(ctx) == nil
	_, cacheErr := h.cacheStats.Stats(ctx)
	cacheConnected := cacheErr == nil

	status := "healthy"
	if !dbConnected || !cacheConnected {
		status = "degraded"
	}

	respondSuccess(w, r, http.StatusOK, HealthStatus{
		Status:            status,
		Version:           Version,
		DatabaseConnected: dbConnected,
		CacheConnected:    cacheConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}, start)
}
