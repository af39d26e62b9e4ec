// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package models

import "time"

// APIResponse is the envelope of every HTTP response.
//
// Status is "success" with Data populated, or "error" with Error populated:
//
//	{
//	  "status": "success",
//	  "data": {"recommendations": [...]},
//	  "metadata": {"timestamp": "2026-10-14T12:00:00Z", "query_time_ms": 12}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable error.
//
// Codes used by the API:
//   - VALIDATION_ERROR: malformed parameter or body
//   - NOT_FOUND: book or user does not exist
//   - AUTHENTICATION_ERROR: missing or invalid token
//   - AUTHORIZATION_ERROR: role lacks permission
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - INTERNAL_ERROR: computation or storage failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Pagination is offset pagination metadata.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes page metadata for total records.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// BookPage is one page of catalog results.
type BookPage struct {
	Books      []Book     `json:"books"`
	Pagination Pagination `json:"pagination"`
}
