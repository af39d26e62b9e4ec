// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeValidation     = validation.ErrorCode
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeRateLimited    = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeBodyTooLarge   = "PAYLOAD_TOO_LARGE"
	ErrCodeServiceTimeout = "TIMEOUT"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondSuccess wraps data in a success envelope timed from start.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			RequestID:   logging.RequestIDFromContext(r.Context()),
		},
	})
}

// respondError sends an error response. err, when set, is logged and never
// sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondAPIError(w, r, status, &models.APIError{Code: code, Message: message}, err)
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Str("code", sanitizeLogValue(apiErr.Code)).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: apiErr,
	})
}

// respondEngineError maps recommend error kinds onto HTTP statuses.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidInput):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
	case errors.Is(err, recommend.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, err.Error(), nil)
	case errors.Is(err, recommend.ErrGenerateInProgress):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "Recommendation generation is already running", nil)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeServiceTimeout, "Request timed out", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute recommendations", err)
	}
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr.ToAPIError()
	}
	return nil
}

// decodeJSONBody decodes a bounded JSON body into dst, rejecting unknown
// fields and trailing data.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) *models.APIError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return &models.APIError{Code: ErrCodeBodyTooLarge, Message: "request body too large"}
		case errors.Is(err, io.EOF):
			return &models.APIError{Code: ErrCodeValidation, Message: "request body is required"}
		default:
			return &models.APIError{Code: ErrCodeValidation, Message: "invalid JSON body: " + err.Error()}
		}
	}
	if dec.More() {
		return &models.APIError{Code: ErrCodeValidation, Message: "request body must contain a single JSON object"}
	}
	return nil
}

// statusFor picks the HTTP status of a body decoding failure.
func statusFor(apiErr *models.APIError) int {
	if apiErr.Code == ErrCodeBodyTooLarge {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// queryParams parses typed query parameters, collecting every malformed
// value so one response reports all of them.
type queryParams struct {
	values url.Values
	errs   []validation.FieldError
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query()}
}

func (q *queryParams) String(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

// Int returns the parameter, or def when it is absent.
func (q *queryParams) Int(key string, def int) int {
	raw := q.String(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(key, "int", key+" must be an integer")
		return def
	}
	return v
}

// Float returns the parameter, or nil when it is absent.
func (q *queryParams) Float(key string) *float64 {
	raw := q.String(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.fail(key, "number", key+" must be a number")
		return nil
	}
	return &v
}

// List splits a comma-separated parameter. Repeated keys are concatenated.
func (q *queryParams) List(key string) []string {
	var out []string
	for _, raw := range q.values[key] {
		out = append(out, parseCommaSeparated(raw)...)
	}
	return out
}

func (q *queryParams) fail(field, tag, message string) {
	q.errs = append(q.errs, validation.FieldError{Field: field, Tag: tag, Message: message})
}

// Err returns the parse failures as a validation error, or nil.
func (q *queryParams) Err() *models.APIError {
	if len(q.errs) == 0 {
		return nil
	}
	return (&validation.RequestValidationError{Fields: q.errs}).ToAPIError()
}

// parseCommaSeparated parses a comma-separated string into a slice
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
