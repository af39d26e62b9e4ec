// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"errors"
	"fmt"
	"regexp"
)

// Error kinds returned by the engine. Test with errors.Is.
var (
	// ErrNotFound means the referenced book or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means an identifier or argument is malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrComputationFailure means a collaborator call or scoring step failed.
	ErrComputationFailure = errors.New("computation failure")
)

// maxIDLength bounds identifiers accepted by the engine.
const maxIDLength = 64

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateID returns ErrInvalidInput unless id is a well-formed identifier.
func ValidateID(field, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if len(id) > maxIDLength || !idPattern.MatchString(id) {
		return fmt.Errorf("%w: malformed %s %q", ErrInvalidInput, field, id)
	}
	return nil
}

// notFound wraps ErrNotFound with the missing entity.
func notFound(entity, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
}

// computation wraps a collaborator failure as ErrComputationFailure.
// NotFound and InvalidInput pass through unchanged.
func computation(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrComputationFailure) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrComputationFailure, op, err)
}
