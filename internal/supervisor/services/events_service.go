// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// EventRouter is the lifecycle of the interaction event router. Satisfied
// by *events.Bus.
type EventRouter interface {
	Run(ctx context.Context) error
}

// EventRouterService runs the event router under supervision.
type EventRouterService struct {
	router EventRouter
	logger zerolog.Logger
	name   string
}

// NewEventRouterService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventRouterService(router EventRouter, logger zerolog.Logger) *EventRouterService {
	return &EventRouterService{
		router: router,
		logger: logger.With().Str("service", "events").Logger(),
		name:   "event-router",
	}
}

// Serve implements suture.Service. Run returns when ctx is cancelled.
func (s *EventRouterService) Serve(ctx context.Context) error {
	s.logger.Info().Msg("event router starting")
	if err := s.router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	// router closed without cancellation: let suture restart it
	return fmt.Errorf("event router stopped unexpectedly")
}

// String implements fmt.Stringer for suture logs.
func (s *EventRouterService) String() string {
	return s.name
}
