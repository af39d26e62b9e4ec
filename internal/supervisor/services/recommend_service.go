// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Generator runs one batch regeneration of the recommendation cache.
// Satisfied by *recommend.Engine.
type Generator interface {
	Generate(ctx context.Context) (*recommend.GenerateReport, error)
}

// RecommendServiceConfig holds configuration for the recommendation service.
type RecommendServiceConfig struct {
	// GenerateOnStart runs a batch as soon as the service starts.
	GenerateOnStart bool

	// Schedule is the interval between batches. Zero disables scheduling.
	Schedule time.Duration

	// RunTimeout bounds a single batch. Default: 30m
	RunTimeout time.Duration
}

// RecommendService regenerates the recommendation cache on a schedule.
type RecommendService struct {
	generator Generator
	config    RecommendServiceConfig
	logger    zerolog.Logger
	name      string
}

// NewRecommendService creates a new recommendation service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommendService(generator Generator, cfg RecommendServiceConfig, logger zerolog.Logger) *RecommendService {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Minute
	}
	return &RecommendService{
		generator: generator,
		config:    cfg,
		logger:    logger.With().Str("service", "recommend").Logger(),
		name:      "recommend-service",
	}
}

// Serve implements the suture.Service interface.
func (s *RecommendService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("generate_on_start", s.config.GenerateOnStart).
		Dur("schedule", s.config.Schedule).
		Msg("recommendation service starting")

	if s.config.GenerateOnStart {
		s.run(ctx, "startup")
	}

	if s.config.Schedule <= 0 {
		s.logger.Info().Msg("scheduled regeneration disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Schedule)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recommendation service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.run(ctx, "schedule")
		}
	}
}

// run performs one batch. Failures are logged; the next tick retries.
func (s *RecommendService) run(ctx context.Context, trigger string) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	report, err := s.generator.Generate(runCtx)
	switch {
	case errors.Is(err, recommend.ErrGenerateInProgress):
		s.logger.Info().Str("trigger", trigger).Msg("batch already running, skipping")
	case err != nil:
		event := s.logger.Warn().Str("trigger", trigger).Err(err)
		if report != nil {
			event = event.Int64("failures", report.Failures)
		}
		event.Msg("batch regeneration failed")
	default:
		s.logger.Info().
			Str("trigger", trigger).
			Int("books", report.Books).
			Int("users", report.Users).
			Int64("content_entries", report.ContentEntries).
			Int64("collaborative_entries", report.CollaborativeEntries).
			Int64("failures", report.Failures).
			Dur("duration", report.Duration).
			Msg("batch regeneration complete")
	}
}

// String returns the service name for logging.
func (s *RecommendService) String() string {
	return s.name
}
