// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/models"
)

const maxSessionIDLength = 128

// RecordRequest is a reader interaction to store.
type RecordRequest struct {
	UserID     string
	BookID     string
	Kind       models.InteractionKind
	Rating     *int
	TimeOnPage *int
	SessionID  string
}

// InteractionPublisher hands recorded interactions to asynchronous
// consumers, which apply the book metric update.
type InteractionPublisher interface {
	PublishInteraction(ctx context.Context, in *models.Interaction) error
}

// Recorder validates and stores interactions, then updates book metrics.
type Recorder struct {
	catalog      Catalog
	interactions InteractionLog
	publisher    InteractionPublisher
	logger       zerolog.Logger
	now          func() time.Time
}

// NewRecorder creates a recorder. With a nil publisher, metrics are updated
// synchronously.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecorder(catalog Catalog, interactions InteractionLog, publisher InteractionPublisher, logger zerolog.Logger) *Recorder {
	return &Recorder{
		catalog:      catalog,
		interactions: interactions,
		publisher:    publisher,
		logger:       logger.With().Str("component", "recorder").Logger(),
		now:          time.Now,
	}
}

// Record stores an interaction. A failed metric update is logged and does
// not fail the call.
func (r *Recorder) Record(ctx context.Context, req *RecordRequest) (*models.Interaction, error) {
	if err := validateRecord(req); err != nil {
		return nil, err
	}

	book, err := r.catalog.FindByID(ctx, req.BookID)
	if err != nil {
		return nil, computation("find book", err)
	}
	if book == nil {
		return nil, notFound("book", req.BookID)
	}

	in := &models.Interaction{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		BookID:     req.BookID,
		Kind:       req.Kind,
		TimeOnPage: req.TimeOnPage,
		SessionID:  req.SessionID,
		Timestamp:  r.now().UTC(),
	}
	if req.Kind == models.KindRating {
		in.RatingValue = req.Rating
	}

	if err := r.interactions.Append(ctx, in); err != nil {
		return nil, computation("append interaction", err)
	}

	r.applyMetrics(ctx, in)
	return in, nil
}

func (r *Recorder) applyMetrics(ctx context.Context, in *models.Interaction) {
	if r.publisher != nil {
		err := r.publisher.PublishInteraction(ctx, in)
		if err == nil {
			return
		}
		r.logger.Warn().Str("interaction_id", in.ID).Err(err).Msg("publish failed, updating metrics inline")
	}

	delta := models.DeltaFor(in)
	if delta.Empty() {
		return
	}
	if err := r.catalog.UpdateMetrics(ctx, in.BookID, delta); err != nil {
		r.logger.Error().
			Str("interaction_id", in.ID).
			Str("book_id", in.BookID).
			Err(err).
			Msg("book metrics update failed")
	}
}

func validateRecord(req *RecordRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if err := ValidateID("user id", req.UserID); err != nil {
		return err
	}
	if err := ValidateID("book id", req.BookID); err != nil {
		return err
	}
	if !req.Kind.Valid() {
		return fmt.Errorf("%w: unknown interaction type %q", ErrInvalidInput, req.Kind)
	}

	session := strings.TrimSpace(req.SessionID)
	if session == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if len(session) > maxSessionIDLength {
		return fmt.Errorf("%w: session id longer than %d", ErrInvalidInput, maxSessionIDLength)
	}

	switch req.Kind {
	case models.KindRating:
		if req.Rating == nil {
			return fmt.Errorf("%w: rating value is required for rating interactions", ErrInvalidInput)
		}
		if *req.Rating < 1 || *req.Rating > 5 {
			return fmt.Errorf("%w: rating value must be between 1 and 5, got %d", ErrInvalidInput, *req.Rating)
		}
	case models.KindView:
		if req.TimeOnPage == nil {
			return fmt.Errorf("%w: time on page is required for view interactions", ErrInvalidInput)
		}
		if *req.TimeOnPage < 0 {
			return fmt.Errorf("%w: time on page must not be negative", ErrInvalidInput)
		}
	}
	return nil
}
