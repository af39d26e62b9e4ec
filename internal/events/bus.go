// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package events

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/models"
)

// ErrNotRunning is returned by PublishInteraction before the router has
// subscribed. Messages published then would be dropped by gochannel.
var ErrNotRunning = errors.New("event router is not running")

const (
	metricsHandlerName    = "book_metrics"
	deadLetterHandlerName = "book_metrics_dead_letter"
)

// MetricsUpdater applies a metric delta to one book.
type MetricsUpdater interface {
	UpdateMetrics(ctx context.Context, bookID string, delta models.MetricsDelta) error
}

// Stats are cumulative handler counters.
type Stats struct {
	Published int64 `json:"published"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
	Malformed int64 `json:"malformed"`
}

// Bus owns the Pub/Sub and the router consuming it.
type Bus struct {
	pubsub  *gochannel.GoChannel
	router  *message.Router
	updater MetricsUpdater
	logger  zerolog.Logger

	published atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	malformed atomic.Int64
}

// New creates the bus and registers its handlers. Call Run to start
// consuming.
func New(cfg *config.EventsConfig, updater MetricsUpdater) (*Bus, error) {
	if updater == nil {
		return nil, fmt.Errorf("metrics updater is required")
	}
	wmLogger := watermill.NewSlogLogger(logging.NewSlogLogger())

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	b := &Bus{
		pubsub:  pubsub,
		router:  router,
		updater: updater,
		logger:  logging.WithComponent("events"),
	}

	router.AddMiddleware(middleware.Recoverer)

	poison, err := middleware.PoisonQueue(pubsub, TopicInteractionsFailed)
	if err != nil {
		return nil, fmt.Errorf("create poison queue middleware: %w", err)
	}
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryCount,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     10 * cfg.RetryInitialInterval,
		Multiplier:      2.0,
		Logger:          wmLogger,
	}

	// outermost first: exhausted retries land in the poison queue
	h := router.AddConsumerHandler(metricsHandlerName, TopicInteractionsRecorded, pubsub, b.handleInteraction)
	h.AddMiddleware(poison, retry.Middleware)

	router.AddConsumerHandler(deadLetterHandlerName, TopicInteractionsFailed, pubsub, b.handleDeadLetter)

	return b, nil
}

// PublishInteraction implements recommend.InteractionPublisher.
func (b *Bus) PublishInteraction(ctx context.Context, in *models.Interaction) error {
	select {
	case <-b.router.Running():
	default:
		return ErrNotRunning
	}
	if b.router.IsClosed() {
		return ErrNotRunning
	}

	payload, err := Marshal(in)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	msg.Metadata.Set("interaction_id", in.ID)

	if err := b.pubsub.Publish(TopicInteractionsRecorded, msg); err != nil {
		return fmt.Errorf("publish interaction: %w", err)
	}
	b.published.Add(1)
	return nil
}

func (b *Bus) handleInteraction(msg *message.Message) error {
	in, err := Unmarshal(msg.Payload)
	if err != nil {
		b.malformed.Add(1)
		b.logger.Warn().Str("message_uuid", msg.UUID).Err(err).Msg("Dropping malformed interaction event")
		return nil
	}

	delta := models.DeltaFor(in)
	if delta.Empty() {
		b.processed.Add(1)
		return nil
	}
	if err := b.updater.UpdateMetrics(msg.Context(), in.BookID, delta); err != nil {
		return fmt.Errorf("update metrics for book %s: %w", in.BookID, err)
	}
	b.processed.Add(1)
	return nil
}

func (b *Bus) handleDeadLetter(msg *message.Message) error {
	b.failed.Add(1)
	b.logger.Error().
		Str("message_uuid", msg.UUID).
		Str("interaction_id", msg.Metadata.Get("interaction_id")).
		Str("correlation_id", middleware.MessageCorrelationID(msg)).
		Str("reason", msg.Metadata.Get(middleware.ReasonForPoisonedKey)).
		Msg("Book metrics update failed after retries")
	return nil
}

// Run starts the router and blocks until ctx is cancelled or Close is
// called.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running is closed once handlers are subscribed.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// WaitRunning blocks until the router is up or timeout elapses.
func (b *Bus) WaitRunning(timeout time.Duration) bool {
	select {
	case <-b.router.Running():
		return true
	case <-time.After(timeout):
		return false
	}
}

// Close stops the router, waiting for in-flight messages, then the Pub/Sub.
func (b *Bus) Close() error {
	return errors.Join(b.router.Close(), b.pubsub.Close())
}

// Stats returns a snapshot of the handler counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Processed: b.processed.Load(),
		Failed:    b.failed.Load(),
		Malformed: b.malformed.Load(),
	}
}
