// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package events carries recorded interactions to the book metrics updater.

The bus is an in-process Watermill gochannel Pub/Sub. The recorder publishes
every stored interaction on TopicInteractionsRecorded; a router handler folds
it into the book's view, wishlist or rating counters.

Handler failures are retried with backoff. A message that still fails is
moved to TopicInteractionsFailed, where it is logged and counted. Malformed
payloads are dropped without retry.

Usage:

	bus, err := events.New(&cfg.Events, db.Books())
	go bus.Run(ctx)
	<-bus.Running()
	recorder := recommend.NewRecorder(db.Books(), db.Interactions(), bus, logger)

Publish returns ErrNotRunning until the router is up, so the recorder falls
back to an inline update instead of losing the metric.
*/
package events
