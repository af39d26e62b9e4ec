// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package api provides the HTTP REST API for Shelfwise.

Routes are mounted on a chi router by Router.SetupChi:

	GET  /health
	GET  /metrics

	GET  /api/v1/books                         ?page&limit&genres&authors&minRating&maxRating
	GET  /api/v1/books/genres
	GET  /api/v1/books/authors
	GET  /api/v1/books/{id}
	GET  /api/v1/books/{id}/similar            ?limit

	POST /api/v1/interactions
	GET  /api/v1/interactions/user/{userId}    ?page&limit
	GET  /api/v1/interactions/book/{bookId}    ?page&limit
	GET  /api/v1/interactions/stats            ?userId&bookId
	GET  /api/v1/interactions/active-users     ?limit

	GET  /api/v1/recommendations/content/{bookId}        ?limit
	GET  /api/v1/recommendations/collaborative/{userId}  ?limit
	GET  /api/v1/recommendations/user                    ?limit  (JWT)
	GET  /api/v1/recommendations/hybrid                  ?limit  (JWT)
	POST /api/v1/recommendations/generate                        (JWT, admin)
	GET  /api/v1/recommendations/stats                           (JWT, admin)

Every response uses the models.APIResponse envelope. Errors carry an
APIError code:

	VALIDATION_ERROR      400  malformed id, query parameter or body
	AUTHENTICATION_ERROR  401  missing or invalid bearer token
	AUTH_DISABLED         401  authenticated route with AUTH_MODE=none
	AUTHORIZATION_ERROR   403  role may not perform the action
	NOT_FOUND             404  unknown book or user
	CONFLICT              409  a regeneration is already running
	RATE_LIMIT_EXCEEDED   429  per-IP limit reached
	PAYLOAD_TOO_LARGE     413  request body over 64KB
	INTERNAL_ERROR        500  storage or computation failure
	TIMEOUT               504  request deadline exceeded

Global middleware, outermost first: request ID, real IP, panic recovery,
CORS, gzip for JSON responses. The /api/v1 group adds per-IP rate limiting
and Prometheus request metrics labelled by route pattern.
*/
package api
