// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package services wraps long-running components as suture services.
//
//   - EventRouterService: the interaction event router (data layer)
//   - RecommendService: scheduled cache regeneration (jobs layer)
//   - HTTPServerService: the API server (api layer)
package services
