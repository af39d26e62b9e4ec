// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package authz authorizes authenticated callers by role using Casbin.
//
// The model is plain RBAC with keyMatch on objects:
//
//	m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act
//
// The embedded policy lets every user read recommendations and reserves
// batch generation and cache stats for admins:
//
//	p, user, recommendations, read
//	p, admin, recommendations, generate
//	p, admin, recommendations:stats, read
//	g, admin, user
//
// Mount Authorize after authentication:
//
//	r.With(authn.Authenticate, authzMW.Authorize(authz.ObjectRecommendations, authz.ActionGenerate)).
//	    Post("/recommendations/generate", h.Generate)
package authz
