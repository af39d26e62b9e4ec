// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package auth authenticates API callers with HS256 JWT bearer tokens.

Tokens carry the caller's user id, username and role. The user id is what
the personalized recommendation routes use, so a caller can only ever read
their own recommendations.

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	mw := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode)

	r.With(mw.Authenticate).Get("/recommendations/user", h.UserRecommendations)

Handlers read the claims with ClaimsFromContext.

With auth mode "none" no tokens are issued or checked: public routes work
and authenticated routes answer 401.
*/
package auth
