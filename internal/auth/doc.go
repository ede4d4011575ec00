// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

/*
Package auth verifies the bearer credentials minted by the web application's
login flow and turns them into an AuthSubject.

Tokens are HS256 JWTs carrying the claims

	{"id": "...", "email": "...", "role": "USER" | "ADMIN", "name": "..."}

and arrive either in an "Authorization: Bearer" header or in the "token"
cookie. This package does not issue sessions for end users; GenerateToken
exists for the streamctl tool and for tests.

Usage:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(auth.NewJWTAuthenticator(jwtManager))
	r.Use(mw.Identify)

	// in a handler
	subject := auth.GetAuthSubject(r.Context()) // nil when unauthenticated

Identify never rejects a request: an absent or invalid credential leaves the
context without a subject, and the handler (or Require) decides what that
means.
*/
package auth
