// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package identity

import (
	"errors"
	"net/http"

	"github.com/eterstore/eterstore/internal/logging"
)

// Middleware attaches the request's Principal to the context when a
// valid session token is present. It never rejects a request: missing
// or invalid sessions simply leave the context without a principal, and
// the authorization gate downstream decides what to do about that.
// Keeping this attach-only means one token parse per request no matter
// how many enforcement points consult the principal.
func Middleware(sessions *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := sessions.Principal(r)
			if err != nil {
				if !errors.Is(err, ErrNoSession) {
					// A present-but-invalid token is worth logging;
					// a bare request is not.
					logging.Ctx(r.Context()).Debug().
						Err(err).
						Str("path", r.URL.Path).
						Msg("Session token rejected")
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
