// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/tomtom215/ledgerline/internal/logging"
)

// TokenCookieName is the session cookie set by the main application.
const TokenCookieName = "token"

// BearerToken returns the credential of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// SecretMatches compares a caller-supplied secret with the configured one in
// constant time. An empty configured secret matches nothing.
func SecretMatches(provided, configured string) bool {
	if configured == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(configured)) == 1
}

// Middleware attaches the session actor to requests.
type Middleware struct {
	jwtManager *JWTManager
}

// NewMiddleware creates session middleware backed by jwtManager.
func NewMiddleware(jwtManager *JWTManager) *Middleware {
	return &Middleware{jwtManager: jwtManager}
}

// Identify validates a session token from the Authorization header or the
// token cookie and stores the resulting Actor in the request context.
// Requests without a valid token continue with no actor; the operation
// decides whether that is acceptable.
func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			if cookie, err := r.Cookie(TokenCookieName); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Session token rejected")
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), claims.Actor())))
	})
}
