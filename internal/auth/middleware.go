// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/mealpick/internal/config"
	"github.com/tomtom215/mealpick/internal/logging"
)

// ErrorResponder writes the response for a rejected request. err is one of
// the package sentinels, possibly wrapped.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// Middleware enforces authentication on the routes it wraps.
type Middleware struct {
	authenticator Authenticator
	respond       ErrorResponder
}

// NewMiddleware creates a middleware. A nil respond writes plain-text errors.
func NewMiddleware(authenticator Authenticator, respond ErrorResponder) *Middleware {
	if respond == nil {
		respond = plainTextError
	}
	return &Middleware{authenticator: authenticator, respond: respond}
}

// NewAuthenticator builds the authenticator selected by cfg.AuthMode.
// In oidc mode this performs provider discovery.
func NewAuthenticator(ctx context.Context, cfg *config.SecurityConfig) (Authenticator, error) {
	mode, err := ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}
	switch mode {
	case AuthModeOIDC:
		return NewOIDCAuthenticator(ctx, &cfg.OIDC)
	default:
		return NewJWTAuthenticator(cfg)
	}
}

// Authenticate rejects requests without a valid identity and stores the
// subject in the request context (and its id in the logging context).
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := m.authenticator.Authenticate(r.Context(), r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().
				Err(err).
				Str("authenticator", m.authenticator.Name()).
				Str("path", r.URL.Path).
				Msg("Authentication failed")
			m.respond(w, r, err)
			return
		}

		ctx := ContextWithSubject(r.Context(), subject)
		ctx = logging.ContextWithUserID(ctx, subject.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StatusFor returns the HTTP status for an authentication error.
func StatusFor(err error) int {
	if errors.Is(err, ErrAuthenticatorUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusUnauthorized
}

// MessageFor returns a client-safe message for an authentication error.
func MessageFor(err error) string {
	switch {
	case errors.Is(err, ErrNoCredentials):
		return "authentication required"
	case errors.Is(err, ErrExpiredCredentials):
		return "credentials expired"
	case errors.Is(err, ErrAuthenticatorUnavailable):
		return "authentication service unavailable"
	default:
		return "invalid credentials"
	}
}

func plainTextError(w http.ResponseWriter, _ *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="mealpick"`)
	}
	http.Error(w, MessageFor(err), status)
}
