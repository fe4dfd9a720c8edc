// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AuthMode represents the authentication strategy.
type AuthMode string

const (
	// AuthModeJWT uses HS256 bearer tokens signed with a shared secret.
	AuthModeJWT AuthMode = "jwt"

	// AuthModeOIDC uses ID tokens issued by an OpenID Connect provider.
	AuthModeOIDC AuthMode = "oidc"
)

// ParseAuthMode converts a string to AuthMode.
func ParseAuthMode(s string) (AuthMode, error) {
	switch AuthMode(strings.ToLower(strings.TrimSpace(s))) {
	case AuthModeJWT:
		return AuthModeJWT, nil
	case AuthModeOIDC:
		return AuthModeOIDC, nil
	default:
		return "", fmt.Errorf("invalid auth mode: %q", s)
	}
}

// String returns the string representation of AuthMode.
func (m AuthMode) String() string {
	return string(m)
}

// Standard authentication errors
var (
	// ErrNoCredentials indicates no credentials were provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates credentials were invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates credentials have expired.
	ErrExpiredCredentials = errors.New("credentials expired")

	// ErrAuthenticatorUnavailable indicates the auth provider is unreachable.
	ErrAuthenticatorUnavailable = errors.New("authenticator unavailable")
)

// Authenticator extracts and verifies the caller identity of a request.
type Authenticator interface {
	// Authenticate returns the verified subject, or one of the errors above
	// (possibly wrapped).
	Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error)

	// Name returns the authenticator's name for logging.
	Name() string
}

// AuthSubject is a verified caller.
type AuthSubject struct {
	// ID is the 'sub' claim. History is stored under this id.
	ID string `json:"id"`

	// Username is 'preferred_username' or 'name' when the token carries one.
	Username string `json:"username,omitempty"`

	Email string `json:"email,omitempty"`

	// Issuer is the 'iss' claim, or "local" for unissued JWTs.
	Issuer string `json:"issuer,omitempty"`

	AuthMethod AuthMode `json:"auth_method"`

	// ExpiresAt is the token expiry in unix seconds, 0 if none.
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

type contextKey string

// AuthSubjectContextKey is the context key for AuthSubject.
const AuthSubjectContextKey contextKey = "auth_subject"

// ContextWithSubject returns a copy of ctx carrying subject.
func ContextWithSubject(ctx context.Context, subject *AuthSubject) context.Context {
	return context.WithValue(ctx, AuthSubjectContextKey, subject)
}

// SubjectFromContext returns the authenticated subject, or nil.
func SubjectFromContext(ctx context.Context) *AuthSubject {
	subject, ok := ctx.Value(AuthSubjectContextKey).(*AuthSubject)
	if !ok {
		return nil
	}
	return subject
}

// UserIDFromContext returns the authenticated subject id, or "" when the
// request is anonymous.
func UserIDFromContext(ctx context.Context) string {
	if s := SubjectFromContext(ctx); s != nil {
		return s.ID
	}
	return ""
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
