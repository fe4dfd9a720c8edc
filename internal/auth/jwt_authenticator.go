// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/mealpick/internal/config"
)

// localIssuer marks subjects from tokens without an iss claim.
const localIssuer = "local"

// JWTAuthenticator implements Authenticator for HS256 bearer tokens.
type JWTAuthenticator struct {
	manager *JWTManager
}

// NewJWTAuthenticator creates an authenticator from the security configuration.
func NewJWTAuthenticator(cfg *config.SecurityConfig) (*JWTAuthenticator, error) {
	manager, err := NewJWTManager(cfg)
	if err != nil {
		return nil, err
	}
	return &JWTAuthenticator{manager: manager}, nil
}

// Manager returns the underlying token manager.
func (a *JWTAuthenticator) Manager() *JWTManager {
	return a.manager
}

// Authenticate extracts and validates the bearer token from the request.
func (a *JWTAuthenticator) Authenticate(_ context.Context, r *http.Request) (*AuthSubject, error) {
	tokenStr := bearerToken(r)
	if tokenStr == "" {
		return nil, ErrNoCredentials
	}

	claims, err := a.manager.ValidateToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredentials
		}
		return nil, ErrInvalidCredentials
	}

	return subjectFromClaims(claims), nil
}

// Name returns the authenticator name.
func (a *JWTAuthenticator) Name() string {
	return string(AuthModeJWT)
}

func subjectFromClaims(claims *Claims) *AuthSubject {
	subject := &AuthSubject{
		ID:         claims.Subject,
		Username:   claims.Username,
		Email:      claims.Email,
		Issuer:     claims.Issuer,
		AuthMethod: AuthModeJWT,
	}
	if subject.Issuer == "" {
		subject.Issuer = localIssuer
	}
	if claims.ExpiresAt != nil {
		subject.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return subject
}

var _ Authenticator = (*JWTAuthenticator)(nil)
