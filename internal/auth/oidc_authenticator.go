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
	"time"

	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/oidc"

	"github.com/tomtom215/mealpick/internal/config"
	"github.com/tomtom215/mealpick/internal/logging"
)

// discoveryTimeout bounds HTTP calls to the provider (discovery and JWKS).
const discoveryTimeout = 10 * time.Second

// TokenVerifier verifies a raw ID token and returns its claims.
type TokenVerifier func(ctx context.Context, token string) (*oidc.IDTokenClaims, error)

// OIDCAuthenticator implements Authenticator for ID tokens issued by an
// OpenID Connect provider. Verification (signature against the provider
// JWKS, issuer, audience = client id, expiry, algorithm) is delegated to the
// zitadel relying party.
type OIDCAuthenticator struct {
	issuer string
	verify TokenVerifier
}

// NewOIDCAuthenticator performs provider discovery and returns an
// authenticator bound to the discovered keys.
func NewOIDCAuthenticator(ctx context.Context, cfg *config.OIDCConfig) (*OIDCAuthenticator, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID}
	}

	relyingParty, err := rp.NewRelyingPartyOIDC(ctx,
		cfg.IssuerURL,
		cfg.ClientID,
		cfg.ClientSecret,
		"",
		scopes,
		rp.WithHTTPClient(&http.Client{Timeout: discoveryTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: OIDC discovery for %s: %v", ErrAuthenticatorUnavailable, cfg.IssuerURL, err)
	}

	verifier := relyingParty.IDTokenVerifier()
	return NewOIDCAuthenticatorWithVerifier(relyingParty.Issuer(), func(ctx context.Context, token string) (*oidc.IDTokenClaims, error) {
		return rp.VerifyIDToken[*oidc.IDTokenClaims](ctx, token, verifier)
	}), nil
}

// NewOIDCAuthenticatorWithVerifier builds an authenticator around an
// existing verifier.
func NewOIDCAuthenticatorWithVerifier(issuer string, verify TokenVerifier) *OIDCAuthenticator {
	return &OIDCAuthenticator{issuer: issuer, verify: verify}
}

// Authenticate extracts and verifies the bearer token from the request.
func (a *OIDCAuthenticator) Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error) {
	tokenStr := bearerToken(r)
	if tokenStr == "" {
		return nil, ErrNoCredentials
	}

	claims, err := a.verify(ctx, tokenStr)
	if err != nil {
		return nil, mapVerificationError(err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidCredentials)
	}

	return subjectFromIDToken(claims), nil
}

// Name returns the authenticator name.
func (a *OIDCAuthenticator) Name() string {
	return string(AuthModeOIDC)
}

// Issuer returns the OIDC issuer URL.
func (a *OIDCAuthenticator) Issuer() string {
	return a.issuer
}

func subjectFromIDToken(claims *oidc.IDTokenClaims) *AuthSubject {
	username := claims.PreferredUsername
	if username == "" {
		username = claims.Name
	}
	subject := &AuthSubject{
		ID:         claims.Subject,
		Username:   username,
		Email:      claims.Email,
		Issuer:     claims.Issuer,
		AuthMethod: AuthModeOIDC,
	}
	if exp := claims.Expiration.AsTime().Unix(); exp > 0 {
		subject.ExpiresAt = exp
	}
	return subject
}

// mapVerificationError maps verifier errors to the package sentinels.
func mapVerificationError(err error) error {
	if errors.Is(err, oidc.ErrExpired) || strings.Contains(err.Error(), "expired") {
		return ErrExpiredCredentials
	}

	switch {
	case errors.Is(err, oidc.ErrIssuerInvalid):
		logging.Warn().Err(err).Msg("Token issuer mismatch")
		return fmt.Errorf("%w: issuer mismatch", ErrInvalidCredentials)
	case errors.Is(err, oidc.ErrAudience):
		logging.Warn().Err(err).Msg("Token audience mismatch")
		return fmt.Errorf("%w: audience mismatch", ErrInvalidCredentials)
	}

	logging.Debug().Err(err).Msg("Token verification failed")
	return fmt.Errorf("%w: %s", ErrInvalidCredentials, err.Error())
}

var _ Authenticator = (*OIDCAuthenticator)(nil)
