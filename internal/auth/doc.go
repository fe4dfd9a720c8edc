// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

/*
Package auth establishes the caller identity for API requests.

Every suggestion and history request must carry a bearer token. The token is
verified by one Authenticator, selected by AUTH_MODE:

  - jwt: HS256 tokens signed with JWT_SECRET (golang-jwt/jwt/v5). Issuer and
    audience are checked when JWT_ISSUER / JWT_AUDIENCE are set.
  - oidc: ID tokens from an OpenID Connect provider, verified against the
    provider's JWKS by the zitadel/oidc relying party.

The subject ("sub" claim) becomes the user id under which history is stored.

Middleware rejects requests without a valid token before any handler runs,
so no external call is made on behalf of an unauthenticated caller:

	authn, err := auth.NewJWTAuthenticator(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(authn, api.RespondAuthError)
	r.With(mw.Authenticate).Post("/api/v1/suggestions", h.Suggest)

Handlers read the caller with SubjectFromContext or UserIDFromContext.
*/
package auth
