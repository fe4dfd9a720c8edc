// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// minJWTSecretLength is the shortest HS256 secret accepted.
const minJWTSecretLength = 32

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validatePlaces(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "jwt":
		if len(c.Security.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", minJWTSecretLength)
		}
	case "oidc":
		if c.Security.OIDC.IssuerURL == "" {
			return fmt.Errorf("OIDC_ISSUER_URL is required when AUTH_MODE=oidc")
		}
		// Issuers may carry a path (e.g. /realms/meals), so only scheme and host are checked.
		if u, err := url.Parse(c.Security.OIDC.IssuerURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("OIDC_ISSUER_URL must be an http(s) URL, got %q", c.Security.OIDC.IssuerURL)
		}
		if c.Security.OIDC.ClientID == "" {
			return fmt.Errorf("OIDC_CLIENT_ID is required when AUTH_MODE=oidc")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be one of jwt, oidc, got %q", c.Security.AuthMode)
	}

	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* is not allowed when ENVIRONMENT=production; list the allowed origins")
	}

	return c.validateRateLimits()
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validatePlaces() error {
	if err := validateHTTPURL(c.Places.BaseURL, "PLACES_BASE_URL"); err != nil {
		return err
	}
	if c.Places.Timeout <= 0 {
		return fmt.Errorf("PLACES_TIMEOUT must be positive, got %v", c.Places.Timeout)
	}
	if c.Places.PlaceType == "" {
		return fmt.Errorf("PLACES_TYPE must not be empty")
	}
	if c.Places.MaxResults < 1 || c.Places.MaxResults > 20 {
		return fmt.Errorf("PLACES_MAX_RESULTS must be between 1 and 20, got %d", c.Places.MaxResults)
	}
	if c.Places.Breaker.Enabled && c.Places.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("PLACES_BREAKER_FAILURE_THRESHOLD must be positive when the breaker is enabled")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.CacheCollection == "" || c.Store.HistoryCollection == "" {
		return fmt.Errorf("STORE_CACHE_COLLECTION and STORE_HISTORY_COLLECTION must not be empty")
	}
	if c.Store.CacheTTL < 0 {
		return fmt.Errorf("STORE_CACHE_TTL must not be negative, got %v", c.Store.CacheTTL)
	}

	switch c.Store.Backend {
	case "mongo":
		if c.Store.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_BACKEND=mongo")
		}
		if !strings.HasPrefix(c.Store.Mongo.URI, "mongodb://") && !strings.HasPrefix(c.Store.Mongo.URI, "mongodb+srv://") {
			return fmt.Errorf("MONGO_URI must start with mongodb:// or mongodb+srv://")
		}
		if c.Store.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DATABASE is required when STORE_BACKEND=mongo")
		}
	case "firestore":
		if c.Store.Firestore.ProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required when STORE_BACKEND=firestore")
		}
	case "badger":
		if !c.Store.Badger.InMemory && c.Store.Badger.Path == "" {
			return fmt.Errorf("BADGER_PATH is required when STORE_BACKEND=badger and BADGER_IN_MEMORY=false")
		}
		if c.Store.Badger.GCInterval > 0 && (c.Store.Badger.GCRatio <= 0 || c.Store.Badger.GCRatio >= 1) {
			return fmt.Errorf("BADGER_GC_RATIO must be between 0 and 1 exclusive, got %v", c.Store.Badger.GCRatio)
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of mongo, firestore, badger, got %q", c.Store.Backend)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Topic == "" {
		return fmt.Errorf("HISTORY_TOPIC must not be empty")
	}
	// The topic doubles as the JetStream stream name.
	if strings.ContainsAny(c.History.Topic, ".*> /\\\t") {
		return fmt.Errorf("HISTORY_TOPIC must not contain '.', '*', '>', whitespace or path separators, got %q", c.History.Topic)
	}
	if c.History.BufferSize < 0 {
		return fmt.Errorf("HISTORY_BUFFER_SIZE must not be negative, got %d", c.History.BufferSize)
	}
	if c.History.WriteTimeout <= 0 {
		return fmt.Errorf("HISTORY_WRITE_TIMEOUT must be positive, got %v", c.History.WriteTimeout)
	}

	switch c.History.Transport {
	case "memory":
		return nil
	case "nats":
		if c.History.NATS.Embedded {
			if c.History.NATS.StoreDir == "" {
				return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
			}
			return nil
		}
		u, err := url.Parse(c.History.NATS.URL)
		if err != nil || (u.Scheme != "nats" && u.Scheme != "tls") || u.Host == "" {
			return fmt.Errorf("NATS_URL must be a nats:// or tls:// URL, got %q", c.History.NATS.URL)
		}
		return nil
	default:
		return fmt.Errorf("HISTORY_TRANSPORT must be one of memory, nats, got %q", c.History.Transport)
	}
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// HasPlacesCredential reports whether the places API key is configured.
func (c *Config) HasPlacesCredential() bool {
	return strings.TrimSpace(c.Places.APIKey) != ""
}

// validateHTTPURL checks that rawURL is an http(s) base URL without path or query.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsedURL.Path)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters", fieldName)
	}
	return nil
}
