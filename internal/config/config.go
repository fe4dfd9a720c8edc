// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

// Package config loads Mealpick configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (CONFIG_PATH or config.yaml)
//  3. Environment Variables: explicit mapping table in envTransformFunc
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	server := http.Server{Addr: cfg.Server.Addr()}
//
// A missing places API key is not a load error. The suggestion endpoint
// reports it per request instead, so the rest of the service (history,
// health, metrics) stays available while the credential is provisioned.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Places   PlacesConfig   `koanf:"places"`
	Store    StoreConfig    `koanf:"store"`
	History  HistoryConfig  `koanf:"history"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST (default: 0.0.0.0)
//   - HTTP_PORT (default: 8080)
//   - HTTP_TIMEOUT: read/write timeout (default: 30s)
//   - SHUTDOWN_TIMEOUT: graceful shutdown budget (default: 10s)
//   - ENVIRONMENT: development or production (default: development)
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds caller authentication and HTTP hardening settings.
//
// AuthMode selects how the caller's subject id is established:
//   - jwt: HS256 tokens signed with JWT_SECRET (shared with the identity provider)
//   - oidc: ID tokens verified against the issuer's JWKS
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	JWTAudience       string        `koanf:"jwt_audience"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	OIDC              OIDCConfig    `koanf:"oidc"`
}

// OIDCConfig holds OpenID Connect verification settings.
//
// Environment Variables:
//   - OIDC_ISSUER_URL: issuer base URL (required for oidc auth mode)
//   - OIDC_CLIENT_ID: expected audience (required for oidc auth mode)
//   - OIDC_CLIENT_SECRET: optional
//   - OIDC_SCOPES: comma-separated (default: openid,profile,email)
type OIDCConfig struct {
	IssuerURL    string   `koanf:"issuer_url"`
	ClientID     string   `koanf:"client_id"`
	ClientSecret string   `koanf:"client_secret"`
	Scopes       []string `koanf:"scopes"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// PlacesConfig holds the nearby-search client settings.
//
// Environment Variables:
//   - PLACES_API_KEY or GOOGLE_PLACES_API_KEY: server-side credential
//   - PLACES_BASE_URL (default: https://maps.googleapis.com)
//   - PLACES_TIMEOUT (default: 10s)
//   - PLACES_TYPE: place type filter (default: restaurant)
//   - PLACES_MAX_RESULTS: cap for rank-by-distance searches (default: 20)
type PlacesConfig struct {
	APIKey     string        `koanf:"api_key"`
	BaseURL    string        `koanf:"base_url"`
	Timeout    time.Duration `koanf:"timeout"`
	PlaceType  string        `koanf:"place_type"`
	MaxResults int           `koanf:"max_results"`
	Breaker    BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the circuit breaker around the places API.
// An open breaker fails requests immediately; nothing is retried.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
}

// StoreConfig selects and configures the document store.
//
// Backends:
//   - mongo: MongoDB collections (cache keyed by place id, history with user_id)
//   - firestore: top-level cache collection, users/{uid}/suggestion_history
//   - badger: embedded key-value store for single-node deployments
type StoreConfig struct {
	Backend           string          `koanf:"backend"`
	CacheCollection   string          `koanf:"cache_collection"`
	HistoryCollection string          `koanf:"history_collection"`
	CacheTTL          time.Duration   `koanf:"cache_ttl"`
	Mongo             MongoConfig     `koanf:"mongo"`
	Firestore         FirestoreConfig `koanf:"firestore"`
	Badger            BadgerConfig    `koanf:"badger"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// FirestoreConfig holds Cloud Firestore settings.
type FirestoreConfig struct {
	ProjectID       string `koanf:"project_id"`
	DatabaseID      string `koanf:"database_id"`
	CredentialsFile string `koanf:"credentials_file"`
}

// BadgerConfig holds embedded store settings.
//
// GCInterval controls how often the value log is compacted; zero disables
// the collector.
type BadgerConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval"`
	GCRatio    float64       `koanf:"gc_ratio"`
}

// HistoryConfig configures the asynchronous history writer.
//
// Transports:
//   - memory: in-process watermill channel; pending batches are lost on crash
//   - nats: NATS JetStream via watermill-nats, optionally with an embedded server
type HistoryConfig struct {
	Transport    string        `koanf:"transport"`
	Topic        string        `koanf:"topic"`
	BufferSize   int64         `koanf:"buffer_size"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	NATS         NATSConfig    `koanf:"nats"`
}

// NATSConfig holds NATS settings for the history transport.
type NATSConfig struct {
	URL         string `koanf:"url"`
	Embedded    bool   `koanf:"embedded"`
	Host        string `koanf:"host"`
	Port        int    `koanf:"port"`
	StoreDir    string `koanf:"store_dir"`
	DurableName string `koanf:"durable_name"`
	QueueGroup  string `koanf:"queue_group"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
