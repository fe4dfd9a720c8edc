// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mealpick/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
			OIDC: OIDCConfig{
				Scopes: []string{"openid", "profile", "email"},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Places: PlacesConfig{
			BaseURL:    "https://maps.googleapis.com",
			Timeout:    10 * time.Second,
			PlaceType:  "restaurant",
			MaxResults: 20,
			Breaker: BreakerConfig{
				Enabled:          true,
				FailureThreshold: 5,
				MaxRequests:      3,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
			},
		},
		Store: StoreConfig{
			Backend:           "mongo",
			CacheCollection:   "restaurant_cache",
			HistoryCollection: "suggestion_history",
			Mongo: MongoConfig{
				URI:            "mongodb://localhost:27017",
				Database:       "mealpick",
				ConnectTimeout: 10 * time.Second,
			},
			Badger: BadgerConfig{
				Path:       "/data/mealpick",
				SyncWrites: true,
				GCInterval: 10 * time.Minute,
				GCRatio:    0.5,
			},
		},
		History: HistoryConfig{
			Transport:    "memory",
			Topic:        "suggestion-history",
			BufferSize:   256,
			WriteTimeout: 10 * time.Second,
			NATS: NATSConfig{
				URL:         "nats://127.0.0.1:4222",
				Host:        "127.0.0.1",
				Port:        4222,
				StoreDir:    "/data/nats",
				DurableName: "history-writer",
				QueueGroup:  "history",
			},
		},
	}
}

// LoadWithKoanf loads configuration with the layered approach:
//  1. Defaults
//  2. Config file (optional)
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.oidc.scopes",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"jwt_audience":        "security.jwt_audience",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"oidc_issuer_url":     "security.oidc.issuer_url",
	"oidc_client_id":      "security.oidc.client_id",
	"oidc_client_secret":  "security.oidc.client_secret",
	"oidc_scopes":         "security.oidc.scopes",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"places_api_key":                   "places.api_key",
	"google_places_api_key":            "places.api_key",
	"places_base_url":                  "places.base_url",
	"places_timeout":                   "places.timeout",
	"places_type":                      "places.place_type",
	"places_max_results":               "places.max_results",
	"places_breaker_enabled":           "places.breaker.enabled",
	"places_breaker_failure_threshold": "places.breaker.failure_threshold",
	"places_breaker_max_requests":      "places.breaker.max_requests",
	"places_breaker_interval":          "places.breaker.interval",
	"places_breaker_timeout":           "places.breaker.timeout",

	"store_backend":                  "store.backend",
	"store_cache_collection":         "store.cache_collection",
	"store_history_collection":       "store.history_collection",
	"store_cache_ttl":                "store.cache_ttl",
	"mongo_uri":                      "store.mongo.uri",
	"mongo_database":                 "store.mongo.database",
	"mongo_connect_timeout":          "store.mongo.connect_timeout",
	"firestore_project_id":           "store.firestore.project_id",
	"firestore_database_id":          "store.firestore.database_id",
	"google_application_credentials": "store.firestore.credentials_file",
	"badger_path":                    "store.badger.path",
	"badger_in_memory":               "store.badger.in_memory",
	"badger_sync_writes":             "store.badger.sync_writes",
	"badger_gc_interval":             "store.badger.gc_interval",
	"badger_gc_ratio":                "store.badger.gc_ratio",

	"history_transport":     "history.transport",
	"history_topic":         "history.topic",
	"history_buffer_size":   "history.buffer_size",
	"history_write_timeout": "history.write_timeout",
	"nats_url":              "history.nats.url",
	"nats_embedded":         "history.nats.embedded",
	"nats_host":             "history.nats.host",
	"nats_port":             "history.nats.port",
	"nats_store_dir":        "history.nats.store_dir",
	"nats_durable_name":     "history.nats.durable_name",
	"nats_queue_group":      "history.nats.queue_group",
}

// envTransformFunc maps environment variable names to koanf paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - GOOGLE_PLACES_API_KEY -> places.api_key
//   - MONGO_URI -> store.mongo.uri
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
