// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

// Package config loads ERDGen configuration with Koanf v2.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults (defaultConfig)
//  2. an optional YAML file (CONFIG_PATH, then config.yaml / config.yml,
//     then /etc/erdgen/config.yaml)
//  3. environment variables, via the explicit table in envTransformFunc
//
// A minimal config file:
//
//	server:
//	  port: 8082
//	  static_dir: ./frontend/build
//	crm:
//	  api_version: "60.0"
//	erd:
//	  default_field_limit: 5
//	security:
//	  session_store: badger
//	  session_store_path: /data/sessions
package config

import "time"

// Config is the root configuration.
type Config struct {
	CRM      CRMConfig      `koanf:"crm"`
	ERD      ERDConfig      `koanf:"erd"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// CRMConfig configures the outbound CRM metadata API client.
type CRMConfig struct {
	// APIVersion is used for both the SOAP login path and the REST data path.
	APIVersion string `koanf:"api_version"`

	// LoginURLTemplate is the SOAP login host. "{domain}" is replaced with the
	// normalized domain from the login request ("login", "test", "acme.my").
	LoginURLTemplate string `koanf:"login_url_template"`

	// ClientID is sent in the SOAP CallOptions header.
	ClientID string `koanf:"client_id"`

	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the sustained outbound request rate per second across all
	// users. 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// Circuit breaker around describe and list calls.
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`

	// DescribeCacheTTL of 0 disables the describe cache.
	DescribeCacheTTL  time.Duration `koanf:"describe_cache_ttl"`
	DescribeCacheSize int           `koanf:"describe_cache_size"`
}

// ERDConfig configures diagram generation.
type ERDConfig struct {
	// DefaultFieldLimit is the number of descriptive fields sampled per object
	// when a request omits field_limit.
	DefaultFieldLimit int `koanf:"default_field_limit"`

	// MaxFieldLimit caps field_limit on incoming requests.
	MaxFieldLimit int `koanf:"max_field_limit"`

	// MaxObjects caps the number of objects in one request.
	MaxObjects int `koanf:"max_objects"`

	// Concurrency is the number of parallel schema lookups per request.
	// 1 keeps lookups strictly sequential.
	Concurrency int `koanf:"concurrency"`

	// Mode is fail_fast or best_effort.
	Mode string `koanf:"mode"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`

	// StaticDir holds the built front-end. Empty disables static serving.
	StaticDir string `koanf:"static_dir"`

	// Environment is development or production.
	Environment string `koanf:"environment"`
}

// SecurityConfig holds session, CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	LoginRateLimit    int           `koanf:"login_rate_limit"`

	// SessionStore is memory (default) or badger.
	SessionStore     string        `koanf:"session_store"`
	SessionStorePath string        `koanf:"session_store_path"`
	SessionTTL       time.Duration `koanf:"session_ttl"`
	SessionCleanup   time.Duration `koanf:"session_cleanup_interval"`

	// SessionEncryptionKey is a base64 key of at least 16 bytes. When set,
	// CRM session IDs are encrypted before they reach the session store.
	SessionEncryptionKey string `koanf:"session_encryption_key"`

	CookieName     string `koanf:"cookie_name"`
	CookieSecure   bool   `koanf:"cookie_secure"`
	CookieSameSite string `koanf:"cookie_same_site"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
