// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

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

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/erdgen/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		CRM: CRMConfig{
			APIVersion:          "60.0",
			LoginURLTemplate:    "https://{domain}.salesforce.com",
			ClientID:            "erdgen",
			Timeout:             30 * time.Second,
			RateLimit:           10,
			RateBurst:           20,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
			DescribeCacheTTL:    10 * time.Minute,
			DescribeCacheSize:   2000,
		},
		ERD: ERDConfig{
			DefaultFieldLimit: 5,
			MaxFieldLimit:     200,
			MaxObjects:        100,
			Concurrency:       1,
			Mode:              "fail_fast",
		},
		Server: ServerConfig{
			Port:        8082,
			Host:        "0.0.0.0",
			Timeout:     60 * time.Second,
			StaticDir:   "frontend/build",
			Environment: "development",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"http://localhost:3000"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
			LoginRateLimit:  10,
			SessionStore:    "memory",
			SessionTTL:      2 * time.Hour,
			SessionCleanup:  5 * time.Minute,
			CookieName:      "erdgen_session",
			CookieSecure:    false,
			CookieSameSite:  "lax",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads defaults, the optional config file and the environment, then
// validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
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
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings from env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings lists every environment variable ERDGen reads. Unlisted
// variables are ignored.
var envMappings = map[string]string{
	// CRM
	"crm_api_version":           "crm.api_version",
	"sf_version":                "crm.api_version",
	"crm_login_url_template":    "crm.login_url_template",
	"crm_client_id":             "crm.client_id",
	"crm_timeout":               "crm.timeout",
	"crm_rate_limit":            "crm.rate_limit",
	"crm_rate_burst":            "crm.rate_burst",
	"crm_breaker_max_requests":  "crm.breaker_max_requests",
	"crm_breaker_interval":      "crm.breaker_interval",
	"crm_breaker_timeout":       "crm.breaker_timeout",
	"crm_breaker_min_requests":  "crm.breaker_min_requests",
	"crm_breaker_failure_ratio": "crm.breaker_failure_ratio",
	"describe_cache_ttl":        "crm.describe_cache_ttl",
	"describe_cache_size":       "crm.describe_cache_size",

	// ERD
	"erd_default_field_limit": "erd.default_field_limit",
	"erd_max_field_limit":     "erd.max_field_limit",
	"erd_max_objects":         "erd.max_objects",
	"erd_concurrency":         "erd.concurrency",
	"erd_mode":                "erd.mode",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"static_dir":   "server.static_dir",
	"environment":  "server.environment",

	// Security
	"cors_origins":             "security.cors_origins",
	"rate_limit_requests":      "security.rate_limit_reqs",
	"rate_limit_window":        "security.rate_limit_window",
	"disable_rate_limit":       "security.rate_limit_disabled",
	"login_rate_limit":         "security.login_rate_limit",
	"session_store":            "security.session_store",
	"session_store_path":       "security.session_store_path",
	"session_encryption_key":   "security.session_encryption_key",
	"session_ttl":              "security.session_ttl",
	"session_cleanup_interval": "security.session_cleanup_interval",
	"session_cookie_name":      "security.cookie_name",
	"session_cookie_secure":    "security.cookie_secure",
	"session_cookie_same_site": "security.cookie_same_site",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to a koanf path, or to
// "" to skip it.
//
//	HTTP_PORT -> server.port
//	ERD_MODE  -> erd.mode
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
