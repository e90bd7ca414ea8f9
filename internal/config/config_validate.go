// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package config

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

var apiVersionPattern = regexp.MustCompile(`^\d+\.\d+$`)

var (
	validLogLevels   = []string{"trace", "debug", "info", "warn", "error"}
	validLogFormats  = []string{"json", "console"}
	validERDModes    = []string{"fail_fast", "best_effort"}
	validStores      = []string{"memory", "badger"}
	validSameSite    = []string{"lax", "strict", "none"}
	validEnvironment = []string{"development", "staging", "production"}
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCRM(); err != nil {
		return err
	}
	if err := c.validateERD(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCRM() error {
	if !apiVersionPattern.MatchString(c.CRM.APIVersion) {
		return fmt.Errorf("CRM_API_VERSION must look like 60.0, got %q", c.CRM.APIVersion)
	}
	if err := validateLoginURLTemplate(c.CRM.LoginURLTemplate); err != nil {
		return err
	}
	if c.CRM.Timeout <= 0 {
		return fmt.Errorf("CRM_TIMEOUT must be positive")
	}
	if c.CRM.RateLimit < 0 {
		return fmt.Errorf("CRM_RATE_LIMIT must not be negative")
	}
	if c.CRM.RateLimit > 0 && c.CRM.RateBurst < 1 {
		return fmt.Errorf("CRM_RATE_BURST must be at least 1 when rate limiting is enabled")
	}
	return c.validateBreaker()
}

func (c *Config) validateBreaker() error {
	if c.CRM.BreakerMaxRequests == 0 {
		return fmt.Errorf("CRM_BREAKER_MAX_REQUESTS must be at least 1")
	}
	if c.CRM.BreakerTimeout <= 0 {
		return fmt.Errorf("CRM_BREAKER_TIMEOUT must be positive")
	}
	if c.CRM.BreakerFailureRatio <= 0 || c.CRM.BreakerFailureRatio > 1 {
		return fmt.Errorf("CRM_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.CRM.BreakerFailureRatio)
	}
	return nil
}

func (c *Config) validateERD() error {
	e := c.ERD
	if e.DefaultFieldLimit < 0 {
		return fmt.Errorf("ERD_DEFAULT_FIELD_LIMIT must not be negative")
	}
	if e.MaxFieldLimit < e.DefaultFieldLimit {
		return fmt.Errorf("ERD_MAX_FIELD_LIMIT (%d) must be >= ERD_DEFAULT_FIELD_LIMIT (%d)", e.MaxFieldLimit, e.DefaultFieldLimit)
	}
	if e.MaxObjects < 1 {
		return fmt.Errorf("ERD_MAX_OBJECTS must be at least 1")
	}
	if e.Concurrency < 1 || e.Concurrency > 32 {
		return fmt.Errorf("ERD_CONCURRENCY must be between 1 and 32, got %d", e.Concurrency)
	}
	if !slices.Contains(validERDModes, e.Mode) {
		return fmt.Errorf("ERD_MODE must be one of: %s", strings.Join(validERDModes, ", "))
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !slices.Contains(validEnvironment, c.Server.Environment) {
		return fmt.Errorf("ENVIRONMENT must be one of: %s", strings.Join(validEnvironment, ", "))
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if err := c.validateSessions(); err != nil {
		return err
	}
	if err := c.validateCookie(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

func (c *Config) validateSessions() error {
	s := c.Security
	if !slices.Contains(validStores, s.SessionStore) {
		return fmt.Errorf("SESSION_STORE must be one of: %s", strings.Join(validStores, ", "))
	}
	if s.SessionStore == "badger" && s.SessionStorePath == "" {
		return fmt.Errorf("SESSION_STORE_PATH is required when SESSION_STORE=badger")
	}
	if s.SessionTTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least 1m, got %v", s.SessionTTL)
	}
	if s.SessionCleanup <= 0 {
		return fmt.Errorf("SESSION_CLEANUP_INTERVAL must be positive")
	}
	if s.SessionEncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(s.SessionEncryptionKey)
		if err != nil {
			return fmt.Errorf("SESSION_ENCRYPTION_KEY must be base64: %w", err)
		}
		if len(key) < 16 {
			return fmt.Errorf("SESSION_ENCRYPTION_KEY must decode to at least 16 bytes, got %d", len(key))
		}
	}
	return nil
}

func (c *Config) validateCookie() error {
	s := c.Security
	if s.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME is required")
	}
	if !slices.Contains(validSameSite, strings.ToLower(s.CookieSameSite)) {
		return fmt.Errorf("SESSION_COOKIE_SAME_SITE must be one of: %s", strings.Join(validSameSite, ", "))
	}
	// Browsers drop SameSite=None cookies without Secure.
	if strings.EqualFold(s.CookieSameSite, "none") && !s.CookieSecure {
		return fmt.Errorf("SESSION_COOKIE_SECURE must be true when SESSION_COOKIE_SAME_SITE=none")
	}
	if c.IsProduction() && !s.CookieSecure {
		return fmt.Errorf("SESSION_COOKIE_SECURE must be true in production")
	}
	return nil
}

// validateCORS rejects a wildcard origin because the session cookie is sent
// with credentials.
func (c *Config) validateCORS() error {
	if slices.Contains(c.Security.CORSOrigins, "*") {
		return fmt.Errorf("CORS_ORIGINS must list explicit origins; \"*\" cannot be combined with credentials")
	}
	for _, origin := range c.Security.CORSOrigins {
		if err := validateHTTPURL(origin, "CORS_ORIGINS entry"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
	}
	if c.Security.LoginRateLimit < 1 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", "))
	}
	if c.Logging.Format != "" && !slices.Contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", "))
	}
	return nil
}
