// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// AuthEvent describes a CRM login or logout for the audit log.
// Secrets never go in here; SessionID is masked before it is written.
type AuthEvent struct {
	Event       string
	Username    string
	InstanceURL string
	SessionID   string
	IPAddress   string
	UserAgent   string
	Success     bool
	Error       string
}

// AuditLogger writes AuthEvents under component=auth.
type AuditLogger struct {
	logger zerolog.Logger
}

func NewAuditLogger() *AuditLogger {
	return &AuditLogger{logger: WithComponent("auth")}
}

// NewAuditLoggerWithLogger is used by tests to capture output.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuditLoggerWithLogger(l zerolog.Logger) *AuditLogger {
	return &AuditLogger{logger: l.With().Str("component", "auth").Logger()}
}

// Log writes e at info level on success and warn level otherwise.
func (a *AuditLogger) Log(e *AuthEvent) {
	event := a.logger.Info()
	if !e.Success {
		event = a.logger.Warn()
	}
	event = event.Str("event", e.Event).Bool("success", e.Success)
	if e.Username != "" {
		event = event.Str("username", SanitizeUsername(e.Username))
	}
	if e.InstanceURL != "" {
		event = event.Str("instance_url", e.InstanceURL)
	}
	if e.SessionID != "" {
		event = event.Str("session_id", SanitizeToken(e.SessionID))
	}
	if e.IPAddress != "" {
		event = event.Str("ip", e.IPAddress)
	}
	if e.UserAgent != "" {
		event = event.Str("user_agent", truncate(e.UserAgent, 128))
	}
	if e.Error != "" {
		event = event.Str("error", e.Error)
	}
	event.Msg("auth event")
}

// SanitizeToken keeps the first and last four characters of a secret.
// Short values are fully masked.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUsername masks the local part of an email-style username.
// "jane.doe@example.com" becomes "j***@example.com".
func SanitizeUsername(username string) string {
	at := strings.IndexByte(username, '@')
	switch {
	case username == "":
		return ""
	case at <= 0:
		return username[:1] + "***"
	default:
		return username[:1] + "***" + username[at:]
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
