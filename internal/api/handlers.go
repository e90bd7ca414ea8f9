// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package api

import (
	"time"

	"github.com/tomtom215/erdgen/internal/auth"
	"github.com/tomtom215/erdgen/internal/config"
	"github.com/tomtom215/erdgen/internal/crm"
	"github.com/tomtom215/erdgen/internal/erd"
	"github.com/tomtom215/erdgen/internal/logging"
)

// CRMClient is what the handlers need from the CRM. *crm.Client satisfies
// it.
type CRMClient interface {
	crm.API
	BreakerState() string
	InvalidateCache(sess *crm.Session) int
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_auth.go: login and logout
//   - handlers_erd.go: object listing and ERD generation
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	crm       CRMClient
	generator *erd.Generator
	sessions  *auth.SessionMiddleware
	audit     *logging.AuditLogger

	sessionTTL    time.Duration
	maxObjects    int
	maxFieldLimit int
	startTime     time.Time
}

// NewHandler wires the handler dependencies.
func NewHandler(cfg *config.Config, client CRMClient, generator *erd.Generator, sessions *auth.SessionMiddleware) *Handler {
	return &Handler{
		crm:           client,
		generator:     generator,
		sessions:      sessions,
		audit:         logging.NewAuditLogger(),
		sessionTTL:    cfg.Security.SessionTTL,
		maxObjects:    cfg.ERD.MaxObjects,
		maxFieldLimit: cfg.ERD.MaxFieldLimit,
		startTime:     time.Now(),
	}
}
