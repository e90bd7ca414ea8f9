// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/erdgen/internal/logging"
	"github.com/tomtom215/erdgen/internal/metrics"
)

// SessionCleaner removes expired sessions. auth.SessionStore satisfies it.
type SessionCleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// CacheCleaner drops expired describe cache entries. *crm.Client
// satisfies it.
type CacheCleaner interface {
	CleanupCache() int
}

const defaultJanitorInterval = 5 * time.Minute

// JanitorService periodically sweeps expired sessions and cache entries.
type JanitorService struct {
	sessions SessionCleaner
	cache    CacheCleaner
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewJanitorService creates the janitor. Either cleaner may be nil.
func NewJanitorService(sessions SessionCleaner, cache CacheCleaner, interval time.Duration) *JanitorService {
	if interval <= 0 {
		interval = defaultJanitorInterval
	}
	return &JanitorService{
		sessions: sessions,
		cache:    cache,
		interval: interval,
		logger:   logging.WithComponent("janitor"),
		name:     "janitor",
	}
}

// Serve implements suture.Service.
func (j *JanitorService) Serve(ctx context.Context) error {
	j.logger.Info().Dur("interval", j.interval).Msg("janitor starting")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("janitor stopping")
			return ctx.Err()
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs one cleanup pass. Store errors are logged, not returned, so a
// flaky store does not restart the service every tick.
func (j *JanitorService) Sweep(ctx context.Context) {
	if j.sessions != nil {
		n, err := j.sessions.CleanupExpired(ctx)
		if err != nil {
			j.logger.Warn().Err(err).Msg("session cleanup failed")
		} else if n > 0 {
			metrics.SessionsExpiredCleaned.Add(float64(n))
			j.logger.Debug().Int("sessions", n).Msg("expired sessions removed")
		}
	}
	if j.cache != nil {
		if n := j.cache.CleanupCache(); n > 0 {
			j.logger.Debug().Int("entries", n).Msg("stale describe cache entries removed")
		}
	}
}

// String names the service in supervisor logs.
func (j *JanitorService) String() string {
	return j.name
}
