// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/erdgen/internal/config"
	"github.com/tomtom215/erdgen/internal/logging"
	"github.com/tomtom215/erdgen/internal/metrics"
)

type contextKey string

const sessionContextKey contextKey = "erdgen_session"

// SessionMiddlewareConfig holds configuration for the session middleware.
type SessionMiddlewareConfig struct {
	// CookieName is the name of the session cookie.
	CookieName string

	// SessionTTL is the session time-to-live.
	SessionTTL time.Duration

	// SlidingSession enables session expiry extension on each request.
	SlidingSession bool

	CookiePath     string
	CookieSecure   bool
	CookieSameSite http.SameSite

	// Unauthorized writes the response for RequireSession rejections.
	// Defaults to a plain 401.
	Unauthorized http.Handler
}

// DefaultSessionMiddlewareConfig returns sensible defaults.
func DefaultSessionMiddlewareConfig() *SessionMiddlewareConfig {
	return &SessionMiddlewareConfig{
		CookieName:     "erdgen_session",
		SessionTTL:     2 * time.Hour,
		SlidingSession: true,
		CookiePath:     "/",
		CookieSecure:   true,
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// SessionMiddlewareConfigFrom maps the security section onto middleware
// settings.
func SessionMiddlewareConfigFrom(cfg *config.SecurityConfig) *SessionMiddlewareConfig {
	c := DefaultSessionMiddlewareConfig()
	c.CookieName = cfg.CookieName
	c.SessionTTL = cfg.SessionTTL
	c.CookieSecure = cfg.CookieSecure
	c.CookieSameSite = parseSameSite(cfg.CookieSameSite)
	return c
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// SessionMiddleware resolves the session cookie and manages its lifecycle.
type SessionMiddleware struct {
	store  SessionStore
	config *SessionMiddlewareConfig
}

// NewSessionMiddleware creates a new session middleware.
func NewSessionMiddleware(store SessionStore, config *SessionMiddlewareConfig) *SessionMiddleware {
	if config == nil {
		config = DefaultSessionMiddlewareConfig()
	}
	return &SessionMiddleware{
		store:  store,
		config: config,
	}
}

// Store returns the backing store.
func (m *SessionMiddleware) Store() SessionStore {
	return m.store
}

// Authenticate loads the session named by the cookie, if any, into the
// request context. Requests without a valid session pass through untouched.
func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := m.extractSessionID(r)
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.store.Get(r.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Session lookup error")
			}
			next.ServeHTTP(w, r)
			return
		}

		if m.config.SlidingSession {
			newExpiry := time.Now().Add(m.config.SessionTTL)
			if touchErr := m.store.Touch(r.Context(), sessionID, newExpiry); touchErr != nil {
				logging.Ctx(r.Context()).Error().Err(touchErr).Msg("Failed to touch session")
			}
		}

		next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
	})
}

// RequireSession rejects requests without a valid session.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == nil {
			if m.config.Unauthorized != nil {
				m.config.Unauthorized.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Unauthorized: login required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (m *SessionMiddleware) extractSessionID(r *http.Request) string {
	cookie, err := r.Cookie(m.config.CookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// SetSessionCookie sets the session cookie on the response.
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    sessionID,
		Path:     m.config.CookiePath,
		MaxAge:   int(m.config.SessionTTL.Seconds()),
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: m.config.CookieSameSite,
	})
}

// ClearSessionCookie clears the session cookie.
func (m *SessionMiddleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     m.config.CookiePath,
		MaxAge:   -1,
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: m.config.CookieSameSite,
	})
}

// CreateSession stores a session for a fresh CRM login and sets the cookie.
// Any session the request already carried is deleted first so a login
// always rotates the cookie value.
func (m *SessionMiddleware) CreateSession(ctx context.Context, w http.ResponseWriter, r *http.Request, session *Session) error {
	if oldID := m.extractSessionID(r); oldID != "" {
		//nolint:errcheck // best effort, the old session expires anyway
		m.store.Delete(ctx, oldID)
	}

	if err := m.store.Create(ctx, session); err != nil {
		return err
	}
	metrics.SessionsCreated.Inc()
	m.SetSessionCookie(w, session.ID)
	return nil
}

// DestroySession deletes the request's session, if any, and clears the
// cookie.
func (m *SessionMiddleware) DestroySession(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if id := m.extractSessionID(r); id != "" {
		if err := m.store.Delete(ctx, id); err != nil {
			return err
		}
	}
	m.ClearSessionCookie(w)
	return nil
}

// ContextWithSession returns a copy of ctx carrying session.
func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext returns the request's session, or nil.
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionContextKey).(*Session)
	return session
}
