// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/erdgen/internal/auth"
	"github.com/tomtom215/erdgen/internal/crm"
	"github.com/tomtom215/erdgen/internal/logging"
)

// Login authenticates against the CRM and starts a cookie session.
// Rejected credentials are a normal outcome for the login form: they get a
// 200 with success false rather than an error status.
//
// The CRM session ID never leaves the server; the browser only receives the
// opaque session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event := &logging.AuthEvent{
		Event:       "login",
		Username:    req.Username,
		InstanceURL: crm.NormalizeDomain(req.InstanceURL),
		IPAddress:   r.RemoteAddr,
		UserAgent:   r.UserAgent(),
	}

	login, err := h.crm.Login(r.Context(), &crm.Credentials{
		Domain:        req.InstanceURL,
		Username:      req.Username,
		Password:      req.Password,
		SecurityToken: req.SecurityToken,
	})
	if err != nil {
		event.Error = err.Error()
		h.audit.Log(event)
		if errors.Is(err, crm.ErrAuthenticationFailed) {
			NewResponseWriter(w, r).Raw(http.StatusOK, LoginResponse{
				Error:   "Authentication failed",
				Message: err.Error(),
			})
			return
		}
		respondDomainError(w, r, err)
		return
	}

	session := auth.NewSession(login, h.sessionTTL)
	if err := h.sessions.CreateSession(r.Context(), w, r, session); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to store session")
		NewResponseWriter(w, r).InternalError("Failed to create session")
		return
	}

	event.Success = true
	event.InstanceURL = login.InstanceURL
	event.SessionID = session.ID
	h.audit.Log(event)

	NewResponseWriter(w, r).Raw(http.StatusOK, LoginResponse{
		Success:     true,
		InstanceURL: login.InstanceURL,
	})
}

// Logout ends the cookie session. It succeeds without a session too.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	if err := h.sessions.DestroySession(r.Context(), w, r); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to delete session")
		NewResponseWriter(w, r).InternalError("Failed to end session")
		return
	}

	if session != nil {
		h.crm.InvalidateCache(session.CRM())
		h.audit.Log(&logging.AuthEvent{
			Event:       "logout",
			Username:    session.Username,
			InstanceURL: session.InstanceURL,
			SessionID:   session.ID,
			IPAddress:   r.RemoteAddr,
			UserAgent:   r.UserAgent(),
			Success:     true,
		})
	}

	WriteSuccess(w, r, map[string]bool{"logged_out": true})
}

// Session reports who is logged in, for the front-end's initial render.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	WriteSuccess(w, r, map[string]any{
		"username":     session.Username,
		"instance_url": session.InstanceURL,
		"expires_at":   session.ExpiresAt,
	})
}
