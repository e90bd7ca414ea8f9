// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/erdgen/internal/auth"
	"github.com/tomtom215/erdgen/internal/crm"
	"github.com/tomtom215/erdgen/internal/erd"
	"github.com/tomtom215/erdgen/internal/logging"
)

// GetObjects lists the object names visible to the logged-in user as a bare
// JSON array.
func (h *Handler) GetObjects(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	names, err := h.crm.ListObjects(r.Context(), session.CRM())
	if err != nil {
		h.handleCRMError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Raw(http.StatusOK, names)
}

// GenerateERD describes the requested objects and returns the ERD document
// as the whole body.
func (h *Handler) GenerateERD(w http.ResponseWriter, r *http.Request) {
	var req GenerateERDRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rw := NewResponseWriter(w, r)
	if h.maxObjects > 0 && len(req.Objects) > h.maxObjects {
		rw.ValidationError(fmt.Sprintf("objects must contain at most %d names", h.maxObjects),
			map[string]any{"field": "objects", "max": h.maxObjects})
		return
	}
	if req.FieldLimit != nil && h.maxFieldLimit > 0 && *req.FieldLimit > h.maxFieldLimit {
		rw.ValidationError(fmt.Sprintf("field_limit must be at most %d", h.maxFieldLimit),
			map[string]any{"field": "field_limit", "max": h.maxFieldLimit})
		return
	}

	session := auth.SessionFromContext(r.Context())
	doc, err := h.generator.Generate(r.Context(), crm.SessionProvider(h.crm, session.CRM()), &erd.Request{
		Objects:     req.Objects,
		Annotations: req.Annotations,
		FieldLimit:  req.FieldLimit,
		Seed:        req.Seed,
	})
	if err != nil {
		h.handleCRMError(w, r, err)
		return
	}
	rw.Raw(http.StatusOK, doc)
}

// handleCRMError ends the local session and drops its cached schemas when
// the CRM has revoked the user's session, then maps err to a response.
func (h *Handler) handleCRMError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, crm.ErrSessionExpired) {
		if session := auth.SessionFromContext(r.Context()); session != nil {
			h.crm.InvalidateCache(session.CRM())
		}
		if derr := h.sessions.DestroySession(r.Context(), w, r); derr != nil {
			logging.Ctx(r.Context()).Error().Err(derr).Msg("Failed to delete revoked session")
		}
	}
	respondDomainError(w, r, err)
}
