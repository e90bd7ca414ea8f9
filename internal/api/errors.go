// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/erdgen/internal/crm"
	"github.com/tomtom215/erdgen/internal/erd"
	"github.com/tomtom215/erdgen/internal/logging"
)

// errorResponse is the status, code and message an error maps to.
type errorResponse struct {
	status  int
	code    string
	message string
	details map[string]any
}

// classifyError maps domain errors to HTTP responses. Order matters:
// ErrSessionExpired also matches ErrUpstreamUnavailable and must win.
func classifyError(err error) errorResponse {
	switch {
	case errors.Is(err, crm.ErrAuthenticationFailed):
		return errorResponse{http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication failed", nil}

	case errors.Is(err, crm.ErrSessionExpired):
		return errorResponse{http.StatusUnauthorized, ErrCodeSessionExpired, "CRM session expired or not authenticated", nil}

	case errors.Is(err, erd.ErrInvalidArgument):
		return errorResponse{http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil}

	case errors.Is(err, erd.ErrSchemaLookupFailed):
		resp := errorResponse{http.StatusNotFound, ErrCodeObjectNotFound, "Object schema could not be described", nil}
		var erdErr *erd.Error
		if errors.As(err, &erdErr) && erdErr.Object != "" {
			resp.message = "Object schema could not be described: " + erdErr.Object
			resp.details = map[string]any{"object": erdErr.Object}
		}
		return resp

	case errors.Is(err, context.DeadlineExceeded):
		return errorResponse{http.StatusGatewayTimeout, ErrCodeTimeout, "CRM did not respond in time", nil}

	case errors.Is(err, crm.ErrCircuitOpen):
		return errorResponse{http.StatusBadGateway, ErrCodeExternalServiceFail, "CRM temporarily unavailable, retry shortly", nil}

	case errors.Is(err, erd.ErrUpstreamUnavailable):
		return errorResponse{http.StatusBadGateway, ErrCodeExternalServiceFail, "External service unavailable: crm", nil}

	default:
		return errorResponse{http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", nil}
	}
}

// respondDomainError logs err and writes its mapped response. Internal and
// upstream details stay in the log.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	resp := classifyError(err)

	event := logging.Ctx(r.Context()).Warn()
	if resp.status >= http.StatusInternalServerError {
		event = logging.Ctx(r.Context()).Error()
	}
	event.Err(err).
		Int("status", resp.status).
		Str("code", resp.code).
		Str("kind", erd.KindOf(err)).
		Msg("Request failed")

	rw := NewResponseWriter(w, r)
	if resp.details != nil {
		rw.ErrorWithDetails(resp.status, resp.code, resp.message, resp.details)
		return
	}
	rw.Error(resp.status, resp.code, resp.message)
}
