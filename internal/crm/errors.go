// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package crm

import (
	"errors"
	"fmt"

	"github.com/tomtom215/erdgen/internal/erd"
)

var (
	// ErrAuthenticationFailed means the CRM rejected the login credentials.
	ErrAuthenticationFailed = errors.New("crm authentication failed")

	// ErrObjectNotFound means the CRM does not know the requested object.
	ErrObjectNotFound = fmt.Errorf("%w: object not found", erd.ErrSchemaLookupFailed)

	// ErrSessionExpired means the CRM rejected the session ID. The user has
	// to log in again.
	ErrSessionExpired = fmt.Errorf("%w: crm session expired or invalid", erd.ErrUpstreamUnavailable)

	// ErrCircuitOpen means calls are being rejected after repeated failures.
	ErrCircuitOpen = fmt.Errorf("%w: crm circuit breaker open", erd.ErrUpstreamUnavailable)
)

// APIError is a non-success response from the CRM.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("crm returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("crm returned status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// upstreamError wraps a transport or decode failure.
func upstreamError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", erd.ErrUpstreamUnavailable, op, err)
}
