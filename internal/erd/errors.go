// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package erd

import (
	"errors"
	"fmt"
)

// Error kinds. Collaborators wrap these so that callers can map a failure to
// a response with errors.Is regardless of where it came from.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrSchemaLookupFailed  = errors.New("schema lookup failed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Error reports a failure for a single object.
type Error struct {
	Kind   error
	Object string
	Err    error
}

func (e *Error) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: object %q: %v", e.Kind, e.Object, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// KindOf returns a short label for err's kind, suitable for metrics.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrSchemaLookupFailed):
		return "schema_lookup_failed"
	default:
		return "upstream_unavailable"
	}
}

// lookupError classifies a provider failure. Errors that carry no kind,
// context cancellation included, count as the upstream being unavailable.
func lookupError(object string, err error) *Error {
	kind := ErrUpstreamUnavailable
	if errors.Is(err, ErrSchemaLookupFailed) {
		kind = ErrSchemaLookupFailed
	}
	return &Error{Kind: kind, Object: object, Err: err}
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
