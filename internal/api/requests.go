// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/erdgen/internal/models"
	"github.com/tomtom215/erdgen/internal/validation"
)

// maxRequestBodySize bounds decoded JSON bodies. Annotation payloads from
// the diagram editor are the largest legitimate input.
const maxRequestBodySize = 1 << 20

// LoginRequest is the body of POST /login. InstanceURL accepts a bare
// domain ("acme"), a host ("acme.my.salesforce.com") or a URL.
type LoginRequest struct {
	InstanceURL   string `json:"instance_url" validate:"required,max=255"`
	Username      string `json:"username" validate:"required,max=255"`
	Password      string `json:"password" validate:"required,max=1024"`
	SecurityToken string `json:"security_token" validate:"max=255"`
}

// LoginResponse is the bare success body of POST /login.
type LoginResponse struct {
	Success     bool   `json:"success"`
	InstanceURL string `json:"instance_url,omitempty"`
	Error       string `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
}

// GenerateERDRequest is the body of POST /generate_erd.
type GenerateERDRequest struct {
	Objects     []string            `json:"objects" validate:"required,min=1,dive,objectname"`
	Annotations []models.Annotation `json:"annotations"`

	// FieldLimit caps descriptive fields per object. Absent means the
	// configured default.
	FieldLimit *int `json:"field_limit,omitempty" validate:"omitempty,min=0"`

	// Seed makes field sampling reproducible.
	Seed *uint64 `json:"seed,omitempty"`
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// the 400 response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	rw := NewResponseWriter(w, r)

	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dst); err != nil {
		rw.BadRequest(decodeErrorMessage(err))
		return false
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		rw.BadRequest("Request body must contain a single JSON object")
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

func decodeErrorMessage(err error) string {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit)
	case errors.Is(err, io.EOF):
		return "Request body is empty"
	default:
		return "Invalid JSON request body: " + err.Error()
	}
}
