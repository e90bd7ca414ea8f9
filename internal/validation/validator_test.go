// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package validation

import (
	"strings"
	"testing"
)

type generateRequest struct {
	Objects    []string `json:"objects" validate:"required,min=1,max=3,dive,objectname"`
	FieldLimit *int     `json:"field_limit,omitempty" validate:"omitempty,min=0,max=50"`
	Mode       string   `json:"mode" validate:"omitempty,oneof=fail_fast best_effort"`
	Note       string   `json:"-" validate:"max=5"`
}

func intPtr(n int) *int { return &n }

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if v1, v2 := GetValidator(), GetValidator(); v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     generateRequest
		wantField string
		wantMsg   string
	}{
		{
			name:  "valid",
			input: generateRequest{Objects: []string{"Account", "Invoice__c"}, FieldLimit: intPtr(0)},
		},
		{
			name:      "missing objects",
			input:     generateRequest{},
			wantField: "objects",
			wantMsg:   "objects is required",
		},
		{
			name:      "too many objects",
			input:     generateRequest{Objects: []string{"A", "B", "C", "D"}},
			wantField: "objects",
			wantMsg:   "objects must be at most 3 items",
		},
		{
			name:      "bad object name",
			input:     generateRequest{Objects: []string{"Account", "1Bad; DROP"}},
			wantField: "objects[1]",
			wantMsg:   "must be an object API name",
		},
		{
			name:      "negative limit",
			input:     generateRequest{Objects: []string{"Account"}, FieldLimit: intPtr(-1)},
			wantField: "field_limit",
			wantMsg:   "field_limit must be at least 0",
		},
		{
			name:      "oneof",
			input:     generateRequest{Objects: []string{"Account"}, Mode: "lenient"},
			wantField: "mode",
			wantMsg:   "mode must be one of: fail_fast best_effort",
		},
		{
			name:      "json dash keeps struct name",
			input:     generateRequest{Objects: []string{"Account"}, Note: "too long"},
			wantField: "Note",
			wantMsg:   "Note must be at most 5 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			got := err.Errors()[0]
			if got.Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", got.Field(), tt.wantField)
			}
			if !strings.Contains(got.Error(), tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", got.Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&generateRequest{})
	apiErr := single.ToAPIError()
	if apiErr.Code != "VALIDATION_FAILED" || apiErr.Details["field"] != "objects" {
		t.Errorf("single ToAPIError() = %+v", apiErr)
	}

	multi := ValidateStruct(&generateRequest{Mode: "x", FieldLimit: intPtr(99)})
	apiErr = multi.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]any)
	if !ok || len(fields) != 3 {
		t.Fatalf("multi Details = %+v, want 3 fields", apiErr.Details)
	}
	if !strings.Contains(apiErr.Message, "; ") || apiErr.Message != multi.Error() {
		t.Errorf("Message = %q, Error() = %q", apiErr.Message, multi.Error())
	}

	if (&RequestValidationError{}).ToAPIError().Message != "Validation failed" {
		t.Error("empty error should have a generic message")
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	t.Parallel()

	err := ValidateStruct("not a struct")
	if err == nil || err.Errors()[0].Field() != "unknown" {
		t.Errorf("ValidateStruct(string) = %v", err)
	}
}
