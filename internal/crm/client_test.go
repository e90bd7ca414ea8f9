// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package crm

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/tomtom215/erdgen/internal/erd"
)

func TestDescribeObject(t *testing.T) {
	t.Parallel()

	crm := newFakeCRM(t)
	c := NewRESTClient(testConfig(crm.URL))

	schema, err := c.DescribeObject(context.Background(), crm.session(), "Account")
	if err != nil {
		t.Fatalf("DescribeObject() error = %v", err)
	}
	if schema.Name != "Account" || len(schema.Fields) != 4 {
		t.Fatalf("schema = %+v", schema)
	}

	owner := schema.Fields[2]
	if !owner.IsReference() || !slices.Equal(owner.ReferenceTo, []string{"User"}) {
		t.Errorf("OwnerId = %+v", owner)
	}
	if id := schema.Fields[0]; id.ReferenceTo == nil || len(id.ReferenceTo) != 0 {
		t.Errorf("Id.ReferenceTo = %#v, want empty", id.ReferenceTo)
	}

	crm.mu.Lock()
	defer crm.mu.Unlock()
	if crm.lastAuth != "Bearer "+crm.sessionID {
		t.Errorf("Authorization = %q", crm.lastAuth)
	}
	if crm.lastPath != "/services/data/v60.0/sobjects/Account/describe" {
		t.Errorf("path = %q", crm.lastPath)
	}
}

func TestDescribeObjectErrors(t *testing.T) {
	t.Parallel()

	crm := newFakeCRM(t)
	c := NewRESTClient(testConfig(crm.URL))
	expired := &Session{InstanceURL: crm.URL, SessionID: "stale"}

	tests := []struct {
		name     string
		sess     *Session
		object   string
		wantKind error
		wantErr  error
	}{
		{"not found", crm.session(), "NoSuchObject__c", erd.ErrSchemaLookupFailed, ErrObjectNotFound},
		{"invalid type", crm.session(), "Weird", erd.ErrSchemaLookupFailed, ErrObjectNotFound},
		{"expired session", expired, "Account", erd.ErrUpstreamUnavailable, ErrSessionExpired},
		{"no session", nil, "Account", erd.ErrUpstreamUnavailable, ErrSessionExpired},
		{"bad json", crm.session(), "Broken", erd.ErrUpstreamUnavailable, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			schema, err := c.DescribeObject(context.Background(), tt.sess, tt.object)
			if schema != nil {
				t.Error("schema returned on error")
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("error = %v, want kind %v", err, tt.wantKind)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDescribeObjectServerError(t *testing.T) {
	t.Parallel()

	crm := newFakeCRM(t)
	crm.failDescribe.Store(true)
	c := NewRESTClient(testConfig(crm.URL))

	_, err := c.DescribeObject(context.Background(), crm.session(), "Account")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 503 {
		t.Fatalf("error = %v, want APIError with status 503", err)
	}
	if !errors.Is(err, erd.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestDescribeObjectTransportError(t *testing.T) {
	t.Parallel()

	crm := newFakeCRM(t)
	sess := crm.session()
	crm.Close()

	c := NewRESTClient(testConfig(crm.URL))
	_, err := c.DescribeObject(context.Background(), sess, "Account")
	if !errors.Is(err, erd.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestDescribeObjectEscapesName(t *testing.T) {
	t.Parallel()

	crm := newFakeCRM(t)
	c := NewRESTClient(testConfig(crm.URL))

	_, _ = c.DescribeObject(context.Background(), crm.session(), "My Object/x")
	crm.mu.Lock()
	defer crm.mu.Unlock()
	if crm.lastPath != "/services/data/v60.0/sobjects/My%20Object%2Fx/describe" {
		t.Errorf("path = %q, want escaped name", crm.lastPath)
	}
}

func TestListObjects(t *testing.T) {
	t.Parallel()

	crm := newFakeCRM(t)
	c := NewRESTClient(testConfig(crm.URL))

	names, err := c.ListObjects(context.Background(), crm.session())
	if err != nil {
		t.Fatalf("ListObjects() error = %v", err)
	}
	if want := []string{"Account", "Contact", "Invoice__c"}; !slices.Equal(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestListObjectsWithoutSession(t *testing.T) {
	t.Parallel()

	crm := newFakeCRM(t)
	c := NewRESTClient(testConfig(crm.URL))

	tests := []struct {
		name string
		sess *Session
	}{
		{"nil session", nil},
		{"empty instance", &Session{SessionID: "00Dxx!abc"}},
		{"empty session id", &Session{InstanceURL: crm.URL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			names, err := c.ListObjects(context.Background(), tt.sess)
			if names != nil {
				t.Errorf("names = %v, want nil", names)
			}
			if !errors.Is(err, ErrSessionExpired) {
				t.Errorf("error = %v, want ErrSessionExpired", err)
			}
		})
	}
}

func TestRateLimiterHonorsContext(t *testing.T) {
	t.Parallel()

	crm := newFakeCRM(t)
	cfg := testConfig(crm.URL)
	cfg.RateLimit = 0.001
	cfg.RateBurst = 1
	c := NewRESTClient(cfg)

	if _, err := c.ListObjects(context.Background(), crm.session()); err != nil {
		t.Fatalf("first call error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.ListObjects(ctx, crm.session())
	if !errors.Is(err, erd.ErrUpstreamUnavailable) {
		t.Errorf("throttled call error = %v, want ErrUpstreamUnavailable", err)
	}
}
