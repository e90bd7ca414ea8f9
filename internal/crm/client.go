// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package crm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/erdgen/internal/config"
	"github.com/tomtom215/erdgen/internal/erd"
	"github.com/tomtom215/erdgen/internal/metrics"
	"github.com/tomtom215/erdgen/internal/models"
)

// API is the set of CRM calls ERDGen makes. Every decorator in this package
// implements it.
type API interface {
	Login(ctx context.Context, creds *Credentials) (*Session, error)
	DescribeObject(ctx context.Context, sess *Session, name string) (*models.ObjectSchema, error)
	ListObjects(ctx context.Context, sess *Session) ([]string, error)
}

// maxErrorBodySize bounds how much of an error response is read.
const maxErrorBodySize = 64 * 1024

// RESTClient performs the raw HTTP calls. It is safe for concurrent use.
type RESTClient struct {
	http          *http.Client
	limiter       *rate.Limiter
	apiVersion    string
	loginTemplate string
	clientID      string
}

// NewRESTClient builds a client from cfg. A zero RateLimit disables
// outbound limiting.
func NewRESTClient(cfg *config.CRMConfig) *RESTClient {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &RESTClient{
		http:          &http.Client{Timeout: cfg.Timeout},
		limiter:       rate.NewLimiter(limit, max(cfg.RateBurst, 1)),
		apiVersion:    cfg.APIVersion,
		loginTemplate: cfg.LoginURLTemplate,
		clientID:      cfg.ClientID,
	}
}

// DescribeObject fetches one object's field metadata.
func (c *RESTClient) DescribeObject(ctx context.Context, sess *Session, name string) (*models.ObjectSchema, error) {
	start := time.Now()
	var describe models.SObjectDescribe
	err := c.getJSON(ctx, sess, &describe, "sobjects", name, "describe")
	metrics.RecordCRMRequest("describe", outcome(err), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", name, err)
	}
	if describe.Name == "" {
		describe.Name = name
	}
	return describe.ToObjectSchema(), nil
}

// ListObjects returns the names of every object visible to the session.
func (c *RESTClient) ListObjects(ctx context.Context, sess *Session) ([]string, error) {
	start := time.Now()
	var list models.SObjectList
	err := c.getJSON(ctx, sess, &list, "sobjects")
	metrics.RecordCRMRequest("list", outcome(err), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	return list.Names(), nil
}

// dataURL joins escaped path segments onto the versioned REST base.
func (c *RESTClient) dataURL(sess *Session, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/services/data/v%s/%s",
		strings.TrimSuffix(sess.InstanceURL, "/"), c.apiVersion, strings.Join(escaped, "/"))
}

// getJSON decodes the REST resource at segments into out. A missing
// session is rejected before any URL is built.
func (c *RESTClient) getJSON(ctx context.Context, sess *Session, out any, segments ...string) error {
	if sess == nil || sess.InstanceURL == "" || sess.SessionID == "" {
		return ErrSessionExpired
	}
	endpoint := c.dataURL(sess, segments...)
	if err := c.limiter.Wait(ctx); err != nil {
		return upstreamError("rate limiter", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", erd.ErrInvalidArgument, err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.SessionID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return upstreamError("request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return restError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return upstreamError("decode response", err)
	}
	return nil
}

// restError maps a non-200 REST response to an error kind. The body is a
// JSON array of {errorCode, message} when the CRM produced it.
func restError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}

	var details []models.RESTError
	if json.Unmarshal(body, &details) == nil && len(details) > 0 {
		apiErr.Code = details[0].ErrorCode
		apiErr.Message = details[0].Message
	}

	switch {
	case resp.StatusCode == http.StatusNotFound,
		apiErr.Code == "NOT_FOUND",
		apiErr.Code == "INVALID_TYPE":
		apiErr.kind = ErrObjectNotFound
	case resp.StatusCode == http.StatusUnauthorized,
		apiErr.Code == "INVALID_SESSION_ID":
		apiErr.kind = ErrSessionExpired
	default:
		apiErr.kind = erd.ErrUpstreamUnavailable
	}
	return apiErr
}

func outcome(err error) string {
	switch erd.KindOf(err) {
	case "":
		return "success"
	case "schema_lookup_failed":
		return "not_found"
	default:
		return "upstream_error"
	}
}
