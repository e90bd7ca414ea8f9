// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package crm

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/erdgen/internal/erd"
	"github.com/tomtom215/erdgen/internal/metrics"
)

const loginEnvelope = `<?xml version="1.0" encoding="utf-8" ?>
<env:Envelope
        xmlns:xsd="http://www.w3.org/2001/XMLSchema"
        xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
        xmlns:env="http://schemas.xmlsoap.org/soap/envelope/"
        xmlns:urn="urn:partner.soap.sforce.com">
    <env:Header>
        <urn:CallOptions>
            <urn:client>%s</urn:client>
            <urn:defaultNamespace>sf</urn:defaultNamespace>
        </urn:CallOptions>
    </env:Header>
    <env:Body>
        <n1:login xmlns:n1="urn:partner.soap.sforce.com">
            <n1:username>%s</n1:username>
            <n1:password>%s%s</n1:password>
        </n1:login>
    </env:Body>
</env:Envelope>`

// loginResponse decodes both the success body and a SOAP fault. Element
// names are matched without namespaces.
type loginResponse struct {
	Body struct {
		Result *struct {
			ServerURL string `xml:"result>serverUrl"`
			SessionID string `xml:"result>sessionId"`
			UserID    string `xml:"result>userId"`
			UserInfo  struct {
				OrgID    string `xml:"organizationId"`
				UserName string `xml:"userName"`
			} `xml:"result>userInfo"`
		} `xml:"loginResponse"`
		Fault *struct {
			Code   string `xml:"faultcode"`
			String string `xml:"faultstring"`
		} `xml:"Fault"`
	} `xml:"Body"`
}

// Login performs the SOAP login call and returns the session to use for
// data calls.
func (c *RESTClient) Login(ctx context.Context, creds *Credentials) (*Session, error) {
	start := time.Now()
	sess, err := c.login(ctx, creds)
	switch {
	case err == nil:
		metrics.RecordLoginAttempt("success")
	case errors.Is(err, ErrAuthenticationFailed):
		metrics.RecordLoginAttempt("auth_failed")
	default:
		metrics.RecordLoginAttempt("upstream_error")
	}
	metrics.RecordCRMRequest("login", outcome(err), time.Since(start))
	return sess, err
}

func (c *RESTClient) login(ctx context.Context, creds *Credentials) (*Session, error) {
	domain := NormalizeDomain(creds.Domain)
	if domain == "" || strings.ContainsAny(domain, "/?#@ ") {
		return nil, fmt.Errorf("%w: invalid instance %q", erd.ErrInvalidArgument, creds.Domain)
	}
	endpoint := c.loginURL(domain)

	body := fmt.Sprintf(loginEnvelope,
		escapeXML(c.clientID),
		escapeXML(creds.Username),
		escapeXML(creds.Password),
		escapeXML(creds.SecurityToken),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, upstreamError("rate limiter", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create login request: %w", erd.ErrInvalidArgument, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=UTF-8")
	req.Header.Set("SOAPAction", "login")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, upstreamError("login request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return nil, upstreamError("read login response", err)
	}

	var parsed loginResponse
	decodeErr := xml.NewDecoder(bytes.NewReader(raw)).Decode(&parsed)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && parsed.Body.Fault != nil {
			// The CRM answers bad credentials with a 500 SOAP fault.
			return nil, fmt.Errorf("%w: %s: %s", ErrAuthenticationFailed,
				parsed.Body.Fault.Code, parsed.Body.Fault.String)
		}
		return nil, upstreamError("login", &APIError{StatusCode: resp.StatusCode, Message: string(raw), kind: erd.ErrUpstreamUnavailable})
	}
	if decodeErr != nil {
		return nil, upstreamError("decode login response", decodeErr)
	}
	result := parsed.Body.Result
	if result == nil || result.SessionID == "" || result.ServerURL == "" {
		return nil, upstreamError("login", fmt.Errorf("response carries no session"))
	}

	server, err := url.Parse(result.ServerURL)
	if err != nil || server.Host == "" {
		return nil, upstreamError("login", fmt.Errorf("bad serverUrl %q", result.ServerURL))
	}
	scheme := server.Scheme
	if scheme == "" {
		scheme = "https"
	}

	return &Session{
		InstanceURL: scheme + "://" + server.Host,
		SessionID:   result.SessionID,
		UserID:      result.UserID,
		OrgID:       result.UserInfo.OrgID,
		Username:    result.UserInfo.UserName,
	}, nil
}

func (c *RESTClient) loginURL(domain string) string {
	base := strings.ReplaceAll(c.loginTemplate, "{domain}", domain)
	return strings.TrimSuffix(base, "/") + "/services/Soap/u/" + c.apiVersion
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
