// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package crm

import (
	"strings"
)

// Credentials are the inputs of a login call. They are never stored.
type Credentials struct {
	// Domain is what the user typed as the instance: "login", "test",
	// "acme.my.salesforce.com" or "https://acme.my.salesforce.com".
	Domain        string
	Username      string
	Password      string
	SecurityToken string
}

// Session is the result of a successful login.
type Session struct {
	// InstanceURL is the https base URL for REST data calls.
	InstanceURL string
	SessionID   string
	UserID      string
	OrgID       string
	Username    string
}

// NormalizeDomain reduces a user-supplied instance to the login subdomain:
// the https:// scheme, the .salesforce.com suffix and any trailing slash are
// removed.
//
//	https://acme.my.salesforce.com -> acme.my
//	login                          -> login
func NormalizeDomain(domain string) string {
	d := strings.TrimSpace(domain)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimSuffix(d, "/")
	d = strings.TrimSuffix(d, ".salesforce.com")
	return d
}
