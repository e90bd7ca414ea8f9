// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validateHTTPURL checks for an http(s) base URL: scheme and host present,
// no path beyond "/", no query.
func validateHTTPURL(rawURL, fieldName string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if u.Path != "" && u.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, u.Path)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, u.RawQuery)
	}
	return nil
}

// validateLoginURLTemplate validates the template with a sample domain
// substituted, so "https://{domain}.salesforce.com" is accepted.
func validateLoginURLTemplate(tmpl string) error {
	if tmpl == "" {
		return fmt.Errorf("CRM_LOGIN_URL_TEMPLATE is required")
	}
	return validateHTTPURL(strings.ReplaceAll(tmpl, "{domain}", "login"), "CRM_LOGIN_URL_TEMPLATE")
}
