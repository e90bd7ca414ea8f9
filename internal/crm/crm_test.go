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
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/erdgen/internal/config"
	"github.com/tomtom215/erdgen/internal/models"
)

func testConfig(loginURL string) *config.CRMConfig {
	return &config.CRMConfig{
		APIVersion:          "60.0",
		LoginURLTemplate:    loginURL,
		ClientID:            "erdgen-test",
		Timeout:             5 * time.Second,
		BreakerMaxRequests:  1,
		BreakerInterval:     time.Minute,
		BreakerTimeout:      time.Minute,
		BreakerMinRequests:  3,
		BreakerFailureRatio: 0.5,
		DescribeCacheTTL:    time.Minute,
		DescribeCacheSize:   100,
	}
}

const accountDescribe = `{
  "name": "Account",
  "label": "Account",
  "custom": false,
  "fields": [
    {"name": "Id", "type": "id", "referenceTo": [], "nillable": false},
    {"name": "Name", "type": "string", "referenceTo": []},
    {"name": "OwnerId", "type": "reference", "referenceTo": ["User"], "relationshipName": "Owner"},
    {"name": "ParentId", "type": "reference", "referenceTo": ["Account"]}
  ]
}`

const sobjectList = `{
  "encoding": "UTF-8",
  "maxBatchSize": 200,
  "sobjects": [
    {"name": "Account", "queryable": true},
    {"name": "Contact", "queryable": true},
    {"name": "Invoice__c", "custom": true}
  ]
}`

// fakeCRM is an httptest server speaking just enough of the login and REST
// protocols.
type fakeCRM struct {
	*httptest.Server

	mu           sync.Mutex
	sessionID    string
	lastLogin    string
	lastAuth     string
	lastPath     string
	describeHits atomic.Int64
	failDescribe atomic.Bool
}

func newFakeCRM(t *testing.T) *fakeCRM {
	t.Helper()
	f := &fakeCRM{sessionID: "00D5g000004ABCD!AQcAQFakeSessionToken"}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /services/Soap/u/60.0", f.handleLogin)
	mux.HandleFunc("GET /services/data/v60.0/sobjects", f.handleList)
	mux.HandleFunc("GET /services/data/v60.0/sobjects/{name}/describe", f.handleDescribe)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeCRM) session() *Session {
	return &Session{InstanceURL: f.URL, SessionID: f.sessionID}
}

func (f *fakeCRM) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.lastLogin = string(body)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "text/xml")
	if r.Header.Get("SOAPAction") != "login" || !strings.Contains(string(body), "<n1:password>s3cret&amp;TOKEN</n1:password>") {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:sf="urn:fault.partner.soap.sforce.com">
<soapenv:Body><soapenv:Fault><faultcode>INVALID_LOGIN</faultcode><faultstring>INVALID_LOGIN: Invalid username, password, security token; or user locked out.</faultstring></soapenv:Fault></soapenv:Body></soapenv:Envelope>`)
		return
	}
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns="urn:partner.soap.sforce.com">
<soapenv:Body><loginResponse><result>
<serverUrl>%s/services/Soap/u/60.0/00D5g000004ABCD</serverUrl>
<sessionId>%s</sessionId>
<userId>0055g00000AbCdE</userId>
<userInfo><organizationId>00D5g000004ABCD</organizationId><userName>jane@example.com</userName></userInfo>
</result></loginResponse></soapenv:Body></soapenv:Envelope>`, f.URL, f.sessionID)
}

func (f *fakeCRM) authorized(w http.ResponseWriter, r *http.Request) bool {
	f.mu.Lock()
	f.lastAuth = r.Header.Get("Authorization")
	f.lastPath = r.URL.EscapedPath()
	sessionID := f.sessionID
	f.mu.Unlock()
	if r.Header.Get("Authorization") != "Bearer "+sessionID {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `[{"message":"Session expired or invalid","errorCode":"INVALID_SESSION_ID"}]`)
		return false
	}
	return true
}

func (f *fakeCRM) handleList(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	fmt.Fprint(w, sobjectList)
}

func (f *fakeCRM) handleDescribe(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	f.describeHits.Add(1)
	if f.failDescribe.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "upstream maintenance")
		return
	}
	switch name := r.PathValue("name"); name {
	case "Account":
		fmt.Fprint(w, accountDescribe)
	case "Broken":
		fmt.Fprint(w, `{"name": "Broken", "fields": [`)
	case "Weird":
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `[{"message":"sObject type 'Weird' is not supported.","errorCode":"INVALID_TYPE"}]`)
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `[{"message":"The requested resource does not exist","errorCode":"NOT_FOUND"}]`)
	}
}

// countingAPI is a hand-written API double.
type countingAPI struct {
	describes atomic.Int64
	err       error
}

func (c *countingAPI) Login(context.Context, *Credentials) (*Session, error) {
	return &Session{InstanceURL: "https://na1.example.com", SessionID: "x"}, nil
}

func (c *countingAPI) DescribeObject(_ context.Context, _ *Session, name string) (*models.ObjectSchema, error) {
	c.describes.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &models.ObjectSchema{Name: name, Fields: []models.FieldDescriptor{{Name: "Id", Type: "id", ReferenceTo: []string{}}}}, nil
}

func (c *countingAPI) ListObjects(context.Context, *Session) ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []string{"Account"}, nil
}
