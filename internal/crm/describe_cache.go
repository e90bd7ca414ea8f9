// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package crm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/tomtom215/erdgen/internal/cache"
	"github.com/tomtom215/erdgen/internal/metrics"
	"github.com/tomtom215/erdgen/internal/models"
)

// CachingClient caches successful describe results per CRM session and
// object. Field-level security makes a describe result specific to the
// user, so entries are never shared between sessions. A session the CRM
// reports as expired loses its entries before the error is returned.
type CachingClient struct {
	next    API
	schemas *cache.LRU[*models.ObjectSchema]
}

func NewCachingClient(next API, capacity int, ttl time.Duration) *CachingClient {
	return &CachingClient{
		next:    next,
		schemas: cache.New[*models.ObjectSchema](capacity, ttl),
	}
}

func (c *CachingClient) Login(ctx context.Context, creds *Credentials) (*Session, error) {
	return c.next.Login(ctx, creds)
}

func (c *CachingClient) ListObjects(ctx context.Context, sess *Session) ([]string, error) {
	names, err := c.next.ListObjects(ctx, sess)
	if errors.Is(err, ErrSessionExpired) {
		c.Invalidate(sess)
	}
	return names, err
}

func (c *CachingClient) DescribeObject(ctx context.Context, sess *Session, name string) (*models.ObjectSchema, error) {
	if sess == nil || sess.SessionID == "" {
		return c.next.DescribeObject(ctx, sess, name)
	}

	key := cacheKey(sess, name)
	if schema, ok := c.schemas.Get(key); ok {
		metrics.RecordDescribeCache(true)
		return schema, nil
	}
	metrics.RecordDescribeCache(false)

	schema, err := c.next.DescribeObject(ctx, sess, name)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			c.Invalidate(sess)
		}
		return nil, err
	}
	c.schemas.Set(key, schema)
	c.recordStats()
	return schema, nil
}

// Invalidate drops every cached schema for the session.
func (c *CachingClient) Invalidate(sess *Session) int {
	if sess == nil || sess.SessionID == "" {
		return 0
	}
	n := c.schemas.DeletePrefix(sessionPrefix(sess))
	c.recordStats()
	return n
}

// Cleanup drops expired entries. Called by the janitor service.
func (c *CachingClient) Cleanup() int {
	n := c.schemas.Cleanup()
	c.recordStats()
	return n
}

func (c *CachingClient) recordStats() {
	stats := c.schemas.Stats()
	metrics.RecordDescribeCacheStats(stats.Size, stats.HitRate())
}

// sessionPrefix identifies the session by a digest so raw session IDs are
// not kept as map keys.
func sessionPrefix(sess *Session) string {
	sum := sha256.Sum256([]byte(sess.SessionID))
	instance := strings.ToLower(strings.TrimSuffix(sess.InstanceURL, "/"))
	return instance + "|" + hex.EncodeToString(sum[:16]) + "|"
}

// Object names are case-insensitive in the CRM.
func cacheKey(sess *Session, name string) string {
	return sessionPrefix(sess) + strings.ToLower(name)
}
