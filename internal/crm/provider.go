// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package crm

import (
	"context"

	"github.com/tomtom215/erdgen/internal/config"
	"github.com/tomtom215/erdgen/internal/erd"
	"github.com/tomtom215/erdgen/internal/models"
)

// Client is the assembled CRM client used by the API layer.
type Client struct {
	API
	breaker *CircuitBreakerClient
	cache   *CachingClient
}

// New builds RESTClient -> CircuitBreakerClient -> CachingClient. The cache
// is skipped when DescribeCacheTTL is zero.
func New(cfg *config.CRMConfig) *Client {
	breaker := NewCircuitBreakerClient(NewRESTClient(cfg), cfg)
	c := &Client{API: breaker, breaker: breaker}
	if cfg.DescribeCacheTTL > 0 {
		c.cache = NewCachingClient(breaker, cfg.DescribeCacheSize, cfg.DescribeCacheTTL)
		c.API = c.cache
	}
	return c
}

// BreakerState reports the circuit breaker state: closed, half-open or open.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// CleanupCache drops expired describe results. It returns 0 when caching is
// disabled.
func (c *Client) CleanupCache() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Cleanup()
}

// InvalidateCache drops the describe results cached for sess, typically
// at logout.
func (c *Client) InvalidateCache(sess *Session) int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Invalidate(sess)
}

// SessionProvider binds api and sess into an erd.SchemaProvider.
func SessionProvider(api API, sess *Session) erd.SchemaProvider {
	return erd.ProviderFunc(func(ctx context.Context, name string) (*models.ObjectSchema, error) {
		return api.DescribeObject(ctx, sess, name)
	})
}
