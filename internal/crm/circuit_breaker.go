// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package crm

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/erdgen/internal/config"
	"github.com/tomtom215/erdgen/internal/erd"
	"github.com/tomtom215/erdgen/internal/logging"
	"github.com/tomtom215/erdgen/internal/metrics"
	"github.com/tomtom215/erdgen/internal/models"
)

// CircuitBreakerClient guards describe and list calls with a circuit
// breaker. Login passes straight through.
//
// Only upstream failures count against the breaker. An unknown object or an
// expired user session says nothing about the CRM's health, so those are
// recorded as successes and labelled "ignored" in the request metrics.
type CircuitBreakerClient struct {
	next API
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewCircuitBreakerClient wraps next. The circuit opens once at least
// BreakerMinRequests calls were made in the current interval and the failure
// ratio reaches BreakerFailureRatio.
func NewCircuitBreakerClient(next API, cfg *config.CRMConfig) *CircuitBreakerClient {
	return newCircuitBreakerClient("crm-api", next, cfg)
}

func newCircuitBreakerClient(name string, next API, cfg *config.CRMConfig) *CircuitBreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= cfg.BreakerFailureRatio
			if trip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || ignoredByBreaker(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{next: next, cb: cb, name: name}
}

// State exposes the breaker state for health checks.
func (c *CircuitBreakerClient) State() string {
	return stateToString(c.cb.State())
}

func (c *CircuitBreakerClient) Login(ctx context.Context, creds *Credentials) (*Session, error) {
	return c.next.Login(ctx, creds)
}

func (c *CircuitBreakerClient) DescribeObject(ctx context.Context, sess *Session, name string) (*models.ObjectSchema, error) {
	return castResult[models.ObjectSchema](c.execute(func() (any, error) {
		return c.next.DescribeObject(ctx, sess, name)
	}))
}

func (c *CircuitBreakerClient) ListObjects(ctx context.Context, sess *Session) ([]string, error) {
	names, err := castResult[[]string](c.execute(func() (any, error) {
		names, err := c.next.ListObjects(ctx, sess)
		if err != nil {
			return nil, err
		}
		return &names, nil
	}))
	if err != nil {
		return nil, err
	}
	return *names, nil
}

func (c *CircuitBreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := c.cb.Execute(fn)
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(0)
		return result, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
		logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}

	outcome := "failure"
	if ignoredByBreaker(err) {
		outcome = "ignored"
	}
	metrics.CircuitBreakerRequests.WithLabelValues(c.name, outcome).Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(float64(c.cb.Counts().ConsecutiveFailures))
	return nil, err
}

// ignoredByBreaker reports errors that are returned to the caller but do
// not count as CRM failures.
func ignoredByBreaker(err error) bool {
	return errors.Is(err, erd.ErrSchemaLookupFailed) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, context.Canceled)
}

// castResult converts the breaker's untyped result back to *T.
func castResult[T any](result any, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
