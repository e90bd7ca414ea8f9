// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

/*
Package metrics provides Prometheus metrics collection and export for ERDGen.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - CRM API calls (describe, list, login) and their outcomes
  - Describe cache hit/miss rates
  - Circuit breaker state transitions
  - ERD generation duration, size and failures by error kind
  - Session store size and janitor activity

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8082/metrics

All collectors are registered with the default registry through promauto,
so importing the package is enough to expose them.
*/
package metrics
