// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

// Package cache provides a bounded, thread-safe LRU cache with per-entry
// expiry. ERDGen uses it to keep CRM describe results between ERD requests:
//
//	schemas := cache.New[*models.ObjectSchema](1000, 10*time.Minute)
//	schemas.Set(key, schema)
//	if s, ok := schemas.Get(key); ok {
//	    // use s
//	}
//
// Expired entries are dropped lazily on Get and in bulk by Cleanup, which
// the supervisor's janitor calls periodically. There is no background
// goroutine.
package cache
