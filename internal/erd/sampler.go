// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package erd

import (
	"math/rand/v2"
	"slices"

	"github.com/tomtom215/erdgen/internal/models"
)

// RandSource builds the generator used for one Generate call.
type RandSource func() *rand.Rand

// DefaultRandSource seeds a new PCG from the runtime's random source on
// every call.
func DefaultRandSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// SeededSource returns a RandSource that always yields the same sequence.
func SeededSource(seed uint64) RandSource {
	return func() *rand.Rand {
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// Sample draws min(limit, len(fields)) distinct fields uniformly at random.
// A limit of zero yields an empty slice; a negative limit is rejected.
// The input slice is not modified.
func Sample(rng *rand.Rand, fields []models.FieldDescriptor, limit int) ([]models.FieldDescriptor, error) {
	if limit < 0 {
		return nil, invalidArgument("field limit must not be negative, got %d", limit)
	}
	n := min(limit, len(fields))
	pool := slices.Clone(fields)
	// partial Fisher-Yates: pool[:i] holds the sample after step i
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n:n], nil
}
