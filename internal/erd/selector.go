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

// SelectFields returns every relationship field in schema order followed by
// a random sample of at most limit descriptive fields. The returned
// descriptors share no memory with fields.
func SelectFields(rng *rand.Rand, fields []models.FieldDescriptor, limit int) (selected, relationships []models.FieldDescriptor, err error) {
	relationships, descriptive := Classify(fields)
	sampled, err := Sample(rng, descriptive, limit)
	if err != nil {
		return nil, nil, err
	}

	selected = make([]models.FieldDescriptor, 0, len(relationships)+len(sampled))
	for _, f := range relationships {
		selected = append(selected, copyField(f))
	}
	for _, f := range sampled {
		selected = append(selected, copyField(f))
	}
	return selected, relationships, nil
}

func copyField(f models.FieldDescriptor) models.FieldDescriptor {
	if f.ReferenceTo == nil {
		f.ReferenceTo = []string{}
	} else {
		f.ReferenceTo = slices.Clone(f.ReferenceTo)
	}
	return f
}
