// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package erd

import "github.com/tomtom215/erdgen/internal/models"

// Classify partitions fields into relationship fields and descriptive
// fields. Both results keep the input order; their concatenation is a
// permutation of fields.
func Classify(fields []models.FieldDescriptor) (relationships, descriptive []models.FieldDescriptor) {
	relationships = make([]models.FieldDescriptor, 0, len(fields))
	descriptive = make([]models.FieldDescriptor, 0, len(fields))
	for i := range fields {
		if fields[i].IsReference() {
			relationships = append(relationships, fields[i])
		} else {
			descriptive = append(descriptive, fields[i])
		}
	}
	return relationships, descriptive
}
