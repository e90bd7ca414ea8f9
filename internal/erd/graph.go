// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package erd

import "github.com/tomtom215/erdgen/internal/models"

// BuildEdges emits one edge per (field, target) pair, in field order and
// then target order. Targets are not checked against the requested object
// set, duplicates are kept, and a field pointing at its own object yields a
// self edge.
func BuildEdges(object string, relationships []models.FieldDescriptor) []models.RelationshipEdge {
	n := 0
	for i := range relationships {
		n += len(relationships[i].ReferenceTo)
	}
	edges := make([]models.RelationshipEdge, 0, n)
	for i := range relationships {
		for _, target := range relationships[i].ReferenceTo {
			edges = append(edges, models.RelationshipEdge{
				From: object,
				To:   target,
				Type: relationships[i].Name,
			})
		}
	}
	return edges
}
