// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package models

import "github.com/goccy/go-json"

// FieldTypeReference is the CRM field type for lookup/master-detail fields.
const FieldTypeReference = "reference"

// FieldDescriptor represents one schema field as reported by the CRM.
// ReferenceTo is empty unless Type is FieldTypeReference.
type FieldDescriptor struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	ReferenceTo []string `json:"referenceTo"`
}

// IsReference reports whether the field points at other schema objects.
func (f FieldDescriptor) IsReference() bool {
	return f.Type == FieldTypeReference
}

// ObjectDescriptor is one requested object as included in an ERD.
// Fields holds the selected subset, not the full schema.
type ObjectDescriptor struct {
	Name   string            `json:"name"`
	Fields []FieldDescriptor `json:"fields"`

	// Error is only set in best-effort mode when the object's schema
	// could not be described. Fields is empty in that case.
	Error string `json:"error,omitempty"`
}

// RelationshipEdge is a directed edge from the referencing object to the
// referenced object. Type carries the referencing field's name.
type RelationshipEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// Annotation is a caller-supplied value carried through generation verbatim.
type Annotation = json.RawMessage

// ErdDocument is the output of one generation call.
type ErdDocument struct {
	Objects       []ObjectDescriptor `json:"objects"`
	Relationships []RelationshipEdge `json:"relationships"`
	Annotations   []Annotation       `json:"annotations"`
}

// NewErdDocument returns an empty document sized for n objects. Slices are
// non-nil so they serialize as [] rather than null.
func NewErdDocument(n int, annotations []Annotation) *ErdDocument {
	if annotations == nil {
		annotations = []Annotation{}
	}
	return &ErdDocument{
		Objects:       make([]ObjectDescriptor, 0, n),
		Relationships: []RelationshipEdge{},
		Annotations:   annotations,
	}
}
