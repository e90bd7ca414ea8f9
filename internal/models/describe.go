// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package models

// ObjectSchema is the normalized describe result for one schema object.
type ObjectSchema struct {
	Name   string            `json:"name"`
	Fields []FieldDescriptor `json:"fields"`
}

// SObjectField mirrors the subset of a REST describe field entry that
// ERDGen reads. Unknown keys are ignored by the decoder.
type SObjectField struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Label        string   `json:"label,omitempty"`
	ReferenceTo  []string `json:"referenceTo"`
	Relationship string   `json:"relationshipName,omitempty"`
	Nillable     bool     `json:"nillable"`
}

// SObjectDescribe mirrors GET /services/data/vXX.X/sobjects/{name}/describe.
type SObjectDescribe struct {
	Name   string         `json:"name"`
	Label  string         `json:"label,omitempty"`
	Custom bool           `json:"custom"`
	Fields []SObjectField `json:"fields"`
}

// ToObjectSchema converts the raw describe payload into an ObjectSchema.
// Non-reference fields always get an empty ReferenceTo.
func (d *SObjectDescribe) ToObjectSchema() *ObjectSchema {
	fields := make([]FieldDescriptor, 0, len(d.Fields))
	for _, f := range d.Fields {
		fd := FieldDescriptor{Name: f.Name, Type: f.Type, ReferenceTo: []string{}}
		if f.Type == FieldTypeReference && len(f.ReferenceTo) > 0 {
			fd.ReferenceTo = append(fd.ReferenceTo, f.ReferenceTo...)
		}
		fields = append(fields, fd)
	}
	return &ObjectSchema{Name: d.Name, Fields: fields}
}

// SObjectSummary is one entry of the global describe listing.
type SObjectSummary struct {
	Name       string `json:"name"`
	Label      string `json:"label,omitempty"`
	Queryable  bool   `json:"queryable"`
	Custom     bool   `json:"custom"`
	Createable bool   `json:"createable"`
}

// SObjectList mirrors GET /services/data/vXX.X/sobjects.
type SObjectList struct {
	Encoding     string           `json:"encoding,omitempty"`
	MaxBatchSize int              `json:"maxBatchSize,omitempty"`
	SObjects     []SObjectSummary `json:"sobjects"`
}

// Names returns the object names in listing order.
func (l *SObjectList) Names() []string {
	names := make([]string, 0, len(l.SObjects))
	for _, o := range l.SObjects {
		names = append(names, o.Name)
	}
	return names
}

// RESTError is one element of the error array the CRM REST API returns.
type RESTError struct {
	ErrorCode string   `json:"errorCode"`
	Message   string   `json:"message"`
	Fields    []string `json:"fields,omitempty"`
}
