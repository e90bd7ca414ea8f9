// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

/*
Package models defines data structures shared across ERDGen packages.

Model Categories:

1. ERD Document Models (erd.go):
  - FieldDescriptor: one schema field as reported by the CRM
  - ObjectDescriptor: one requested object with its selected fields
  - RelationshipEdge: directed edge from a referencing object to a referenced object
  - ErdDocument: the assembled output of a generation call

2. CRM Describe Models (describe.go):
  - ObjectSchema: normalized describe result consumed by the ERD generator
  - SObjectDescribe, SObjectField: raw REST describe payloads
  - SObjectList: global describe (object listing) payload

All JSON field names match what the browser front-end expects, so the
payloads can be written straight to the wire.
*/
package models
