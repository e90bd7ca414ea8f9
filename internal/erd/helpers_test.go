// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package erd

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/erdgen/internal/models"
)

func ref(name string, targets ...string) models.FieldDescriptor {
	return models.FieldDescriptor{Name: name, Type: models.FieldTypeReference, ReferenceTo: targets}
}

func plain(name, typ string) models.FieldDescriptor {
	return models.FieldDescriptor{Name: name, Type: typ, ReferenceTo: []string{}}
}

// mockProvider serves schemas from a map and counts calls.
type mockProvider struct {
	mu      sync.Mutex
	schemas map[string][]models.FieldDescriptor
	errs    map[string]error
	calls   atomic.Int64
	seen    []string
}

func newMockProvider(schemas map[string][]models.FieldDescriptor) *mockProvider {
	return &mockProvider{schemas: schemas, errs: map[string]error{}}
}

func (m *mockProvider) DescribeObject(ctx context.Context, name string) (*models.ObjectSchema, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.seen = append(m.seen, name)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.errs[name]; ok {
		return nil, err
	}
	fields, ok := m.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s not found", ErrSchemaLookupFailed, name)
	}
	return &models.ObjectSchema{Name: name, Fields: fields}, nil
}

func intPtr(v int) *int { return &v }

func uint64Ptr(v uint64) *uint64 { return &v }

func fieldNames(fields []models.FieldDescriptor) []string {
	out := make([]string, len(fields))
	for i := range fields {
		out[i] = fields[i].Name
	}
	return out
}

// wideSchema has n descriptive fields and the given reference fields.
func wideSchema(n int, refs ...models.FieldDescriptor) []models.FieldDescriptor {
	fields := make([]models.FieldDescriptor, 0, n+len(refs))
	for i := 0; i < n; i++ {
		fields = append(fields, plain(fmt.Sprintf("Field%02d__c", i), "string"))
	}
	return append(fields, refs...)
}
