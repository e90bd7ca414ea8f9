// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

/*
Package erd turns CRM object schemas into an entity-relationship document.

For every requested object the Generator asks a SchemaProvider for the
object's field metadata, then:

 1. Classify splits the fields into relationship fields (type "reference")
    and descriptive fields, keeping the original order in both.
 2. SelectFields keeps every relationship field and appends a uniform random
    sample of at most limit descriptive fields.
 3. BuildEdges emits one RelationshipEdge per (reference field, target)
    pair. Self references are kept and nothing is de-duplicated.

The per-object results are assembled in request order into a
models.ErdDocument together with the caller's annotations, which are passed
through untouched.

# Errors

All failures are classified into three kinds, testable with errors.Is:

  - ErrInvalidArgument: malformed request, rejected before any lookup
  - ErrSchemaLookupFailed: the provider does not know the object
  - ErrUpstreamUnavailable: the provider could not be reached

In the default fail-fast mode the first lookup failure aborts the whole call
and no document is returned. ModeBestEffort instead records the failure on
the object's descriptor and carries on.

# Randomness

Descriptive fields are sampled with math/rand/v2. Each call builds its own
generator, either from a fresh random seed or from Request.Seed, so calls
share no mutable state and a seeded call is reproducible.
*/
package erd
