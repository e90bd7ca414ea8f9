// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package erd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/erdgen/internal/logging"
	"github.com/tomtom215/erdgen/internal/metrics"
	"github.com/tomtom215/erdgen/internal/models"
)

// DefaultFieldLimit is the number of descriptive fields sampled per object
// when a request does not set one.
const DefaultFieldLimit = 5

// Mode controls how lookup failures affect a generation call.
type Mode string

const (
	// ModeFailFast aborts on the first lookup failure and returns no document.
	ModeFailFast Mode = "fail_fast"
	// ModeBestEffort marks the failed object and continues.
	ModeBestEffort Mode = "best_effort"
)

// SchemaProvider supplies field metadata for a named object. Implementations
// should wrap ErrSchemaLookupFailed when the object does not exist and
// ErrUpstreamUnavailable when the backing service cannot be reached.
type SchemaProvider interface {
	DescribeObject(ctx context.Context, name string) (*models.ObjectSchema, error)
}

// ProviderFunc adapts a function to SchemaProvider.
type ProviderFunc func(ctx context.Context, name string) (*models.ObjectSchema, error)

func (f ProviderFunc) DescribeObject(ctx context.Context, name string) (*models.ObjectSchema, error) {
	return f(ctx, name)
}

// Options configures a Generator. A zero DefaultFieldLimit means requests
// without a limit get relationship fields only; DefaultOptions sets the
// usual sample size.
type Options struct {
	DefaultFieldLimit int
	// Concurrency bounds parallel schema lookups. 0 or 1 is sequential.
	Concurrency int
	Mode        Mode
	RandSource  RandSource
}

// Request is one generation call.
type Request struct {
	Objects     []string
	Annotations []models.Annotation
	// FieldLimit overrides Options.DefaultFieldLimit when set.
	FieldLimit *int
	// Seed makes descriptive-field sampling reproducible.
	Seed *uint64
}

// Generator assembles ERD documents. It is safe for concurrent use.
type Generator struct {
	opts Options
}

// DefaultOptions returns Options with DefaultFieldLimit set.
func DefaultOptions() Options {
	return Options{DefaultFieldLimit: DefaultFieldLimit}
}

// NewGenerator applies defaults to opts and validates them.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.DefaultFieldLimit < 0 {
		return nil, invalidArgument("default field limit must not be negative, got %d", opts.DefaultFieldLimit)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	switch opts.Mode {
	case "":
		opts.Mode = ModeFailFast
	case ModeFailFast, ModeBestEffort:
	default:
		return nil, invalidArgument("unknown mode %q", opts.Mode)
	}
	if opts.RandSource == nil {
		opts.RandSource = DefaultRandSource
	}
	return &Generator{opts: opts}, nil
}

// Generate builds one document for req using provider. Arguments are
// validated before the provider is called.
func (g *Generator) Generate(ctx context.Context, provider SchemaProvider, req *Request) (*models.ErdDocument, error) {
	start := time.Now()
	doc, err := g.generate(ctx, provider, req)
	if err != nil {
		requested := 0
		if req != nil {
			requested = len(req.Objects)
		}
		metrics.RecordERDGeneration(KindOf(err), time.Since(start), 0, 0)
		logging.Ctx(ctx).Warn().Err(err).Int("objects", requested).Msg("ERD generation failed")
		return nil, err
	}
	metrics.RecordERDGeneration("success", time.Since(start), len(doc.Objects), len(doc.Relationships))
	logging.Ctx(ctx).Debug().
		Int("objects", len(doc.Objects)).
		Int("relationships", len(doc.Relationships)).
		Dur("duration", time.Since(start)).
		Msg("ERD generated")
	return doc, nil
}

func (g *Generator) generate(ctx context.Context, provider SchemaProvider, req *Request) (*models.ErdDocument, error) {
	limit, err := g.validate(provider, req)
	if err != nil {
		return nil, err
	}

	schemas, lookupErrs, err := g.describeAll(ctx, provider, req.Objects)
	if err != nil {
		return nil, err
	}

	rng := g.rng(req)
	doc := models.NewErdDocument(len(req.Objects), req.Annotations)
	for i, name := range req.Objects {
		if lookupErrs[i] != nil {
			metrics.RecordERDObjectFailure(KindOf(lookupErrs[i]))
			doc.Objects = append(doc.Objects, models.ObjectDescriptor{
				Name:   name,
				Fields: []models.FieldDescriptor{},
				Error:  lookupErrs[i].Error(),
			})
			continue
		}

		selected, relationships, err := SelectFields(rng, schemas[i].Fields, limit)
		if err != nil {
			return nil, err
		}
		doc.Objects = append(doc.Objects, models.ObjectDescriptor{Name: name, Fields: selected})
		doc.Relationships = append(doc.Relationships, BuildEdges(name, relationships)...)
	}
	return doc, nil
}

func (g *Generator) validate(provider SchemaProvider, req *Request) (int, error) {
	if provider == nil {
		return 0, invalidArgument("no schema provider")
	}
	if req == nil || len(req.Objects) == 0 {
		return 0, invalidArgument("at least one object is required")
	}
	for i, name := range req.Objects {
		if strings.TrimSpace(name) == "" {
			return 0, invalidArgument("object name at index %d is empty", i)
		}
	}
	limit := g.opts.DefaultFieldLimit
	if req.FieldLimit != nil {
		limit = *req.FieldLimit
	}
	if limit < 0 {
		return 0, invalidArgument("field limit must not be negative, got %d", limit)
	}
	return limit, nil
}

func (g *Generator) rng(req *Request) *rand.Rand {
	if req.Seed != nil {
		return SeededSource(*req.Seed)()
	}
	return g.opts.RandSource()
}

// describeAll looks up every object, indexed like names. In fail-fast mode
// the first failure is returned as err. In best-effort mode failures are
// reported per index in lookupErrs and err is only set when ctx is done.
func (g *Generator) describeAll(ctx context.Context, provider SchemaProvider, names []string) (schemas []*models.ObjectSchema, lookupErrs []error, err error) {
	schemas = make([]*models.ObjectSchema, len(names))
	lookupErrs = make([]error, len(names))
	bestEffort := g.opts.Mode == ModeBestEffort

	describe := func(ctx context.Context, i int) error {
		schema, err := provider.DescribeObject(ctx, names[i])
		if err == nil && schema == nil {
			err = fmt.Errorf("%w: provider returned no schema", ErrSchemaLookupFailed)
		}
		if err != nil {
			lerr := lookupError(names[i], err)
			if bestEffort && ctx.Err() == nil {
				lookupErrs[i] = lerr
				return nil
			}
			return lerr
		}
		schemas[i] = schema
		return nil
	}

	if g.opts.Concurrency <= 1 {
		for i := range names {
			if err := describe(ctx, i); err != nil {
				return nil, nil, err
			}
		}
		return schemas, lookupErrs, nil
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(g.opts.Concurrency)
	for i := range names {
		group.Go(func() error {
			return describe(gctx, i)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return schemas, lookupErrs, nil
}
