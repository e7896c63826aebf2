// Package pipeline generates artifacts for every document of a
// compilation set.
//
// Documents fan out over a bounded worker pool. Results are stored by
// index into the sorted document list, so output order never depends on
// scheduling. The schema and compilation set are shared read-only.
package pipeline

import (
	"context"
	"runtime"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/relayts/internal/codegen"
	"github.com/roach88/relayts/internal/compiler"
	"github.com/roach88/relayts/internal/ir"
	"github.com/roach88/relayts/internal/logger"
	"github.com/roach88/relayts/internal/store"
	"github.com/roach88/relayts/internal/transform"
)

// Cache is the subset of *store.Store the pipeline uses.
type Cache interface {
	BeginRun(ctx context.Context, schemaHash, optionsHash string) (store.Run, error)
	FinishRun(ctx context.Context, runID string, documents, hits int) error
	ReadArtifact(ctx context.Context, key string) (store.Artifact, bool, error)
	WriteArtifact(ctx context.Context, a store.Artifact) error
	RecordEntry(ctx context.Context, runID, artifactKey, document string, cached bool) error
}

// Artifact is the generated output for one document.
type Artifact struct {
	Name     string
	Kind     string
	Key      string
	Text     string
	Warnings []codegen.Warning
	Cached   bool
}

// FileName is the artifact's file name, e.g. "UserQuery.graphql.ts".
func (a Artifact) FileName() string {
	return a.Name + ".graphql.ts"
}

// Result is the output of one Run.
type Result struct {
	RunID     string // empty without a cache
	Artifacts []Artifact
	Hits      int
}

// InvalidError reports validation failures that stopped a run before any
// generation started.
type InvalidError struct {
	Errors []compiler.ValidationError
}

func (e *InvalidError) Error() string {
	return "validation failed:\n" + compiler.FormatErrors(e.Errors)
}

// Pipeline runs codegen over compilation sets.
type Pipeline struct {
	opts    codegen.Options
	workers int
	cache   Cache
	log     *zap.SugaredLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds concurrent document generation. Zero or less uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithCache enables the artifact cache.
func WithCache(c Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// New creates a pipeline for the given generator options.
func New(opts codegen.Options, options ...Option) *Pipeline {
	p := &Pipeline{
		opts: opts,
		log:  logger.ComponentLogger("pipeline"),
	}
	for _, o := range options {
		o(p)
	}
	if p.workers <= 0 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	return p
}

// Run validates the compilation set and generates one artifact per
// document, in document name order. The first generation error cancels
// the remaining work.
func (p *Pipeline) Run(ctx context.Context, set *ir.Context) (*Result, error) {
	if set == nil || set.Schema == nil {
		return nil, errors.New("pipeline: nil compilation set")
	}
	if verrs := compiler.Validate(set); len(verrs) > 0 {
		return nil, &InvalidError{Errors: verrs}
	}

	schemaHash, err := ir.SchemaHash(set.Schema)
	if err != nil {
		return nil, errors.Wrap(err, "hash schema")
	}
	optionsHash, err := p.opts.Fingerprint()
	if err != nil {
		return nil, errors.Wrap(err, "hash options")
	}

	res := &Result{}
	if p.cache != nil {
		run, err := p.cache.BeginRun(ctx, schemaHash, optionsHash)
		if err != nil {
			return nil, errors.Wrap(err, "begin cache run")
		}
		res.RunID = run.ID
	}

	docs := set.Documents()
	p.log.Infow("generating", "documents", len(docs), "workers", p.workers, "run", res.RunID)

	artifacts := make([]Artifact, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := p.generate(gctx, set, doc, schemaHash, optionsHash, res.RunID)
			if err != nil {
				return err
			}
			artifacts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Close the run with whatever completed so it is not left open.
		done, hits := tally(artifacts)
		if ferr := p.finishRun(ctx, res.RunID, done, hits); ferr != nil {
			p.log.Warnw("finish failed run", "run", res.RunID, "error", ferr)
		}
		return nil, err
	}

	res.Artifacts = artifacts
	_, res.Hits = tally(artifacts)

	if err := p.finishRun(ctx, res.RunID, len(artifacts), res.Hits); err != nil {
		return nil, err
	}
	p.log.Infow("generated", "documents", len(artifacts), "cache_hits", res.Hits)
	return res, nil
}

// finishRun is a no-op without a cache. It outlives ctx cancellation so a
// canceled run is still closed.
func (p *Pipeline) finishRun(ctx context.Context, runID string, documents, hits int) error {
	if p.cache == nil {
		return nil
	}
	if err := p.cache.FinishRun(context.WithoutCancel(ctx), runID, documents, hits); err != nil {
		return errors.Wrap(err, "finish cache run")
	}
	return nil
}

// tally counts generated artifacts and cache hits. Slots left empty by a
// failed run are skipped.
func tally(artifacts []Artifact) (done, hits int) {
	for _, a := range artifacts {
		if a.Name == "" {
			continue
		}
		done++
		if a.Cached {
			hits++
		}
	}
	return done, hits
}

func (p *Pipeline) generate(ctx context.Context, set *ir.Context, doc ir.Document, schemaHash, optionsHash, runID string) (Artifact, error) {
	name := doc.DocumentName()
	log := p.log.With("document", name)

	var root *ir.Root
	if op, ok := doc.(*ir.Operation); ok {
		var err error
		if root, err = transform.Normalize(set, op); err != nil {
			return Artifact{}, errors.Wrapf(err, "normalize %s", name)
		}
	}

	key, err := ir.ArtifactKey(doc, root, schemaHash, optionsHash)
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "artifact key %s", name)
	}
	a := Artifact{Name: name, Kind: ir.DocumentKind(doc), Key: key}

	if p.cache != nil {
		cached, ok, err := p.cache.ReadArtifact(ctx, key)
		if err != nil {
			return Artifact{}, errors.Wrapf(err, "read cache %s", name)
		}
		if ok {
			log.Debugw("cache hit", "key", key)
			a.Text, a.Warnings, a.Cached = cached.Text, cached.Warnings, true
			p.logWarnings(log, a.Warnings)
			if err := p.cache.RecordEntry(ctx, runID, key, name, true); err != nil {
				return Artifact{}, errors.Wrapf(err, "record cache %s", name)
			}
			return a, nil
		}
	}

	out, err := codegen.Generate(doc, set.Schema, p.opts, root)
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "generate %s", name)
	}
	a.Text, a.Warnings = out.Text, out.Warnings
	p.logWarnings(log, a.Warnings)
	log.Debugw("generated", "bytes", len(a.Text))

	if p.cache != nil {
		err := p.cache.WriteArtifact(ctx, store.Artifact{
			Key:      key,
			Document: name,
			Kind:     a.Kind,
			Text:     a.Text,
			Warnings: a.Warnings,
			RunID:    runID,
		})
		if err != nil {
			return Artifact{}, errors.Wrapf(err, "write cache %s", name)
		}
		if err := p.cache.RecordEntry(ctx, runID, key, name, false); err != nil {
			return Artifact{}, errors.Wrapf(err, "record cache %s", name)
		}
	}
	return a, nil
}

func (p *Pipeline) logWarnings(log *zap.SugaredLogger, warnings []codegen.Warning) {
	for _, w := range warnings {
		log.Warnw(w.Message, "code", w.Code, "path", w.Path)
	}
}
