package orbmatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/hupe1980/orbmatch/catalog"
	"github.com/hupe1980/orbmatch/descriptor"
	"github.com/hupe1980/orbmatch/matcher"
	"github.com/hupe1980/orbmatch/resource"
	"golang.org/x/sync/errgroup"
)

// Result is one ranked template.
type Result = matcher.Result

// BatchResult is the outcome for one query of a MatchEncoded call.
// Exactly one of Matches and Err is meaningful.
type BatchResult struct {
	Matches []Result
	Err     error
}

// Engine matches ORB descriptor queries against per-category reference
// sets that are loaded on first use and then kept for the engine's lifetime.
//
// An Engine is safe for concurrent use.
type Engine struct {
	opts       options
	controller *resource.Controller
	cache      *catalog.Cache
	matcher    *matcher.Matcher
	closer     io.Closer
	closed     atomic.Bool
}

// Open creates an Engine reading artifacts from the given backend.
// No category is loaded until it is first matched or warmed up.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Engine, error) {
	if backend == nil {
		return nil, errors.New("orbmatch: nil backend")
	}
	o := applyOptions(opts)
	if err := o.matchDefaults.Validate(); err != nil {
		return nil, err
	}
	if len(o.categories) == 0 {
		return nil, errors.New("orbmatch: no categories configured")
	}

	rc := resource.NewController(o.resources)

	src, closer, err := backend.source(ctx, &o, rc)
	if err != nil {
		return nil, fmt.Errorf("orbmatch: open backend: %w", err)
	}

	e := &Engine{
		opts:       o,
		controller: rc,
		closer:     closer,
	}

	e.cache = catalog.NewCache(
		catalog.NewArtifactLoader(src, o.logger.Logger),
		o.categories,
		catalog.WithController(rc),
		catalog.WithLoadTimeout(o.loadTimeout),
		catalog.WithLogger(o.logger.Logger),
		catalog.WithLoadHook(func(ev catalog.LoadEvent) {
			o.metricsCollector.RecordLoad(ev.Category, ev.Templates, ev.Duration, ev.Err)
		}),
	)
	e.matcher = matcher.New(e.cache, o.logger.Logger)

	o.logger.InfoContext(ctx, "engine opened", "categories", len(e.cache.Categories()))

	return e, nil
}

func (e *Engine) matchOptions(opts []MatchOption) matcher.Options {
	mo := e.opts.matchDefaults
	for _, opt := range opts {
		opt(&mo)
	}
	return mo
}

// Match ranks the templates of category against query.
//
// The category is loaded on first use. A category whose artifact is missing
// or malformed matches nothing. An empty query returns an empty list without
// loading the category. A category the engine was not configured with fails
// with ErrUnknownCategory even for an empty query.
func (e *Engine) Match(ctx context.Context, query descriptor.Collection, category string, opts ...MatchOption) ([]Result, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if !e.cache.Has(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	start := time.Now()
	results, err := e.matcher.Match(ctx, query, category, e.matchOptions(opts))
	err = translateError(err)
	elapsed := time.Since(start)

	e.opts.metricsCollector.RecordMatch(category, len(results), elapsed, err)
	e.opts.logger.LogMatch(ctx, category, len(query), len(results), elapsed, err)

	return results, err
}

// MatchEncoded decodes each base64 blob into a query and matches it against
// category. The returned slice has one element per blob, in input order.
// A blob that fails to decode or match sets Err at its position and does not
// affect the others.
//
// Unknown categories, invalid options and a closed engine fail the whole call.
func (e *Engine) MatchEncoded(ctx context.Context, category string, blobs []string, opts ...MatchOption) ([]BatchResult, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if !e.cache.Has(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	mo := e.matchOptions(opts)
	if err := mo.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	out := make([]BatchResult, len(blobs))

	var g errgroup.Group
	g.SetLimit(e.opts.batchConcurrency)

	for i, blob := range blobs {
		g.Go(func() error {
			query, err := descriptor.Decode(blob)
			if err != nil {
				out[i].Err = err
				return nil
			}
			out[i].Matches, out[i].Err = e.Match(ctx, query, category, func(o *matcher.Options) { *o = mo })
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range out {
		if r.Err != nil {
			failed++
		}
	}
	elapsed := time.Since(start)
	e.opts.metricsCollector.RecordBatch(category, len(blobs), failed, elapsed)
	e.opts.logger.LogBatch(ctx, category, len(blobs), failed, elapsed)

	return out, nil
}

// Warmup loads every configured category concurrently. Categories whose
// artifact is missing or malformed are logged and skipped; any other load
// failure is returned.
func (e *Engine) Warmup(ctx context.Context) error {
	if e.closed.Load() {
		return ErrClosed
	}

	start := time.Now()
	names := e.cache.Categories()

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			_, err := e.cache.EnsureLoaded(gctx, name)
			if err != nil && !catalog.IsTerminal(err) {
				return translateError(err)
			}
			return nil
		})
	}
	err := g.Wait()

	e.opts.logger.LogWarmup(ctx, len(names), time.Since(start), err)
	return err
}

// Categories returns the load status of every configured category in
// configuration order. It never triggers a load.
func (e *Engine) Categories() []catalog.Status {
	return e.cache.Statuses()
}

// Category returns the load status of one category without loading it.
func (e *Engine) Category(category string) (catalog.Status, error) {
	return e.cache.Get(category)
}

// MemoryUsage returns the bytes of reference descriptors currently resident.
func (e *Engine) MemoryUsage() int64 {
	return e.controller.MemoryUsage()
}
