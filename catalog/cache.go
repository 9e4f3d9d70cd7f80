package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/orbmatch/resource"
	"golang.org/x/sync/singleflight"
)

// LoadEvent describes a finished load attempt.
type LoadEvent struct {
	Category  string
	Duration  time.Duration
	Templates int
	SizeBytes int64
	Err       error
}

// CacheOption configures a Cache.
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	controller  *resource.Controller
	loadTimeout time.Duration
	logger      *slog.Logger
	onLoad      func(LoadEvent)
}

// WithController bounds concurrent loads and resident reference memory.
func WithController(rc *resource.Controller) CacheOption {
	return func(o *cacheOptions) {
		o.controller = rc
	}
}

// WithLoadTimeout bounds a single load attempt. Zero means no bound.
func WithLoadTimeout(d time.Duration) CacheOption {
	return func(o *cacheOptions) {
		o.loadTimeout = d
	}
}

// WithLogger sets the logger for load outcomes.
func WithLogger(l *slog.Logger) CacheOption {
	return func(o *cacheOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLoadHook registers a callback invoked after every load attempt.
func WithLoadHook(fn func(LoadEvent)) CacheOption {
	return func(o *cacheOptions) {
		o.onLoad = fn
	}
}

// slot holds the state of one category.
type slot struct {
	mu       sync.Mutex
	state    State
	set      *ReferenceSet
	err      error
	loadedAt time.Time
}

// Cache maps each configured category to its lazily loaded reference set.
type Cache struct {
	loader Loader
	slots  map[string]*slot
	names  []string
	group  singleflight.Group
	opts   cacheOptions
	closed atomic.Bool
}

// NewCache creates a cache for the given categories, all Unloaded.
// Duplicate category names are ignored.
func NewCache(loader Loader, categories []string, opts ...CacheOption) *Cache {
	o := cacheOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache{
		loader: loader,
		slots:  make(map[string]*slot, len(categories)),
		opts:   o,
	}
	for _, name := range categories {
		if _, ok := c.slots[name]; ok {
			continue
		}
		c.slots[name] = &slot{}
		c.names = append(c.names, name)
	}
	return c
}

// Categories returns the configured categories in configuration order.
func (c *Cache) Categories() []string {
	return append([]string(nil), c.names...)
}

// Has reports whether the category is configured.
func (c *Cache) Has(category string) bool {
	_, ok := c.slots[category]
	return ok
}

// Get returns the current status of a category without triggering a load.
func (c *Cache) Get(category string) (Status, error) {
	s, ok := c.slots[category]
	if !ok {
		return Status{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return s.status(category), nil
}

// Statuses returns the status of every category in configuration order.
func (c *Cache) Statuses() []Status {
	out := make([]Status, len(c.names))
	for i, name := range c.names {
		out[i] = c.slots[name].status(name)
	}
	return out
}

func (s *slot) status(name string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Name:      name,
		State:     s.state,
		Templates: s.set.Len(),
		SizeBytes: s.set.SizeBytes(),
		LoadedAt:  s.loadedAt,
		Err:       s.err,
	}
}

// EnsureLoaded returns the category's reference set, loading it on first use.
//
// Concurrent callers for the same category share one load. A caller whose
// ctx ends stops waiting and gets ctx.Err(); the load itself continues.
// Terminal failures are returned as *LoadError on every call; transient
// failures leave the category Unloaded so the next call retries.
func (c *Cache) EnsureLoaded(ctx context.Context, category string) (*ReferenceSet, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	s, ok := c.slots[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	if set, done, err := s.settled(); done {
		return set, err
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(category, func() (any, error) {
		return c.load(loadCtx, category, s)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ReferenceSet), nil
	}
}

// settled returns the outcome of a finished load, if any.
func (s *slot) settled() (*ReferenceSet, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateLoaded:
		return s.set, true, nil
	case StateLoadFailed:
		return nil, true, s.err
	default:
		return nil, false, nil
	}
}

// load runs at most once at a time per category.
func (c *Cache) load(ctx context.Context, category string, s *slot) (*ReferenceSet, error) {
	// A flight that started after a previous one settled must not reload.
	if set, done, err := s.settled(); done {
		return set, err
	}
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	if c.opts.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.loadTimeout)
		defer cancel()
	}

	start := time.Now()
	set, err := c.loadOnce(ctx, category)
	elapsed := time.Since(start)

	s.mu.Lock()
	switch {
	case err == nil && c.closed.Load():
		c.opts.controller.ReleaseMemory(set.SizeBytes())
		set, err = nil, ErrClosed
		s.state = StateUnloaded
	case err == nil:
		s.state, s.set, s.err, s.loadedAt = StateLoaded, set, nil, time.Now()
	case IsTerminal(err):
		s.state, s.err = StateLoadFailed, err
	default:
		s.state, s.err = StateUnloaded, err
	}
	s.mu.Unlock()

	c.report(ctx, LoadEvent{
		Category:  category,
		Duration:  elapsed,
		Templates: set.Len(),
		SizeBytes: set.SizeBytes(),
		Err:       err,
	})

	return set, err
}

func (c *Cache) loadOnce(ctx context.Context, category string) (*ReferenceSet, error) {
	rc := c.opts.controller

	if err := rc.AcquireLoad(ctx); err != nil {
		return nil, &LoadError{Category: category, Err: err}
	}
	defer rc.ReleaseLoad()

	set, err := c.loader.Load(ctx, category)
	if err != nil {
		var le *LoadError
		if !errors.As(err, &le) {
			err = &LoadError{Category: category, Err: err}
		}
		return nil, err
	}
	if set == nil {
		set = &ReferenceSet{}
	}

	if err := rc.ReserveMemory(set.SizeBytes()); err != nil {
		return nil, &LoadError{Category: category, Err: err}
	}
	return set, nil
}

func (c *Cache) report(ctx context.Context, ev LoadEvent) {
	log := c.opts.logger.With(slog.String("category", ev.Category), slog.Duration("duration", ev.Duration))
	switch {
	case ev.Err == nil:
		log.InfoContext(ctx, "category loaded",
			slog.Int("templates", ev.Templates),
			slog.Int64("bytes", ev.SizeBytes),
		)
	case IsTerminal(ev.Err):
		log.WarnContext(ctx, "category load failed", slog.Any("error", ev.Err))
	default:
		log.ErrorContext(ctx, "category load failed, will retry", slog.Any("error", ev.Err))
	}

	if c.opts.onLoad != nil {
		c.opts.onLoad(ev)
	}
}

// Close releases the memory reservations of all loaded sets. Subsequent
// EnsureLoaded calls fail with ErrClosed. Close is idempotent.
func (c *Cache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	for _, s := range c.slots {
		s.mu.Lock()
		if s.state == StateLoaded {
			c.opts.controller.ReleaseMemory(s.set.SizeBytes())
		}
		s.mu.Unlock()
	}
	return nil
}
