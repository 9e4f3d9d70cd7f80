package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/orbmatch/artifact"
	"github.com/hupe1980/orbmatch/blobstore"
	"github.com/hupe1980/orbmatch/descriptor"
	"github.com/hupe1980/orbmatch/resource"
	"github.com/hupe1980/orbmatch/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = []string{"weapon/main", "chara"}

func newStoreCache(t *testing.T, opts ...CacheOption) (*Cache, *blobstore.MemoryStore) {
	t.Helper()

	rng := testutil.NewRNG(4711)
	store := blobstore.NewMemoryStore()
	require.NoError(t, artifact.NewWriter(store).Write(context.Background(), "weapon/main", &artifact.Artifact{
		TemplateNames:   []string{"sword", "bow"},
		DescriptorsList: []string{testutil.Encode(rng.Collection(4)), testutil.Encode(rng.Collection(4))},
	}))

	loader := NewArtifactLoader(artifact.NewBlobSource(store), nil)
	return NewCache(loader, testCategories, opts...), store
}

// gatedLoader blocks every load until release is closed.
type gatedLoader struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	set     *ReferenceSet
	err     error
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
		set:     NewReferenceSet(Entry{Name: "hero", Descriptors: make(descriptor.Collection, 2)}),
	}
}

func (l *gatedLoader) Load(ctx context.Context, _ string) (*ReferenceSet, error) {
	l.calls.Add(1)
	l.started <- struct{}{}
	select {
	case <-l.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return l.set, l.err
}

func TestCache_Idempotent(t *testing.T) {
	c, store := newStoreCache(t)
	ctx := context.Background()

	st, err := c.Get("weapon/main")
	require.NoError(t, err)
	assert.Equal(t, StateUnloaded, st.State)

	first, err := c.EnsureLoaded(ctx, "weapon/main")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Len())

	for range 5 {
		again, err := c.EnsureLoaded(ctx, "weapon/main")
		require.NoError(t, err)
		assert.Same(t, first, again)
	}

	assert.Equal(t, 1, store.Opens("weapon/main.json"))

	st, err = c.Get("weapon/main")
	require.NoError(t, err)
	assert.Equal(t, StateLoaded, st.State)
	assert.Equal(t, 2, st.Templates)
	assert.Equal(t, int64(8*descriptor.Width), st.SizeBytes)
	assert.False(t, st.LoadedAt.IsZero())
}

func TestCache_ConcurrentFirstUse(t *testing.T) {
	c, store := newStoreCache(t)

	const callers = 32
	sets := make([]*ReferenceSet, callers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			set, err := c.EnsureLoaded(context.Background(), "weapon/main")
			assert.NoError(t, err)
			sets[i] = set
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, store.Opens("weapon/main.json"))
	for _, s := range sets[1:] {
		assert.Same(t, sets[0], s)
	}
}

func TestCache_ConcurrentWaitersShareLoad(t *testing.T) {
	loader := newGatedLoader()
	c := NewCache(loader, testCategories)

	const callers = 8
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.EnsureLoaded(context.Background(), "chara")
			assert.NoError(t, err)
		}()
	}

	<-loader.started
	st, err := c.Get("chara")
	require.NoError(t, err)
	assert.Equal(t, StateLoading, st.State)

	close(loader.release)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestCache_MissingArtifact(t *testing.T) {
	var calls atomic.Int32
	inner := NewArtifactLoader(artifact.NewBlobSource(blobstore.NewMemoryStore()), nil)
	c := NewCache(LoaderFunc(func(ctx context.Context, category string) (*ReferenceSet, error) {
		calls.Add(1)
		return inner.Load(ctx, category)
	}), testCategories)

	for range 3 {
		set, err := c.EnsureLoaded(context.Background(), "chara")
		assert.Nil(t, set)
		assert.ErrorIs(t, err, ErrArtifactMissing)
		assert.True(t, IsTerminal(err))
	}

	// Terminal failures are not retried.
	assert.Equal(t, int32(1), calls.Load())

	st, err := c.Get("chara")
	require.NoError(t, err)
	assert.Equal(t, StateLoadFailed, st.State)
	assert.ErrorIs(t, st.Err, ErrArtifactMissing)
}

func TestCache_MalformedArtifact(t *testing.T) {
	c, store := newStoreCache(t)
	require.NoError(t, store.Put(context.Background(), "chara.json",
		[]byte(`{"template_names":["a","b"],"descriptors_list":["AAAA"]}`)))

	_, err := c.EnsureLoaded(context.Background(), "chara")
	assert.ErrorIs(t, err, ErrArtifactMalformed)

	_, err = c.EnsureLoaded(context.Background(), "chara")
	assert.ErrorIs(t, err, ErrArtifactMalformed)
	assert.Equal(t, 1, store.Opens("chara.json"))
}

func TestCache_TransientErrorRetries(t *testing.T) {
	var calls atomic.Int32
	loader := LoaderFunc(func(context.Context, string) (*ReferenceSet, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("connection reset")
		}
		return NewReferenceSet(), nil
	})

	var events []LoadEvent
	c := NewCache(loader, testCategories, WithLoadHook(func(ev LoadEvent) { events = append(events, ev) }))

	_, err := c.EnsureLoaded(context.Background(), "chara")
	require.Error(t, err)
	assert.False(t, IsTerminal(err))

	st, _ := c.Get("chara")
	assert.Equal(t, StateUnloaded, st.State)
	assert.Error(t, st.Err)

	set, err := c.EnsureLoaded(context.Background(), "chara")
	require.NoError(t, err)
	assert.Zero(t, set.Len())

	st, _ = c.Get("chara")
	assert.Equal(t, StateLoaded, st.State)
	assert.NoError(t, st.Err)

	require.Len(t, events, 2)
	assert.Error(t, events[0].Err)
	assert.NoError(t, events[1].Err)
}

func TestCache_CanceledWaiterDoesNotAbortLoad(t *testing.T) {
	loader := newGatedLoader()
	c := NewCache(loader, testCategories)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.EnsureLoaded(ctx, "chara")
		errCh <- err
	}()

	<-loader.started
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(loader.release)

	set, err := c.EnsureLoaded(context.Background(), "chara")
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestCache_LoadTimeout(t *testing.T) {
	loader := newGatedLoader()
	c := NewCache(loader, testCategories, WithLoadTimeout(20*time.Millisecond))

	_, err := c.EnsureLoaded(context.Background(), "chara")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, IsTerminal(err))

	st, _ := c.Get("chara")
	assert.Equal(t, StateUnloaded, st.State)
}

func TestCache_MemoryLimit(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 4 * descriptor.Width})
	c, _ := newStoreCache(t, WithController(rc))

	_, err := c.EnsureLoaded(context.Background(), "weapon/main")
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Zero(t, rc.MemoryUsage())

	st, _ := c.Get("weapon/main")
	assert.Equal(t, StateUnloaded, st.State)
}

func TestCache_CloseReleasesMemory(t *testing.T) {
	rc := resource.NewController(resource.Config{})
	c, _ := newStoreCache(t, WithController(rc))

	_, err := c.EnsureLoaded(context.Background(), "weapon/main")
	require.NoError(t, err)
	assert.Equal(t, int64(8*descriptor.Width), rc.MemoryUsage())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Zero(t, rc.MemoryUsage())

	_, err = c.EnsureLoaded(context.Background(), "weapon/main")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCache_UnknownCategory(t *testing.T) {
	c, _ := newStoreCache(t)

	_, err := c.EnsureLoaded(context.Background(), "armor")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = c.Get("armor")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.False(t, c.Has("armor"))
	assert.True(t, c.Has("chara"))
}

func TestCache_Statuses(t *testing.T) {
	c := NewCache(newGatedLoader(), []string{"b", "a", "b"})

	assert.Equal(t, []string{"b", "a"}, c.Categories())

	st := c.Statuses()
	require.Len(t, st, 2)
	assert.Equal(t, "b", st[0].Name)
	assert.Equal(t, StateUnloaded, st[1].State)
}
