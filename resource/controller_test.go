package resource

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})
	assert.Equal(t, int64(100), c.MemoryLimit())

	require.NoError(t, c.ReserveMemory(50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	require.NoError(t, c.ReserveMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Exceeds remaining budget
	assert.ErrorIs(t, c.ReserveMemory(20), ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Exceeds total budget
	assert.ErrorIs(t, c.ReserveMemory(200), ErrMemoryLimitExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.ReserveMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	require.NoError(t, c.ReserveMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Loads(t *testing.T) {
	c := NewController(Config{MaxConcurrentLoads: 2})

	require.NoError(t, c.AcquireLoad(context.Background()))
	require.NoError(t, c.AcquireLoad(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireLoad(ctx), context.DeadlineExceeded)

	c.ReleaseLoad()
	require.NoError(t, c.AcquireLoad(context.Background()))
}

func TestController_DefaultLoads(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(4), c.Config().MaxConcurrentLoads)
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.ReserveMemory(1<<40))
	c.ReleaseMemory(1 << 40)
	assert.Zero(t, c.MemoryUsage())
	assert.Zero(t, c.MemoryLimit())
	assert.NoError(t, c.AcquireLoad(context.Background()))
	c.ReleaseLoad()
	assert.NoError(t, c.AcquireIO(context.Background(), 1<<20))
}

func TestRateLimitedReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	payload := bytes.Repeat([]byte("x"), 64<<10)

	r := NewRateLimitedReader(context.Background(), bytes.NewReader(payload), c)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRateLimitedReader_ClampsToBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 16})

	r := NewRateLimitedReader(context.Background(), bytes.NewReader(make([]byte, 64)), c)
	buf := make([]byte, 64)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
}

func TestRateLimitedReader_Canceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRateLimitedReader(ctx, bytes.NewReader([]byte("abc")), c)
	// First byte consumes the burst; the next wait observes cancellation.
	_, _ = r.Read(make([]byte, 1))
	_, err := r.Read(make([]byte, 1))
	assert.Error(t, err)
}
