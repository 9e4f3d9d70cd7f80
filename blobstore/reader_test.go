package blobstore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortBlob reports a larger size than it can deliver.
type shortBlob struct {
	memoryBlob
	size int64
}

func (b *shortBlob) Size() int64 { return b.size }

func TestReadAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	payload := bytes.Repeat([]byte("0123456789"), readChunk/10+7)
	require.NoError(t, store.Put(ctx, "big.json", payload))

	blob, err := store.Open(ctx, "big.json")
	require.NoError(t, err)

	got, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadAll_Empty(t *testing.T) {
	got, err := ReadAll(context.Background(), &memoryBlob{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadAll_Truncated(t *testing.T) {
	blob := &shortBlob{memoryBlob: memoryBlob{data: []byte("abc")}, size: 10}

	_, err := ReadAll(context.Background(), blob)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadAll(ctx, &memoryBlob{data: []byte("abc")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadAll_MappableDoesNotAlias(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "chara.json", []byte("mapped")))

	blob, err := store.Open(ctx, "chara.json")
	require.NoError(t, err)

	got, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	require.NoError(t, blob.Close())

	assert.Equal(t, "mapped", string(got))
}

func TestSectionReader(t *testing.T) {
	ctx := context.Background()
	blob := &memoryBlob{data: []byte("hello orb world")}

	got, err := io.ReadAll(NewSectionReader(ctx, blob, 6, 3))
	require.NoError(t, err)
	assert.Equal(t, "orb", string(got))

	got, err = io.ReadAll(NewReader(ctx, blob))
	require.NoError(t, err)
	assert.Equal(t, "hello orb world", string(got))
}
