package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Open(ctx, "chara.json")
	assert.ErrorIs(t, err, ErrNotFound)

	data := []byte("hello catalog")
	require.NoError(t, store.Put(ctx, "chara.json", data))
	require.NoError(t, store.Put(ctx, "summon/party_main.json", []byte("x")))

	// The store keeps its own copy.
	data[0] = 'X'

	blob, err := store.Open(ctx, "chara.json")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(13), blob.Size())

	buf := make([]byte, 7)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "catalog", string(buf))

	n, err = blob.ReadAt(ctx, make([]byte, 4), 11)
	assert.Equal(t, 2, n)
	assert.Equal(t, io.EOF, err)

	assert.Equal(t, 1, store.Opens("chara.json"))
	assert.Equal(t, 0, store.Opens("summon/party_main.json"))

	names, err := store.List(ctx, "summon/")
	require.NoError(t, err)
	assert.Equal(t, []string{"summon/party_main.json"}, names)

	require.NoError(t, store.Delete(ctx, "chara.json"))
	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"summon/party_main.json"}, names)
}
