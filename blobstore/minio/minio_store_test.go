package minio

import (
	"context"
	"testing"

	"github.com/hupe1980/orbmatch/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	bucket := "test-orbmatch"

	store, err := Dial("localhost:9000", "minioadmin", "minioadmin", false, bucket, "test-prefix/")
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err := store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Ensure bucket exists
	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "summon/party_main.json", data))

	blob, err := store.Open(ctx, "summon/party_main.json")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "minio", string(buf))

	all, err := blobstore.ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, data, all)
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "summon/party_main.json")

	require.NoError(t, store.Delete(ctx, "summon/party_main.json"))

	_, err = store.Open(ctx, "summon/party_main.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestMinioStore_Key(t *testing.T) {
	s := NewStore(nil, "bucket", "catalog/")
	assert.Equal(t, "catalog/weapon/main.json", s.key("weapon/main.json"))

	s = NewStore(nil, "bucket", "")
	assert.Equal(t, "chara.json", s.key("chara.json"))
}
