package s3

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/orbmatch/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()

	// Create a unique prefix for this test run
	prefix := fmt.Sprintf("test-orbmatch-%d/", time.Now().UnixNano())
	store, err := New(ctx, bucket, prefix)
	require.NoError(t, err)

	t.Run("Put and Read", func(t *testing.T) {
		name := "weapon/main.json"
		data := []byte(`{"template_names":[],"descriptors_list":[]}`)

		require.NoError(t, store.Put(ctx, name, data))

		blobs, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Contains(t, blobs, name)

		r, err := store.Open(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), r.Size())

		got, err := blobstore.ReadAll(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, data, got)

		require.NoError(t, store.Delete(ctx, name))
		require.NoError(t, r.Close())
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "nonexistent.json")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
