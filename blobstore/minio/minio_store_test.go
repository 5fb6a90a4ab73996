package minio

import (
	"context"
	"os"
	"testing"

	"github.com/hupe1980/intertext/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	bucket := "test-intertext"

	store, err := New(endpoint, "minioadmin", "minioadmin", bucket, "test-prefix/", false)
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err := store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	// Put and Open
	data := []byte("<verg. aen. 1.1> arma virumque cano")
	require.NoError(t, store.Put(ctx, "texts/aen.tess", data))

	got, err := blobstore.ReadAll(ctx, store, "texts/aen.tess")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// List
	names, err := store.List(ctx, "texts/")
	require.NoError(t, err)
	assert.Contains(t, names, "texts/aen.tess")

	// Delete
	require.NoError(t, store.Delete(ctx, "texts/aen.tess"))
	_, err = store.Open(ctx, "texts/aen.tess")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	// Create (streaming)
	wb, err := store.Create(ctx, "stream.csv")
	require.NoError(t, err)
	_, err = wb.Write([]byte("source,target,score\n"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	got, err = blobstore.ReadAll(ctx, store, "stream.csv")
	require.NoError(t, err)
	assert.Equal(t, "source,target,score\n", string(got))

	_ = store.Delete(ctx, "stream.csv")
}
