package minio

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/hupe1980/walkgen/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStore_Integration runs against a live server and skips when none is reachable.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("WALKGEN_MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("minio client: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("minio not available: %v", err)
	}

	bucket := "walkgen-test"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "it/")

	edges := []byte("0 1\n1 2\n2 3\n3 0\n")
	require.NoError(t, store.Put(ctx, "cycle.txt", edges))

	got, err := blobstore.ReadAll(ctx, store, "cycle.txt")
	require.NoError(t, err)
	assert.Equal(t, edges, got)

	b, err := store.Open(ctx, "cycle.txt")
	require.NoError(t, err)
	buf := make([]byte, 3)
	n, err := b.ReadAt(ctx, buf, 4)
	require.NoError(t, err)
	assert.Equal(t, "1 2", string(buf[:n]))

	_, err = b.ReadRange(ctx, 100, 1)
	assert.ErrorIs(t, err, io.EOF)
	require.NoError(t, b.Close())

	w, err := store.Create(ctx, "walks/part-00000.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("0 1 2 3\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Error(t, w.Close())

	names, err := store.List(ctx, "walks/")
	require.NoError(t, err)
	assert.Equal(t, []string{"walks/part-00000.txt"}, names)

	require.NoError(t, store.Delete(ctx, "walks/part-00000.txt"))
	require.NoError(t, store.Delete(ctx, "cycle.txt"))

	_, err = store.Open(ctx, "cycle.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
