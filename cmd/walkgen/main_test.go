package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/walkgen/blobstore"
	"github.com/hupe1980/walkgen/internal/compress"
)

func TestRun_LocalShards(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WALKGEN_ENV_FILE", filepath.Join(dir, "none.env"))

	graphPath := filepath.Join(dir, "square.txt")
	require.NoError(t, os.WriteFile(graphPath, []byte("# square\na b\nb c\nc d\nd a\n"), 0o600))
	outDir := filepath.Join(dir, "out")

	var stdout strings.Builder
	err := run(context.Background(), []string{
		"-graph", graphPath,
		"-output", outDir,
		"-epochs", "3",
		"-batch-size", "2",
		"-walk-length", "5",
		"-capacity", "256",
		"-compression", "gzip",
		"-as-words",
		"-log-level", "error",
	}, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Wrote 12 walks (3 epochs over 4 start nodes)")

	store := blobstore.NewLocalStore(outDir)
	ctx := context.Background()

	vocab, err := blobstore.ReadAll(ctx, store, "vocab.txt")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\nd\n", string(vocab))

	data, err := blobstore.ReadAll(ctx, store, "walks-00000.txt.gz")
	require.NoError(t, err)
	r, err := compress.NewReader(compress.Gzip, strings.NewReader(string(data)))
	require.NoError(t, err)
	defer r.Close()

	var text strings.Builder
	_, err = io.Copy(&text, r)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	require.Len(t, lines, 12)
	for i, line := range lines {
		words := strings.Fields(line)
		require.Len(t, words, 5)
		assert.Equal(t, string(rune('a'+i%4)), words[0])
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("WALKGEN_ENV_FILE", filepath.Join(t.TempDir(), "none.env"))

	var stdout strings.Builder
	err := run(context.Background(), []string{"-epochs", "1"}, &stdout)
	assert.ErrorContains(t, err, "no graph")

	err = run(context.Background(), []string{"-graph", "x.txt", "-store", "s3"}, &stdout)
	assert.ErrorContains(t, err, "bucket")
}
