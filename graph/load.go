package graph

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hupe1980/walkgen/blobstore"
	"github.com/hupe1980/walkgen/internal/compress"
)

// Load reads the named blob from store. A .gz, .zst or .lz4 suffix selects
// a decompressor; a remaining .graphml suffix selects ReadGraphML, anything
// else is read as an edge list.
func Load(ctx context.Context, store blobstore.BlobStore, name string, opts ...ReadOption) (*Graph, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("graph: open %s: %w", name, err)
	}
	defer b.Close()

	raw, err := blobstore.NewReader(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("graph: read %s: %w", name, err)
	}
	defer raw.Close()

	kind, base := compress.Detect(name)
	r, err := compress.NewReader(kind, raw)
	if err != nil {
		return nil, fmt.Errorf("graph: %s decompress %s: %w", kind, name, err)
	}
	defer r.Close()

	var g *Graph
	if strings.EqualFold(filepath.Ext(base), ".graphml") {
		g, err = ReadGraphML(r, opts...)
	} else {
		g, err = ReadEdgeList(r, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("graph: parse %s: %w", name, err)
	}
	return g, nil
}

// LoadFile reads a graph from the local file system. The file is memory-mapped.
func LoadFile(ctx context.Context, path string, opts ...ReadOption) (*Graph, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return Load(ctx, blobstore.NewLocalStore(dir), name, opts...)
}
