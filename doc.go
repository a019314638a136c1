// Package walkgen generates batches of random walks over a graph, as a
// continuous data source for embedding training.
//
// # Quick Start
//
//	ctx := context.Background()
//	g, _ := graph.LoadFile(ctx, "karate.txt")
//	gen, _ := walkgen.New(ctx, g, walkgen.WithWalkLength(40))
//	defer gen.Close()
//
//	batch, _ := gen.NextBatch(ctx, 128)
//	for _, row := range batch.Rows {
//	    fmt.Println(row) // node ids; batch.Labels maps them back
//	}
//
// # Walk Policies
//
// The default policy is a first-order walk: uniform over neighbors on
// unweighted graphs, proportional to edge weight on weighted ones. With
// WithNode2Vec(p, q) the walk is second-order: the next step depends on
// the previous node, biased by return parameter p and in-out parameter q.
//
//	gen, _ := walkgen.New(ctx, g, walkgen.WithNode2Vec(0.5, 2))
//
// # Precomputation
//
// Walks are served from a ring buffer of precomputed rows. When the unread
// rows drop to the low water mark, the buffer is refilled by up to
// WithShardFanout shards in parallel. Every walk start node comes from a
// round-robin pass over the nodes with out-edges, so after E epochs each of
// them has started E or E+1 walks.
//
// # Epochs
//
// Run drives NextBatch until a number of epochs is reached:
//
//	err := gen.Run(ctx, 5, 128, func(ctx context.Context, b walkgen.Batch) error {
//	    return sink.Write(ctx, b)
//	})
//
// # Concurrency
//
// A Generator is safe for concurrent use. NextBatch calls are serialized;
// rows of two batches never interleave.
package walkgen
