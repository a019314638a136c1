// Package graph provides the immutable graph index random walks run on.
//
// Adjacency is stored in CSR form: an offsets array of length NodeCount()+1 and a
// flat neighbor array (plus a parallel weight array in weighted mode). Node ids
// are dense int32 values indexing into these arrays; the i-th entry of Labels()
// is the external identifier of node i.
//
// The CSR position of an edge is its edge id. EdgeRange(u) returns the half-open
// range of edge ids leaving u, Target(e) the node an edge points to. Neighbors
// of a node are sorted by id, which makes HasEdge a binary search.
//
// Nodes with out-degree > 0 are "valid": they are the only admissible walk
// start points. The valid set is kept as a roaring bitmap and exposed in
// ascending order through ValidNodes.
//
// # Building
//
//	b := graph.NewBuilder(false, false) // undirected, unweighted
//	b.AddEdgeByLabel("a", "b", 1)
//	b.AddEdgeByLabel("b", "c", 1)
//	g, err := b.Build()
//
// # Reading
//
// ReadEdgeList and ReadGraphML parse the two supported text formats. Load picks
// the format from the blob name and transparently decompresses .gz, .zst and
// .lz4 inputs.
package graph
