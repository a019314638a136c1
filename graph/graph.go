package graph

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Graph is an immutable CSR adjacency index. All methods are safe for
// concurrent use.
type Graph struct {
	offsets   []int
	neighbors []int32
	weights   []float64 // nil when unweighted
	labels    []string

	valid      *roaring.Bitmap
	validNodes []int32

	directed bool
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.labels)
}

// EdgeCount returns the number of stored directed edges. An undirected edge
// between distinct nodes counts twice.
func (g *Graph) EdgeCount() int {
	return len(g.neighbors)
}

// Directed reports whether edges were kept one-way.
func (g *Graph) Directed() bool {
	return g.directed
}

// Weighted reports whether edges carry weights.
func (g *Graph) Weighted() bool {
	return g.weights != nil
}

// Degree returns the out-degree of u.
func (g *Graph) Degree(u int32) int {
	return g.offsets[u+1] - g.offsets[u]
}

// EdgeRange returns the half-open range of edge ids leaving u.
func (g *Graph) EdgeRange(u int32) (lo, hi int) {
	return g.offsets[u], g.offsets[u+1]
}

// Target returns the node edge e points to.
func (g *Graph) Target(e int) int32 {
	return g.neighbors[e]
}

// Weight returns the weight of edge e, or 1 for unweighted graphs.
func (g *Graph) Weight(e int) float64 {
	if g.weights == nil {
		return 1
	}
	return g.weights[e]
}

// Neighbors returns the sorted out-neighbors of u. The slice must not be modified.
func (g *Graph) Neighbors(u int32) []int32 {
	return g.neighbors[g.offsets[u]:g.offsets[u+1]]
}

// Weights returns the weights parallel to Neighbors(u), or nil if unweighted.
// The slice must not be modified.
func (g *Graph) Weights(u int32) []float64 {
	if g.weights == nil {
		return nil
	}
	return g.weights[g.offsets[u]:g.offsets[u+1]]
}

// EdgeID returns the edge id of u->v, or -1 if there is no such edge.
func (g *Graph) EdgeID(u, v int32) int {
	lo := g.offsets[u]
	i, ok := slices.BinarySearch(g.neighbors[lo:g.offsets[u+1]], v)
	if !ok {
		return -1
	}
	return lo + i
}

// HasEdge reports whether u->v exists.
func (g *Graph) HasEdge(u, v int32) bool {
	return g.EdgeID(u, v) >= 0
}

// EdgeWeight returns the weight of u->v and whether the edge exists.
func (g *Graph) EdgeWeight(u, v int32) (float64, bool) {
	e := g.EdgeID(u, v)
	if e < 0 {
		return 0, false
	}
	return g.Weight(e), true
}

// Label returns the external identifier of u.
func (g *Graph) Label(u int32) string {
	return g.labels[u]
}

// Labels returns the label table indexed by node id. The slice must not be modified.
func (g *Graph) Labels() []string {
	return g.labels
}

// ValidNodes returns the nodes with out-degree > 0 in ascending order.
// The slice must not be modified.
func (g *Graph) ValidNodes() []int32 {
	return g.validNodes
}

// ValidCount returns the number of valid nodes.
func (g *Graph) ValidCount() int {
	return len(g.validNodes)
}

// IsValid reports whether u may start a walk.
func (g *Graph) IsValid(u int32) bool {
	return u >= 0 && g.valid.Contains(uint32(u))
}
