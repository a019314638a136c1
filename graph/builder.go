package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/walkgen/internal/conv"
)

type edge struct {
	src, dst int32
	w        float64
}

// Builder accumulates nodes and edges and produces an immutable Graph.
// A Builder is not safe for concurrent use.
type Builder struct {
	directed bool
	weighted bool

	labels []string
	index  map[string]int32
	edges  []edge
	seen   map[uint64]struct{}
}

// NewBuilder returns an empty builder. Undirected builders store every edge in
// both directions; weighted builders keep edge weights, unweighted ones ignore them.
func NewBuilder(directed, weighted bool) *Builder {
	return &Builder{
		directed: directed,
		weighted: weighted,
		index:    make(map[string]int32),
		seen:     make(map[uint64]struct{}),
	}
}

// AddNode registers label and returns its id. Adding an existing label
// returns the id it already has.
func (b *Builder) AddNode(label string) (int32, error) {
	if id, ok := b.index[label]; ok {
		return id, nil
	}
	id, err := conv.IntToInt32(len(b.labels))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTooManyNodes, err)
	}
	b.labels = append(b.labels, label)
	b.index[label] = id
	return id, nil
}

// NodeID returns the id of label, if present.
func (b *Builder) NodeID(label string) (int32, bool) {
	id, ok := b.index[label]
	return id, ok
}

// NodeCount returns the number of registered nodes.
func (b *Builder) NodeCount() int {
	return len(b.labels)
}

// AddEdge adds src->dst (and dst->src for undirected builders). The weight is
// ignored by unweighted builders.
func (b *Builder) AddEdge(src, dst int32, w float64) error {
	n := int32(len(b.labels))
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return fmt.Errorf("%w: edge %d->%d", ErrUnknownNode, src, dst)
	}
	if b.weighted && (w < 0 || math.IsNaN(w) || math.IsInf(w, 0)) {
		return fmt.Errorf("%w: edge %q->%q has weight %v", ErrInvalidWeight, b.labels[src], b.labels[dst], w)
	}

	k0, k1 := src, dst
	if !b.directed && k0 > k1 {
		k0, k1 = k1, k0
	}
	key := uint64(uint32(k0))<<32 | uint64(uint32(k1))
	if _, dup := b.seen[key]; dup {
		return fmt.Errorf("%w: %q -> %q", ErrParallelEdge, b.labels[src], b.labels[dst])
	}
	b.seen[key] = struct{}{}

	if !b.weighted {
		w = 1
	}
	b.edges = append(b.edges, edge{src: src, dst: dst, w: w})
	return nil
}

// AddEdgeByLabel adds both endpoints if needed and then the edge.
func (b *Builder) AddEdgeByLabel(src, dst string, w float64) error {
	s, err := b.AddNode(src)
	if err != nil {
		return err
	}
	d, err := b.AddNode(dst)
	if err != nil {
		return err
	}
	return b.AddEdge(s, d, w)
}

// Build freezes the builder into a Graph. The builder must not be used afterwards.
func (b *Builder) Build() (*Graph, error) {
	n := len(b.labels)

	degree := make([]int, n+1)
	for _, e := range b.edges {
		degree[e.src]++
		if !b.directed && e.src != e.dst {
			degree[e.dst]++
		}
	}

	offsets := make([]int, n+1)
	for u := 0; u < n; u++ {
		offsets[u+1] = offsets[u] + degree[u]
	}

	total := offsets[n]
	neighbors := make([]int32, total)
	var weights []float64
	if b.weighted {
		weights = make([]float64, total)
	}

	fill := make([]int, n)
	copy(fill, offsets[:n])
	put := func(u, v int32, w float64) {
		i := fill[u]
		neighbors[i] = v
		if weights != nil {
			weights[i] = w
		}
		fill[u]++
	}
	for _, e := range b.edges {
		put(e.src, e.dst, e.w)
		if !b.directed && e.src != e.dst {
			put(e.dst, e.src, e.w)
		}
	}

	valid := roaring.New()
	for u := 0; u < n; u++ {
		lo, hi := offsets[u], offsets[u+1]
		if lo == hi {
			continue
		}
		sort.Sort(rowSorter{neighbors: neighbors[lo:hi], weights: sliceOrNil(weights, lo, hi)})

		if weights != nil {
			var sum float64
			for _, w := range weights[lo:hi] {
				sum += w
			}
			if math.IsInf(sum, 0) {
				return nil, fmt.Errorf("%w: node %q", ErrWeightSumOverflow, b.labels[u])
			}
			if sum <= 0 {
				return nil, fmt.Errorf("%w: node %q", ErrZeroWeightSum, b.labels[u])
			}
		}
		valid.Add(uint32(u))
	}

	validNodes := make([]int32, 0, valid.GetCardinality())
	it := valid.Iterator()
	for it.HasNext() {
		validNodes = append(validNodes, int32(it.Next()))
	}

	g := &Graph{
		offsets:    offsets,
		neighbors:  neighbors,
		weights:    weights,
		labels:     b.labels,
		valid:      valid,
		validNodes: validNodes,
		directed:   b.directed,
	}

	b.edges = nil
	b.seen = nil
	return g, nil
}

func sliceOrNil(s []float64, lo, hi int) []float64 {
	if s == nil {
		return nil
	}
	return s[lo:hi]
}

// rowSorter orders one CSR row by neighbor id, carrying weights along.
type rowSorter struct {
	neighbors []int32
	weights   []float64
}

func (r rowSorter) Len() int           { return len(r.neighbors) }
func (r rowSorter) Less(i, j int) bool { return r.neighbors[i] < r.neighbors[j] }
func (r rowSorter) Swap(i, j int) {
	r.neighbors[i], r.neighbors[j] = r.neighbors[j], r.neighbors[i]
	if r.weights != nil {
		r.weights[i], r.weights[j] = r.weights[j], r.weights[i]
	}
}
