package testutil

import (
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
	"testing"

	"github.com/hupe1980/walkgen/graph"
	"github.com/stretchr/testify/require"
)

// RNG is a seeded, goroutine-safe random source. It satisfies alias.Source.
type RNG struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed uint64
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed: seed}
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a uniform int in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Float64 returns a uniform float64 in [0,1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Weights returns n random weights in (0.1, 10].
func (r *RNG) Weights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 10 - 9.9*r.Float64()
	}
	return w
}

func label(i int) string { return strconv.Itoa(i) }

func build(t testing.TB, directed, weighted bool, n int, edges [][3]float64) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(directed, weighted)
	for i := 0; i < n; i++ {
		_, err := b.AddNode(label(i))
		require.NoError(t, err)
	}
	for _, e := range edges {
		require.NoError(t, b.AddEdge(int32(e[0]), int32(e[1]), e[2]))
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

// Cycle returns the undirected cycle 0-1-...-(n-1)-0.
func Cycle(t testing.TB, n int) *graph.Graph {
	edges := make([][3]float64, n)
	for i := range edges {
		edges[i] = [3]float64{float64(i), float64((i + 1) % n), 1}
	}
	return build(t, false, false, n, edges)
}

// Path returns the undirected path 0-1-...-(n-1).
func Path(t testing.TB, n int) *graph.Graph {
	edges := make([][3]float64, 0, n-1)
	for i := 0; i+1 < n; i++ {
		edges = append(edges, [3]float64{float64(i), float64(i + 1), 1})
	}
	return build(t, false, false, n, edges)
}

// Star returns an undirected star with hub 0 and leaves 1..leaves.
func Star(t testing.TB, leaves int) *graph.Graph {
	edges := make([][3]float64, leaves)
	for i := range edges {
		edges[i] = [3]float64{0, float64(i + 1), 1}
	}
	return build(t, false, false, leaves+1, edges)
}

// Complete returns the undirected complete graph on n nodes.
func Complete(t testing.TB, n int) *graph.Graph {
	var edges [][3]float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, [3]float64{float64(i), float64(j), 1})
		}
	}
	return build(t, false, false, n, edges)
}

// WeightedTriangle returns the undirected triangle 0-1 (w=1), 1-2 (w=2), 0-2 (w=3).
func WeightedTriangle(t testing.TB) *graph.Graph {
	return build(t, false, true, 3, [][3]float64{{0, 1, 1}, {1, 2, 2}, {0, 2, 3}})
}

// DirectedChain returns 0->1->...->(n-1); the last node has no out-edges.
func DirectedChain(t testing.TB, n int) *graph.Graph {
	edges := make([][3]float64, 0, n-1)
	for i := 0; i+1 < n; i++ {
		edges = append(edges, [3]float64{float64(i), float64(i + 1), 1})
	}
	return build(t, true, false, n, edges)
}

// Clustered returns `clusters` complete subgraphs of `size` nodes joined in a
// ring by one bridge edge each, plus one isolated node at the highest id.
func Clustered(t testing.TB, clusters, size int) *graph.Graph {
	var edges [][3]float64
	for c := 0; c < clusters; c++ {
		base := c * size
		for i := 0; i < size; i++ {
			for j := i + 1; j < size; j++ {
				edges = append(edges, [3]float64{float64(base + i), float64(base + j), 1})
			}
		}
		next := ((c + 1) % clusters) * size
		if clusters > 1 && (clusters > 2 || c == 0) {
			edges = append(edges, [3]float64{float64(base + size - 1), float64(next), 1})
		}
	}
	return build(t, false, false, clusters*size+1, edges)
}

// ChiSquare returns Pearson's statistic for observed counts against the
// expected probabilities. Cells with zero expectation are skipped.
func ChiSquare(observed []int, probs []float64) float64 {
	total := 0
	for _, c := range observed {
		total += c
	}
	var stat float64
	for i, c := range observed {
		exp := probs[i] * float64(total)
		if exp == 0 {
			continue
		}
		d := float64(c) - exp
		stat += d * d / exp
	}
	return stat
}

// ChiSquareCritical approximates the 0.999 quantile of the chi-square
// distribution with df degrees of freedom (Wilson-Hilferty).
func ChiSquareCritical(df int) float64 {
	const z = 3.0902
	k := float64(df)
	c := 2 / (9 * k)
	return k * math.Pow(1-c+z*math.Sqrt(c), 3)
}
