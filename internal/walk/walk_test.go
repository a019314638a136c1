package walk

import (
	"context"
	"math"
	"testing"

	"github.com/hupe1980/walkgen/graph"
	"github.com/hupe1980/walkgen/internal/resource"
	"github.com/hupe1980/walkgen/internal/rng"
	"github.com/hupe1980/walkgen/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertWalk(t *testing.T, g *graph.Graph, row []int32) {
	t.Helper()
	for k := 1; k < len(row); k++ {
		assert.True(t, g.HasEdge(row[k-1], row[k]), "step %d: %d -> %d", k, row[k-1], row[k])
	}
}

func TestUniform_Row(t *testing.T) {
	g := testutil.Cycle(t, 4)
	u, err := NewUniform(g)
	require.NoError(t, err)
	assert.Equal(t, KindUniform, u.Kind())
	assert.Zero(t, u.SizeBytes())

	src := rng.New(1).Reserve()
	row := make([]int32, 3)
	for i := 0; i < 1000; i++ {
		start := int32(i % 4)
		u.Row(row, start, src)
		assert.Equal(t, start, row[0])
		assertWalk(t, g, row)
	}
}

func TestUniform_WeightedDistribution(t *testing.T) {
	g := testutil.WeightedTriangle(t)
	u, err := NewUniform(g)
	require.NoError(t, err)
	assert.Positive(t, u.SizeBytes())

	src := rng.New(2).Reserve()
	row := make([]int32, 2)
	counts := make([]int, 2)
	for i := 0; i < 100_000; i++ {
		u.Row(row, 0, src)
		counts[row[1]-1]++
	}

	// node 0: edge to 1 has weight 1, edge to 2 weight 3
	stat := testutil.ChiSquare(counts, []float64{0.25, 0.75})
	assert.Less(t, stat, testutil.ChiSquareCritical(1))
}

func TestUniform_DeadEndPanics(t *testing.T) {
	g := testutil.DirectedChain(t, 3)
	u, err := NewUniform(g)
	require.NoError(t, err)

	row := make([]int32, 4)
	assert.PanicsWithValue(t, `walk: reached node 2 ("2") with no out-edges`, func() {
		u.Row(row, 0, rng.New(0).Reserve())
	})
}

func TestNode2Vec_Params(t *testing.T) {
	g := testutil.Cycle(t, 4)
	ctx := context.Background()

	for _, p := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewNode2Vec(ctx, g, p, 1, nil)
		assert.ErrorIs(t, err, ErrInvalidReturnParam)
		_, err = NewNode2Vec(ctx, g, 1, p, nil)
		assert.ErrorIs(t, err, ErrInvalidInOutParam)
	}

	n, err := NewNode2Vec(ctx, g, 0.5, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, KindNode2Vec, n.Kind())
	assert.Equal(t, 0.5, n.P())
	assert.Equal(t, 2.0, n.Q())
	assert.Equal(t, 8, n.Edges().Len())
	assert.Positive(t, n.SizeBytes())
}

func TestNode2Vec_Bias(t *testing.T) {
	// 0-1, 1-2, 1-3, 0-3
	b := graph.NewBuilder(false, false)
	for _, e := range [][2]string{{"0", "1"}, {"1", "2"}, {"1", "3"}, {"0", "3"}} {
		require.NoError(t, b.AddEdgeByLabel(e[0], e[1], 1))
	}
	g, err := b.Build()
	require.NoError(t, err)

	n, err := NewNode2Vec(context.Background(), g, 2, 0.5, nil)
	require.NoError(t, err)

	// at 1 coming from 0: x=0 returns (1/p), x=2 moves away (1/q), x=3 stays close (1)
	tbl := n.Edges().Lookup(1, 0)
	require.NotNil(t, tbl)
	require.Equal(t, 3, tbl.Len())

	want := []float64{0.5 / 3.5, 2 / 3.5, 1 / 3.5}
	for i, w := range want {
		assert.Equal(t, g.Neighbors(1)[i], g.Target(int(tbl.Item(i))))
		assert.InDelta(t, w, tbl.Probability(i), 1e-9)
	}

	assert.Nil(t, n.Edges().Lookup(2, 0))
}

func TestNode2Vec_WeightedBias(t *testing.T) {
	g := testutil.WeightedTriangle(t)
	n, err := NewNode2Vec(context.Background(), g, 4, 1, nil)
	require.NoError(t, err)

	// at 1 coming from 0: back to 0 is 1 * 1/p, on to 2 keeps w=2 since 2 is adjacent to 0
	tbl := n.Edges().Lookup(1, 0)
	require.NotNil(t, tbl)
	assert.InDelta(t, 0.25/2.25, tbl.Probability(0), 1e-9)
	assert.InDelta(t, 2/2.25, tbl.Probability(1), 1e-9)
}

func TestNode2Vec_DegeneratesToUniform(t *testing.T) {
	g := testutil.Clustered(t, 3, 5)
	ctx := context.Background()

	n2v, err := NewNode2Vec(ctx, g, 1, 1, nil)
	require.NoError(t, err)
	uni, err := NewUniform(g)
	require.NoError(t, err)

	// distribution of row[2] given row[0]=0 for both policies
	const draws = 100_000
	count := func(p Policy, seed uint64) []int {
		src := rng.New(seed).Reserve()
		row := make([]int32, 3)
		c := make([]int, g.NodeCount())
		for i := 0; i < draws; i++ {
			p.Row(row, 0, src)
			c[row[2]]++
		}
		return c
	}

	cu := count(uni, 11)
	cn := count(n2v, 12)

	probs := make([]float64, len(cu))
	for i, v := range cu {
		probs[i] = float64(v) / draws
	}
	df := 0
	for _, v := range cu {
		if v > 0 {
			df++
		}
	}
	// a two-sample comparison would double the variance; test against a loose bound
	stat := testutil.ChiSquare(cn, probs)
	assert.Less(t, stat, 2*testutil.ChiSquareCritical(df-1))

	for i := range cu {
		if cu[i] == 0 {
			assert.Zero(t, cn[i], "node %d", i)
		}
	}
}

func TestNode2Vec_Row(t *testing.T) {
	g := testutil.Clustered(t, 4, 6)
	n, err := NewNode2Vec(context.Background(), g, 0.25, 4, nil)
	require.NoError(t, err)

	src := rng.New(3).Reserve()
	row := make([]int32, 20)
	for _, start := range g.ValidNodes() {
		n.Row(row, start, src)
		assert.Equal(t, start, row[0])
		assertWalk(t, g, row)
	}

	one := make([]int32, 1)
	n.Row(one, 5, src)
	assert.Equal(t, int32(5), one[0])
}

func TestNode2Vec_Deterministic(t *testing.T) {
	g := testutil.Complete(t, 6)
	n, err := NewNode2Vec(context.Background(), g, 2, 0.5, nil)
	require.NoError(t, err)

	a, b := make([]int32, 30), make([]int32, 30)
	n.Row(a, 0, rng.New(99).Reserve())
	n.Row(b, 0, rng.New(99).Reserve())
	assert.Equal(t, a, b)
}

func TestNode2Vec_DirectedDeadEnd(t *testing.T) {
	g := testutil.DirectedChain(t, 3)
	n, err := NewNode2Vec(context.Background(), g, 1, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n.Edges().Len())

	row := make([]int32, 3)
	n.Row(row, 0, rng.New(0).Reserve())
	assert.Equal(t, []int32{0, 1, 2}, row)

	assert.Panics(t, func() { n.Row(make([]int32, 4), 0, rng.New(0).Reserve()) })
}

func TestNode2Vec_MemoryLimit(t *testing.T) {
	g := testutil.Complete(t, 10)
	ctx := context.Background()

	ctl := resource.NewController(resource.Config{MemoryLimitBytes: 1024, Workers: 2})
	_, err := NewNode2Vec(ctx, g, 1, 1, ctl)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Zero(t, ctl.MemoryUsage())

	ctl = resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20, Workers: 2})
	n, err := NewNode2Vec(ctx, g, 1, 1, ctl)
	require.NoError(t, err)
	assert.Equal(t, n.Edges().SizeBytes(), ctl.MemoryUsage())
}

func TestNode2Vec_Cancelled(t *testing.T) {
	g := testutil.Complete(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctl := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	_, err := NewNode2Vec(ctx, g, 1, 1, ctl)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ctl.MemoryUsage())
}
