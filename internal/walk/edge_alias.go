package walk

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/hupe1980/walkgen/graph"
	"github.com/hupe1980/walkgen/internal/alias"
	"github.com/hupe1980/walkgen/internal/resource"
	"golang.org/x/sync/errgroup"
)

// prevChunk is the number of previous nodes one build task handles.
const prevChunk = 256

// EdgeAliasMap holds the node2vec transition table for every directed
// 2-hop (prev -> cur -> x). Tables are indexed by the CSR id of the edge
// prev->cur and their items are the edge ids cur->x, so a walk moves from
// one table to the next without any lookup.
type EdgeAliasMap struct {
	g      *graph.Graph
	tables []*alias.Table
	bytes  int64
}

// BuildEdgeAliasMap builds all tables in parallel. The estimated footprint is
// reserved on ctl up front and the build fails with
// resource.ErrMemoryLimitExceeded if it does not fit.
func BuildEdgeAliasMap(ctx context.Context, g *graph.Graph, p, q float64, ctl *resource.Controller) (*EdgeAliasMap, error) {
	m := &EdgeAliasMap{
		g:      g,
		tables: make([]*alias.Table, g.EdgeCount()),
	}

	for e := 0; e < g.EdgeCount(); e++ {
		if d := g.Degree(g.Target(e)); d > 0 {
			m.bytes += alias.EstimateBytes(d)
		}
	}
	if !ctl.TryAcquireMemory(m.bytes) {
		return nil, fmt.Errorf("%w: node2vec tables need %d bytes, limit %d",
			resource.ErrMemoryLimitExceeded, m.bytes, ctl.MemoryLimit())
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(ctl.Workers())

	n := int32(g.NodeCount())
	for lo := int32(0); lo < n; lo += prevChunk {
		hi := min(lo+prevChunk, n)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for prev := lo; prev < hi; prev++ {
				if err := m.buildFrom(prev, 1/p, 1/q); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		ctl.ReleaseMemory(m.bytes)
		return nil, err
	}
	return m, nil
}

// buildFrom builds the tables of every edge leaving prev.
func (m *EdgeAliasMap) buildFrom(prev int32, invP, invQ float64) error {
	g := m.g
	lo, hi := g.EdgeRange(prev)
	if lo == hi {
		return nil
	}

	near := mapset.NewThreadUnsafeSet(g.Neighbors(prev)...)

	var weights []float64
	for e := lo; e < hi; e++ {
		cur := g.Target(e)
		clo, chi := g.EdgeRange(cur)
		if clo == chi {
			continue
		}

		weights = weights[:0]
		for x := clo; x < chi; x++ {
			w := g.Weight(x)
			switch t := g.Target(x); {
			case t == prev:
				w *= invP
			case !near.Contains(t):
				w *= invQ
			}
			weights = append(weights, w)
		}

		t, err := alias.Build(weights, edgeIDs(clo, chi))
		if err != nil {
			return fmt.Errorf("walk: transition %q -> %q: %w", g.Label(prev), g.Label(cur), err)
		}
		m.tables[e] = t
	}
	return nil
}

// Lookup returns the table for a walk at cur that arrived from prev, or nil
// if prev->cur is not an edge or cur has no out-edges.
func (m *EdgeAliasMap) Lookup(cur, prev int32) *alias.Table {
	e := m.g.EdgeID(prev, cur)
	if e < 0 {
		return nil
	}
	return m.tables[e]
}

// Next samples the edge taken after traversing edge e.
func (m *EdgeAliasMap) Next(e int, r alias.Source) int {
	t := m.tables[e]
	if t == nil {
		deadEnd(m.g, m.g.Target(e))
	}
	return int(t.Sample(r))
}

// Len returns the number of non-empty tables.
func (m *EdgeAliasMap) Len() int {
	n := 0
	for _, t := range m.tables {
		if t != nil {
			n++
		}
	}
	return n
}

// SizeBytes returns the reserved footprint of the tables.
func (m *EdgeAliasMap) SizeBytes() int64 {
	return m.bytes
}
