package walk

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/walkgen/graph"
	"github.com/hupe1980/walkgen/internal/alias"
	"github.com/hupe1980/walkgen/internal/resource"
)

// Node2Vec is the second-order walk with return parameter p and in-out parameter q.
type Node2Vec struct {
	p, q  float64
	first nodeTables
	edges *EdgeAliasMap
}

// NewNode2Vec validates p and q and eagerly builds the transition tables.
// ctl bounds build parallelism and the memory the tables may occupy; it may be nil.
func NewNode2Vec(ctx context.Context, g *graph.Graph, p, q float64, ctl *resource.Controller) (*Node2Vec, error) {
	if !(p > 0) || math.IsInf(p, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidReturnParam, p)
	}
	if !(q > 0) || math.IsInf(q, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidInOutParam, q)
	}

	first, err := newNodeTables(g)
	if err != nil {
		return nil, err
	}

	edges, err := BuildEdgeAliasMap(ctx, g, p, q, ctl)
	if err != nil {
		return nil, err
	}

	return &Node2Vec{p: p, q: q, first: first, edges: edges}, nil
}

// Row implements Policy.
func (n *Node2Vec) Row(dst []int32, start int32, r alias.Source) {
	if len(dst) == 0 {
		return
	}
	dst[0] = start
	if len(dst) == 1 {
		return
	}

	g := n.first.g
	e := n.first.step(start, r)
	dst[1] = g.Target(e)
	for k := 2; k < len(dst); k++ {
		e = n.edges.Next(e, r)
		dst[k] = g.Target(e)
	}
}

// Kind implements Policy.
func (*Node2Vec) Kind() Kind { return KindNode2Vec }

// P returns the return parameter.
func (n *Node2Vec) P() float64 { return n.p }

// Q returns the in-out parameter.
func (n *Node2Vec) Q() float64 { return n.q }

// Edges returns the transition tables.
func (n *Node2Vec) Edges() *EdgeAliasMap { return n.edges }

// SizeBytes estimates the memory held by all tables.
func (n *Node2Vec) SizeBytes() int64 { return n.first.sizeBytes() + n.edges.SizeBytes() }

func (*Node2Vec) policy() {}
