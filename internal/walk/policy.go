package walk

import (
	"errors"
	"fmt"

	"github.com/hupe1980/walkgen/graph"
	"github.com/hupe1980/walkgen/internal/alias"
)

var (
	// ErrInvalidReturnParam is returned when p is not a positive finite number.
	ErrInvalidReturnParam = errors.New("walk: return parameter p must be positive and finite")
	// ErrInvalidInOutParam is returned when q is not a positive finite number.
	ErrInvalidInOutParam = errors.New("walk: in-out parameter q must be positive and finite")
)

// Kind names a policy variant.
type Kind string

const (
	// KindUniform is the first-order (uniform or weighted) walk.
	KindUniform Kind = "uniform"
	// KindNode2Vec is the second-order biased walk.
	KindNode2Vec Kind = "node2vec"
)

// Policy produces walk rows. The set of implementations is closed.
type Policy interface {
	// Row fills dst with a walk of len(dst) nodes starting at start.
	// It panics if the walk reaches a node without out-edges.
	Row(dst []int32, start int32, r alias.Source)
	// Kind reports the variant.
	Kind() Kind

	policy()
}

// nodeTables holds one alias table per node over its out-edge ids, or nil
// for unweighted graphs where a uniform draw is used instead.
type nodeTables struct {
	g      *graph.Graph
	tables []*alias.Table
}

func newNodeTables(g *graph.Graph) (nodeTables, error) {
	nt := nodeTables{g: g}
	if !g.Weighted() {
		return nt, nil
	}

	nt.tables = make([]*alias.Table, g.NodeCount())
	for _, u := range g.ValidNodes() {
		lo, hi := g.EdgeRange(u)
		t, err := alias.Build(g.Weights(u), edgeIDs(lo, hi))
		if err != nil {
			return nodeTables{}, fmt.Errorf("walk: node %q: %w", g.Label(u), err)
		}
		nt.tables[u] = t
	}
	return nt, nil
}

// step returns the id of an out-edge of u.
func (nt nodeTables) step(u int32, r alias.Source) int {
	lo, hi := nt.g.EdgeRange(u)
	if lo == hi {
		deadEnd(nt.g, u)
	}
	if nt.tables == nil {
		return lo + r.IntN(hi-lo)
	}
	return int(nt.tables[u].Sample(r))
}

func (nt nodeTables) sizeBytes() int64 {
	var n int64
	for _, t := range nt.tables {
		if t != nil {
			n += t.SizeBytes()
		}
	}
	return n
}

func edgeIDs(lo, hi int) []int32 {
	ids := make([]int32, hi-lo)
	for i := range ids {
		ids[i] = int32(lo + i)
	}
	return ids
}

func deadEnd(g *graph.Graph, u int32) {
	panic(fmt.Sprintf("walk: reached node %d (%q) with no out-edges", u, g.Label(u)))
}

// Uniform is the first-order walk.
type Uniform struct {
	nt nodeTables
}

// NewUniform builds the policy. Weighted graphs get one alias table per valid node.
func NewUniform(g *graph.Graph) (*Uniform, error) {
	nt, err := newNodeTables(g)
	if err != nil {
		return nil, err
	}
	return &Uniform{nt: nt}, nil
}

// Row implements Policy.
func (u *Uniform) Row(dst []int32, start int32, r alias.Source) {
	if len(dst) == 0 {
		return
	}
	dst[0] = start
	for k := 1; k < len(dst); k++ {
		dst[k] = u.nt.g.Target(u.nt.step(dst[k-1], r))
	}
}

// Kind implements Policy.
func (*Uniform) Kind() Kind { return KindUniform }

// SizeBytes estimates the memory held by the node tables.
func (u *Uniform) SizeBytes() int64 { return u.nt.sizeBytes() }

func (*Uniform) policy() {}
