package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultWeightAttr is the GraphML edge attribute WithWeighted(true) reads.
const DefaultWeightAttr = "weight"

type readOptions struct {
	directed   bool
	weightAttr string // "" reads an unweighted graph
}

func (o readOptions) weighted() bool { return o.weightAttr != "" }

// ReadOption configures the graph readers.
type ReadOption func(*readOptions)

// WithDirected keeps edges one-way. Graphs are undirected by default.
func WithDirected(directed bool) ReadOption {
	return func(o *readOptions) { o.directed = directed }
}

// WithWeighted makes the readers keep edge weights. It is shorthand for
// WithWeightAttr(DefaultWeightAttr) unless an attribute is already set;
// WithWeighted(false) clears it.
func WithWeighted(weighted bool) ReadOption {
	return func(o *readOptions) {
		switch {
		case !weighted:
			o.weightAttr = ""
		case o.weightAttr == "":
			o.weightAttr = DefaultWeightAttr
		}
	}
}

// WithWeightAttr names the GraphML edge attribute holding weights. A
// non-empty name turns weighted mode on for every reader; edge lists then
// expect a third column.
func WithWeightAttr(name string) ReadOption {
	return func(o *readOptions) { o.weightAttr = name }
}

func applyReadOptions(opts []ReadOption) readOptions {
	var o readOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// ReadEdgeList parses one edge per line as "src dst" or, for weighted graphs,
// "src dst weight". Fields are separated by whitespace and lines starting with
// '#' are comments. Every data line must have the column count of the first.
func ReadEdgeList(r io.Reader, opts ...ReadOption) (*Graph, error) {
	o := applyReadOptions(opts)
	b := NewBuilder(o.directed, o.weighted())

	want := 2
	if o.weighted() {
		want = 3
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	line := 0
	columns := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}

		fields := strings.Fields(text)
		if columns == 0 {
			columns = len(fields)
			if columns != want {
				return nil, &ParseError{Line: line, Input: text, cause: fmt.Errorf("expected %d columns for weighted=%t, got %d", want, o.weighted(), columns)}
			}
		}
		if len(fields) != columns {
			return nil, &ParseError{Line: line, Input: text, cause: fmt.Errorf("expected %d columns, got %d", columns, len(fields))}
		}

		w := 1.0
		if o.weighted() {
			v, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, &ParseError{Line: line, Input: text, cause: err}
			}
			w = v
		}

		if err := b.AddEdgeByLabel(fields[0], fields[1], w); err != nil {
			return nil, &ParseError{Line: line, Input: text, cause: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return b.Build()
}
