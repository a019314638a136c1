package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrParallelEdge is returned when the same edge is added twice.
	ErrParallelEdge = errors.New("graph: parallel edge")
	// ErrInvalidWeight is returned for a negative, NaN or infinite edge weight.
	ErrInvalidWeight = errors.New("graph: edge weight must be finite and non-negative")
	// ErrZeroWeightSum is returned when a node with out-edges has a total outgoing weight of zero.
	ErrZeroWeightSum = errors.New("graph: outgoing weights of a node sum to zero")
	// ErrWeightSumOverflow is returned when the outgoing weights of a node sum to infinity.
	ErrWeightSumOverflow = errors.New("graph: outgoing weights of a node overflow float64")
	// ErrUnknownNode is returned for an edge endpoint that was never added.
	ErrUnknownNode = errors.New("graph: unknown node")
	// ErrTooManyNodes is returned when node ids would overflow int32.
	ErrTooManyNodes = errors.New("graph: too many nodes")
	// ErrMissingWeight is returned by readers when a weighted graph lacks a weight value.
	ErrMissingWeight = errors.New("graph: missing edge weight")
)

// ParseError reports a malformed input line or element.
type ParseError struct {
	Line  int
	Input string
	cause error
}

func (e *ParseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("graph: line %d %q: %v", e.Line, e.Input, e.cause)
	}
	return fmt.Sprintf("graph: line %d %q: unexpected format", e.Line, e.Input)
}

func (e *ParseError) Unwrap() error { return e.cause }
