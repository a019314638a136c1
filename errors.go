package walkgen

import (
	"errors"
	"fmt"

	"github.com/hupe1980/walkgen/internal/precompute"
	"github.com/hupe1980/walkgen/internal/walk"
)

var (
	// ErrInvalidWalkLength is returned when the walk length is below 2.
	ErrInvalidWalkLength = errors.New("walk length must be at least 2")
	// ErrInvalidReturnParam is returned when the node2vec p is not positive.
	ErrInvalidReturnParam = walk.ErrInvalidReturnParam
	// ErrInvalidInOutParam is returned when the node2vec q is not positive.
	ErrInvalidInOutParam = walk.ErrInvalidInOutParam
	// ErrInvalidBatchSize is returned when a batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")
	// ErrNoValidNodes is returned for graphs without a node that has out-edges.
	ErrNoValidNodes = precompute.ErrNoValidNodes
	// ErrInvalidCapacity is returned for an unusable ring capacity or low water mark.
	ErrInvalidCapacity = errors.New("capacity must be at least 2 and exceed the low water mark by more than 1")
	// ErrInvalidShardConfig is returned for a non-positive shard fan-out, minimum shard size or worker count.
	ErrInvalidShardConfig = errors.New("shard fanout, min shard size and workers must be positive")
	// ErrClosed is returned by a generator after Close.
	ErrClosed = errors.New("generator is closed")
	// ErrNilGraph is returned when New is called without a graph.
	ErrNilGraph = errors.New("graph must not be nil")
)

// ErrInvalidParameter reports a rejected option value.
//
// The matching sentinel (e.g. ErrInvalidWalkLength) is reachable via errors.Is.
type ErrInvalidParameter struct {
	Name  string
	Value any
	cause error
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Name, e.Value, e.cause)
}

func (e *ErrInvalidParameter) Unwrap() error { return e.cause }
