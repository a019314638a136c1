package precompute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/walkgen/internal/alias"
	"github.com/hupe1980/walkgen/internal/rng"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoValidNodes is returned when there is no node to start a walk from.
	ErrNoValidNodes = errors.New("precompute: no valid start nodes")
	// ErrInvalidConfig is returned for an unusable Config.
	ErrInvalidConfig = errors.New("precompute: invalid config")
)

// RowFunc fills dst with a walk starting at start.
type RowFunc func(dst []int32, start int32, r alias.Source)

// RefillStats describes one completed refill.
type RefillStats struct {
	Span     int
	Shards   int
	Duration time.Duration
}

// Config configures a Buffer.
type Config struct {
	Capacity     int
	LowWaterMark int
	WalkLength   int
	// Fanout is the maximum number of shards per refill.
	Fanout int
	// MinShardRows is the smallest span worth its own shard.
	MinShardRows int
	// Workers bounds the goroutines running shards.
	Workers int
	// Seed keys the RNG.
	Seed uint64
	// OnRefill, if set, is called after every refill while the owner's lock
	// is held. ctx is the one passed to the Next call that triggered it.
	OnRefill func(context.Context, RefillStats)
}

func (c Config) validate() error {
	switch {
	case c.Capacity < 2:
		return fmt.Errorf("%w: capacity %d < 2", ErrInvalidConfig, c.Capacity)
	case c.LowWaterMark < 0 || c.LowWaterMark >= c.Capacity-1:
		return fmt.Errorf("%w: low water mark %d not in [0, %d)", ErrInvalidConfig, c.LowWaterMark, c.Capacity-1)
	case c.WalkLength < 1:
		return fmt.Errorf("%w: walk length %d < 1", ErrInvalidConfig, c.WalkLength)
	case c.Fanout < 1, c.MinShardRows < 1, c.Workers < 1:
		return fmt.Errorf("%w: fanout, min shard rows and workers must be positive", ErrInvalidConfig)
	}
	return nil
}

// Buffer is the ring of precomputed walk rows.
type Buffer struct {
	cfg   Config
	row   RowFunc
	valid []int32
	src   *rng.Source

	rows []int32 // Capacity * WalkLength, row i at [i*L, (i+1)*L)

	read, write int
	nodeCursor  int
	total       int64
}

// New creates an empty buffer. valid lists the admissible start nodes in the
// round-robin order walks are started from.
func New(cfg Config, row RowFunc, valid []int32) (*Buffer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(valid) == 0 {
		return nil, ErrNoValidNodes
	}

	return &Buffer{
		cfg:   cfg,
		row:   row,
		valid: valid,
		src:   rng.New(cfg.Seed),
		rows:  make([]int32, cfg.Capacity*cfg.WalkLength),
	}, nil
}

// Next returns the next row, refilling first if the slack is at or below the
// low water mark. The returned slice aliases the ring and stays valid until
// the next refill. ctx only reaches OnRefill; a refill is never interrupted.
func (b *Buffer) Next(ctx context.Context) []int32 {
	if b.Slack() <= b.cfg.LowWaterMark {
		b.refill(ctx)
	}

	l := b.cfg.WalkLength
	r := b.rows[b.read*l : (b.read+1)*l : (b.read+1)*l]
	b.read = (b.read + 1) % b.cfg.Capacity
	b.total++
	return r
}

// Slack returns the number of written rows not yet read.
func (b *Buffer) Slack() int {
	c := b.cfg.Capacity
	return (b.write - b.read + c) % c
}

// Total returns the number of rows read so far.
func (b *Buffer) Total() int64 {
	return b.total
}

// Epoch returns the number of complete passes over the valid nodes.
func (b *Buffer) Epoch() int64 {
	return b.total / int64(len(b.valid))
}

// ValidCount returns the number of start nodes.
func (b *Buffer) ValidCount() int {
	return len(b.valid)
}

// Cursors returns the read, write and start-node cursors.
func (b *Buffer) Cursors() (read, write, node int) {
	return b.read, b.write, b.nodeCursor
}

// Substreams returns the number of RNG substreams reserved so far.
func (b *Buffer) Substreams() uint64 {
	return b.src.Reserved()
}

// refillSpan returns the number of slots from write up to, but excluding,
// the slot just behind read.
func refillSpan(read, write, capacity int) int {
	return ((read-1-write)%capacity + capacity) % capacity
}

// shardCount splits span into at most fanout shards of at least minRows rows.
func shardCount(span, fanout, minRows int) int {
	return max(1, min(span/minRows, fanout))
}

type shard struct {
	from, to int // offsets into the span
	stream   *rng.Stream
}

func (b *Buffer) refill(ctx context.Context) {
	start := time.Now()

	c, l, n := b.cfg.Capacity, b.cfg.WalkLength, len(b.valid)
	span := refillSpan(b.read, b.write, c)
	if span <= 0 {
		panic(fmt.Sprintf("precompute: empty refill span (read=%d write=%d capacity=%d)", b.read, b.write, c))
	}

	count := shardCount(span, b.cfg.Fanout, b.cfg.MinShardRows)
	size := (span + count - 1) / count

	shards := make([]shard, 0, count)
	for from := 0; from < span; from += size {
		shards = append(shards, shard{from: from, to: min(from+size, span), stream: b.src.Reserve()})
	}

	write, node := b.write, b.nodeCursor

	var eg errgroup.Group
	eg.SetLimit(b.cfg.Workers)
	for _, s := range shards {
		eg.Go(func() error {
			for i := s.from; i < s.to; i++ {
				slot := (write + i) % c
				b.row(b.rows[slot*l:(slot+1)*l], b.valid[(node+i)%n], s.stream)
			}
			return nil
		})
	}
	// Shards always return nil; a panic in row is fatal and not recovered.
	_ = eg.Wait()

	b.write = (write + span) % c
	b.nodeCursor = (node + span) % n

	if b.cfg.OnRefill != nil {
		b.cfg.OnRefill(ctx, RefillStats{Span: span, Shards: len(shards), Duration: time.Since(start)})
	}
}
