package walkgen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/walkgen/graph"
	"github.com/hupe1980/walkgen/internal/precompute"
	"github.com/hupe1980/walkgen/internal/resource"
	"github.com/hupe1980/walkgen/internal/walk"
)

// Batch is one NextBatch result.
type Batch struct {
	// Rows holds one walk of WalkLength node ids per row. All rows share one
	// backing array owned by the batch.
	Rows [][]int32
	// Labels maps node ids to their external identifiers. It is shared
	// between batches and must not be modified.
	Labels []string
	// Epoch is the number of complete passes over the valid nodes after this batch.
	Epoch int64
	// Total is the number of walks generated so far, this batch included.
	Total int64
	// ValidNodes is the number of admissible start nodes.
	ValidNodes int
}

// Len returns the number of rows.
func (b Batch) Len() int {
	return len(b.Rows)
}

// Words returns row i mapped to labels.
func (b Batch) Words(i int) []string {
	words := make([]string, len(b.Rows[i]))
	for k, id := range b.Rows[i] {
		words[k] = b.Labels[id]
	}
	return words
}

// Stats is a point-in-time view of generator progress.
type Stats struct {
	Epoch      int64
	Total      int64
	Slack      int
	ValidNodes int
	Substreams uint64
	TableBytes int64
}

// Generator serves batches of random walks.
type Generator struct {
	mu sync.Mutex

	g      *graph.Graph
	policy walk.Policy
	buf    *precompute.Buffer
	ctl    *resource.Controller
	opts   options

	tableBytes int64
	lastEpoch  int64
	closed     bool
}

// New builds a generator over g. The graph must not be mutated afterwards.
// Node2vec transition tables are built here, in parallel, and count against
// WithMemoryLimit.
func New(ctx context.Context, g *graph.Graph, optFns ...Option) (*Generator, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if g.ValidCount() == 0 {
		return nil, ErrNoValidNodes
	}

	gen := &Generator{
		g:    g,
		opts: opts,
		ctl: resource.NewController(resource.Config{
			MemoryLimitBytes: opts.memoryLimit,
			Workers:          opts.workers,
			BatchesPerSecond: opts.rateLimit,
		}),
	}

	if opts.node2vec {
		n2v, err := walk.NewNode2Vec(ctx, g, opts.p, opts.q, gen.ctl)
		if err != nil {
			return nil, err
		}
		gen.policy = n2v
		gen.tableBytes = n2v.Edges().SizeBytes()
	} else {
		u, err := walk.NewUniform(g)
		if err != nil {
			return nil, err
		}
		gen.policy = u
	}

	buf, err := precompute.New(precompute.Config{
		Capacity:     opts.capacity,
		LowWaterMark: opts.lowWaterMark,
		WalkLength:   opts.walkLength,
		Fanout:       opts.shardFanout,
		MinShardRows: opts.minShardSize,
		Workers:      gen.ctl.Workers(),
		Seed:         opts.seed,
		OnRefill:     gen.onRefill,
	}, gen.policy.Row, g.ValidNodes())
	if err != nil {
		gen.ctl.ReleaseMemory(gen.tableBytes)
		return nil, fmt.Errorf("walkgen: %w", err)
	}
	gen.buf = buf

	gen.opts.logger = opts.logger.WithPolicy(string(gen.policy.Kind()))
	gen.opts.logger.LogGraphLoaded(ctx, g.NodeCount(), g.EdgeCount(), g.ValidCount(), g.Weighted(), g.Directed())

	return gen, nil
}

// onRefill runs with mu held.
func (gen *Generator) onRefill(ctx context.Context, s precompute.RefillStats) {
	gen.opts.logger.LogRefill(ctx, s.Span, s.Shards, s.Duration)
	gen.opts.metricsCollector.RecordRefill(s.Span, s.Shards, s.Duration)
}

// NextBatch returns the next size walks. Concurrent calls are serialized.
func (gen *Generator) NextBatch(ctx context.Context, size int) (Batch, error) {
	start := time.Now()

	b, err := gen.nextBatch(ctx, size)

	gen.opts.metricsCollector.RecordBatch(size, time.Since(start), err)
	gen.opts.logger.LogBatch(ctx, size, b.Epoch, b.Total, err)
	return b, err
}

func (gen *Generator) nextBatch(ctx context.Context, size int) (Batch, error) {
	if size <= 0 {
		return Batch{}, &ErrInvalidParameter{Name: "batch size", Value: size, cause: ErrInvalidBatchSize}
	}

	l := gen.opts.walkLength
	flat := make([]int32, size*l)
	rows := make([][]int32, size)

	gen.mu.Lock()
	if gen.closed {
		gen.mu.Unlock()
		return Batch{}, ErrClosed
	}

	for i := range rows {
		rows[i] = flat[i*l : (i+1)*l : (i+1)*l]
		copy(rows[i], gen.buf.Next(ctx))
	}
	epoch, total := gen.buf.Epoch(), gen.buf.Total()

	advanced := epoch > gen.lastEpoch
	gen.lastEpoch = epoch
	gen.mu.Unlock()

	if advanced {
		gen.opts.logger.LogEpoch(ctx, epoch, total)
		gen.opts.metricsCollector.RecordEpoch(epoch)
	}

	return Batch{
		Rows:       rows,
		Labels:     gen.g.Labels(),
		Epoch:      epoch,
		Total:      total,
		ValidNodes: gen.buf.ValidCount(),
	}, nil
}

// Run calls NextBatch and hands every batch to fn until the epoch counter
// reaches epochs, fn fails or ctx is done. Cancellation is checked between
// batches. Batches are paced by WithRateLimit.
func (gen *Generator) Run(ctx context.Context, epochs int64, batchSize int, fn func(context.Context, Batch) error) error {
	for gen.Stats().Epoch < epochs {
		if err := gen.ctl.WaitEmit(ctx); err != nil {
			return err
		}

		b, err := gen.NextBatch(ctx, batchSize)
		if err != nil {
			return err
		}
		if err := fn(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// Stream produces batches on the returned channel until ctx is done or the
// generator is closed. The channel is closed when production stops; the
// returned function then reports why (nil after Close).
func (gen *Generator) Stream(ctx context.Context, batchSize int) (<-chan Batch, func() error) {
	out := make(chan Batch)
	done := make(chan struct{})

	var err error
	go func() {
		defer close(done)
		defer close(out)

		for {
			if err = gen.ctl.WaitEmit(ctx); err != nil {
				return
			}
			b, nerr := gen.NextBatch(ctx, batchSize)
			if nerr != nil {
				if !errors.Is(nerr, ErrClosed) {
					err = nerr
				}
				return
			}
			select {
			case out <- b:
			case <-ctx.Done():
				err = ctx.Err()
				return
			}
		}
	}()

	return out, func() error {
		<-done
		return err
	}
}

// Close releases the transition table budget. Subsequent NextBatch calls
// fail with ErrClosed. Close is idempotent.
func (gen *Generator) Close() error {
	gen.mu.Lock()
	defer gen.mu.Unlock()

	if gen.closed {
		return nil
	}
	gen.closed = true
	gen.ctl.ReleaseMemory(gen.tableBytes)
	return nil
}

// Stats returns progress without consuming rows.
func (gen *Generator) Stats() Stats {
	gen.mu.Lock()
	defer gen.mu.Unlock()

	return Stats{
		Epoch:      gen.buf.Epoch(),
		Total:      gen.buf.Total(),
		Slack:      gen.buf.Slack(),
		ValidNodes: gen.buf.ValidCount(),
		Substreams: gen.buf.Substreams(),
		TableBytes: gen.tableBytes,
	}
}

// Graph returns the graph walks run on.
func (gen *Generator) Graph() *graph.Graph { return gen.g }

// Labels returns the node label table indexed by node id.
func (gen *Generator) Labels() []string { return gen.g.Labels() }

// ValidNodeCount returns the number of admissible start nodes.
func (gen *Generator) ValidNodeCount() int { return gen.g.ValidCount() }

// WalkLength returns the number of nodes per walk.
func (gen *Generator) WalkLength() int { return gen.opts.walkLength }

// Policy returns the name of the walk policy ("uniform" or "node2vec").
func (gen *Generator) Policy() string { return string(gen.policy.Kind()) }
