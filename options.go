package walkgen

import (
	"log/slog"
	"runtime"
)

// Defaults used when the corresponding option is not given.
const (
	DefaultWalkLength   = 40
	DefaultCapacity     = 30000
	DefaultLowWaterMark = 100
	DefaultShardFanout  = 4
	DefaultMinShardSize = 1000
)

type options struct {
	walkLength   int
	node2vec     bool
	p, q         float64
	seed         uint64
	capacity     int
	lowWaterMark int
	shardFanout  int
	minShardSize int
	workers      int
	memoryLimit  int64
	rateLimit    float64

	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Generator.
type Option func(*options)

// WithWalkLength sets the number of nodes per walk. It must be at least 2.
func WithWalkLength(n int) Option {
	return func(o *options) {
		o.walkLength = n
	}
}

// WithNode2Vec selects the second-order biased walk with return parameter p
// and in-out parameter q. Both must be positive.
//
// Low p makes walks backtrack, low q pushes them outward (DFS-like) and high
// q keeps them local (BFS-like). p = q = 1 is equivalent to the first-order
// walk but pays for the transition tables, which take memory proportional to
// the sum of squared degrees.
func WithNode2Vec(p, q float64) Option {
	return func(o *options) {
		o.node2vec = true
		o.p, o.q = p, q
	}
}

// WithSeed sets the RNG seed. Output is reproducible for a fixed seed, shard
// fan-out and minimum shard size.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithCapacity sets the number of precomputed rows held in the ring buffer.
func WithCapacity(rows int) Option {
	return func(o *options) {
		o.capacity = rows
	}
}

// WithLowWaterMark sets the slack at or below which the buffer refills.
func WithLowWaterMark(rows int) Option {
	return func(o *options) {
		o.lowWaterMark = rows
	}
}

// WithShardFanout sets the maximum number of shards per refill.
func WithShardFanout(n int) Option {
	return func(o *options) {
		o.shardFanout = n
	}
}

// WithMinShardSize sets the smallest number of rows worth a separate shard.
// Spans shorter than fanout*size are computed in fewer shards.
func WithMinShardSize(rows int) Option {
	return func(o *options) {
		o.minShardSize = rows
	}
}

// WithWorkers sets the number of goroutines that run refill shards and build
// node2vec tables. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMemoryLimit bounds the bytes the node2vec transition tables may occupy.
// New fails with resource.ErrMemoryLimitExceeded if they would not fit.
// 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithRateLimit paces Run and Stream to at most the given batches per second.
// 0 means unlimited.
func WithRateLimit(batchesPerSecond float64) Option {
	return func(o *options) {
		o.rateLimit = batchesPerSecond
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &walkgen.BasicMetricsCollector{}
//	gen, _ := walkgen.New(ctx, g, walkgen.WithMetricsCollector(metrics))
//	// ... use gen ...
//	stats := metrics.GetStats()
//	fmt.Printf("Batches: %d, refills: %d\n", stats.BatchCount, stats.RefillCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
//	logger := walkgen.NewJSONLogger(slog.LevelInfo)
//	gen, _ := walkgen.New(ctx, g, walkgen.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		walkLength:       DefaultWalkLength,
		p:                1,
		q:                1,
		capacity:         DefaultCapacity,
		lowWaterMark:     DefaultLowWaterMark,
		shardFanout:      DefaultShardFanout,
		minShardSize:     DefaultMinShardSize,
		workers:          runtime.GOMAXPROCS(0),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

func (o options) validate() error {
	if o.walkLength < 2 {
		return &ErrInvalidParameter{Name: "walk length", Value: o.walkLength, cause: ErrInvalidWalkLength}
	}
	if o.capacity < 2 || o.lowWaterMark < 0 || o.lowWaterMark >= o.capacity-1 {
		return &ErrInvalidParameter{Name: "capacity/low water mark", Value: [2]int{o.capacity, o.lowWaterMark}, cause: ErrInvalidCapacity}
	}
	if o.shardFanout < 1 {
		return &ErrInvalidParameter{Name: "shard fanout", Value: o.shardFanout, cause: ErrInvalidShardConfig}
	}
	if o.minShardSize < 1 {
		return &ErrInvalidParameter{Name: "min shard size", Value: o.minShardSize, cause: ErrInvalidShardConfig}
	}
	if o.workers < 1 {
		return &ErrInvalidParameter{Name: "workers", Value: o.workers, cause: ErrInvalidShardConfig}
	}
	return nil
}
