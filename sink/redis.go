package sink

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/walkgen"
	"github.com/hupe1980/walkgen/codec"
)

// StreamClient is the subset of the go-redis client used by RedisSink.
type StreamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Compile-time check.
var _ StreamClient = (*redis.Client)(nil)

// RedisOptions configures a RedisSink.
type RedisOptions struct {
	// MaxLen caps the stream length with approximate trimming (MAXLEN ~).
	// 0 disables trimming.
	MaxLen int64
	// AsWords sends node labels instead of node ids.
	AsWords bool
	// Codec encodes the rows field. Defaults to codec.Default.
	Codec codec.Codec
}

// RedisSink appends one stream entry per batch. Entries carry the fields
// epoch, total and rows, where rows is the codec-encoded list of walks.
type RedisSink struct {
	mu     sync.Mutex
	client StreamClient
	stream string
	opts   RedisOptions
	closed bool
}

// NewRedisSink creates a sink appending to stream. The client is owned by the
// caller and is not closed by Close.
func NewRedisSink(client StreamClient, stream string, optFns ...func(*RedisOptions)) (*RedisSink, error) {
	if client == nil {
		return nil, errors.New("sink: nil redis client")
	}
	if stream == "" {
		return nil, errors.New("sink: empty stream name")
	}

	opts := RedisOptions{Codec: codec.Default}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.MaxLen < 0 {
		return nil, fmt.Errorf("sink: negative stream max length %d", opts.MaxLen)
	}

	return &RedisSink{client: client, stream: stream, opts: opts}, nil
}

// Write implements Sink.
func (s *RedisSink) Write(ctx context.Context, b walkgen.Batch) error {
	var rows any = b.Rows
	if s.opts.AsWords {
		words := make([][]string, b.Len())
		for i := range words {
			words[i] = b.Words(i)
		}
		rows = words
	}

	payload, err := s.opts.Codec.Marshal(rows)
	if err != nil {
		return fmt.Errorf("sink: encode batch: %w", err)
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: []any{
			"epoch", strconv.FormatInt(b.Epoch, 10),
			"total", strconv.FormatInt(b.Total, 10),
			"codec", s.opts.Codec.Name(),
			"rows", payload,
		},
	}
	if s.opts.MaxLen > 0 {
		args.MaxLen = s.opts.MaxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("sink: xadd %s: %w", s.stream, err)
	}
	return nil
}

// Close implements Sink.
func (s *RedisSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
