package sink

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/walkgen"
	"github.com/hupe1980/walkgen/blobstore"
	"github.com/hupe1980/walkgen/codec"
	"github.com/hupe1980/walkgen/internal/compress"
)

// DefaultShardRows is the number of walks per shard when BlobOptions.ShardRows is 0.
const DefaultShardRows = 1 << 20

// encodeChunk is the number of rows one encoding goroutine handles.
const encodeChunk = 4096

// BlobOptions configures a BlobSink.
type BlobOptions struct {
	// Format is the per-walk encoding. Defaults to FormatText.
	Format Format
	// Compression is applied to every shard.
	Compression compress.Kind
	// ShardRows is the number of walks after which a new shard is started.
	ShardRows int
	// AsWords writes node labels instead of node ids.
	AsWords bool
	// Codec encodes records in FormatJSON. Defaults to codec.Default.
	Codec codec.Codec
	// Workers bounds parallel encoding of large batches. Defaults to 1.
	Workers int
}

// BlobSink writes walks into numbered shards under a prefix of a blob store.
type BlobSink struct {
	mu sync.Mutex

	store  blobstore.BlobStore
	prefix string
	opts   BlobOptions

	blob   blobstore.WritableBlob
	w      io.WriteCloser
	rows   int
	next   int
	shards []string
	closed bool
}

// NewBlobSink creates a sink writing shards named
// <prefix>/walks-00000.txt[.gz|.zst|.lz4] and so on.
func NewBlobSink(store blobstore.BlobStore, prefix string, optFns ...func(*BlobOptions)) (*BlobSink, error) {
	opts := BlobOptions{
		Format:    FormatText,
		ShardRows: DefaultShardRows,
		Codec:     codec.Default,
		Workers:   1,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return nil, err
	}
	if opts.ShardRows <= 0 {
		return nil, fmt.Errorf("sink: shard rows must be positive, got %d", opts.ShardRows)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	return &BlobSink{
		store:  store,
		prefix: strings.Trim(prefix, "/"),
		opts:   opts,
	}, nil
}

// Write implements Sink.
func (s *BlobSink) Write(ctx context.Context, b walkgen.Batch) error {
	bufs, ends, err := s.encode(ctx, b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	for c, buf := range bufs {
		start := 0
		for i := 0; i < len(ends[c]); {
			if s.w == nil {
				if err := s.openShard(ctx); err != nil {
					return err
				}
			}

			n := min(s.opts.ShardRows-s.rows, len(ends[c])-i)
			end := ends[c][i+n-1]
			if _, err := s.w.Write(buf[start:end]); err != nil {
				return fmt.Errorf("sink: write %s: %w", s.shards[len(s.shards)-1], err)
			}
			start = end
			i += n
			s.rows += n

			if s.rows >= s.opts.ShardRows {
				if err := s.closeShard(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// encode renders the batch into per-chunk buffers. ends[c][i] is the end
// offset of the i-th row of chunk c.
func (s *BlobSink) encode(ctx context.Context, b walkgen.Batch) ([][]byte, [][]int, error) {
	chunks := (b.Len() + encodeChunk - 1) / encodeChunk
	bufs := make([][]byte, chunks)
	ends := make([][]int, chunks)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.Workers)

	for c := 0; c < chunks; c++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lo, hi := c*encodeChunk, min((c+1)*encodeChunk, b.Len())

			var buf []byte
			offs := make([]int, 0, hi-lo)
			for i := lo; i < hi; i++ {
				var err error
				if buf, err = appendRow(buf, b, i, s.opts.Format, s.opts.AsWords, s.opts.Codec); err != nil {
					return fmt.Errorf("sink: encode row %d: %w", i, err)
				}
				offs = append(offs, len(buf))
			}
			bufs[c], ends[c] = buf, offs
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return bufs, ends, nil
}

func (s *BlobSink) shardName(i int) string {
	name := fmt.Sprintf("walks-%05d%s%s", i, s.opts.Format.Ext(), s.opts.Compression.Ext())
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *BlobSink) openShard(ctx context.Context) error {
	name := s.shardName(s.next)

	blob, err := s.store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("sink: create %s: %w", name, err)
	}
	w, err := compress.NewWriter(s.opts.Compression, blob)
	if err != nil {
		_ = blob.Close()
		return err
	}

	s.blob, s.w = blob, w
	s.rows = 0
	s.next++
	s.shards = append(s.shards, name)
	return nil
}

func (s *BlobSink) closeShard() error {
	if s.w == nil {
		return nil
	}

	name := s.shards[len(s.shards)-1]
	werr := s.w.Close()
	berr := s.blob.Close()
	s.blob, s.w = nil, nil

	if werr != nil {
		return fmt.Errorf("sink: flush %s: %w", name, werr)
	}
	if berr != nil {
		return fmt.Errorf("sink: close %s: %w", name, berr)
	}
	return nil
}

// Close implements Sink.
func (s *BlobSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.closeShard()
}

// Shards returns the names of the shards created so far.
func (s *BlobSink) Shards() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.shards...)
}

// WriteVocabulary stores labels as <prefix>/vocab.txt, one label per line,
// so that line i holds the label of node id i.
func (s *BlobSink) WriteVocabulary(ctx context.Context, labels []string) (string, error) {
	name := "vocab.txt"
	if s.prefix != "" {
		name = path.Join(s.prefix, name)
	}
	return name, WriteVocabulary(ctx, s.store, name, labels)
}

// WriteVocabulary stores labels under name, one label per line.
func WriteVocabulary(ctx context.Context, store blobstore.BlobStore, name string, labels []string) error {
	size := 0
	for _, l := range labels {
		size += len(l) + 1
	}

	data := make([]byte, 0, size)
	for _, l := range labels {
		data = append(data, l...)
		data = append(data, '\n')
	}

	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("sink: write vocabulary %s: %w", name, err)
	}
	return nil
}
