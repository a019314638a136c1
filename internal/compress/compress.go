// Package compress maps stream compression kinds to reader and writer
// constructors. Kinds are chosen either explicitly or from a file suffix.
package compress

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Kind identifies a stream compression format.
type Kind uint8

const (
	// None passes bytes through unchanged.
	None Kind = iota
	// Gzip is RFC 1952 gzip.
	Gzip
	// Zstd is Zstandard.
	Zstd
	// LZ4 is the LZ4 frame format.
	LZ4
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "none"
	}
}

// Ext returns the file suffix (including the dot) for the kind, or "".
func (k Kind) Ext() string {
	switch k {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// Parse returns the kind with the given name ("", "none", "gzip", "zstd", "lz4").
func Parse(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return None, fmt.Errorf("compress: unknown kind %q", name)
	}
}

// Detect returns the kind implied by the suffix of name and name without it.
func Detect(name string) (Kind, string) {
	for _, k := range []Kind{Gzip, Zstd, LZ4} {
		if strings.HasSuffix(name, k.Ext()) {
			return k, strings.TrimSuffix(name, k.Ext())
		}
	}
	return None, name
}

// NewReader wraps r with a decompressor for k.
func NewReader(k Kind, r io.Reader) (io.ReadCloser, error) {
	switch k {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		return gzip.NewReader(r)
	case Zstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("compress: unknown kind %d", k)
	}
}

// NewWriter wraps w with a compressor for k. Closing the returned writer
// flushes the compressor but does not close w.
func NewWriter(k Kind, w io.Writer) (io.WriteCloser, error) {
	switch k {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("compress: unknown kind %d", k)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
