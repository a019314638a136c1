package sink

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hupe1980/walkgen"
	"github.com/hupe1980/walkgen/codec"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("sink: closed")

// Sink consumes batches. Implementations are safe for concurrent use.
type Sink interface {
	// Write persists or forwards every row of b.
	Write(ctx context.Context, b walkgen.Batch) error
	// Close flushes pending output. Further writes fail with ErrClosed.
	Close(ctx context.Context) error
}

// Format selects the per-walk encoding.
type Format string

const (
	// FormatText writes space separated node ids (or labels), one walk per line.
	FormatText Format = "text"
	// FormatJSON writes one codec-encoded Record per line.
	FormatJSON Format = "json"
)

// ParseFormat returns the format with the given name. The empty name is FormatText.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("sink: unknown format %q", name)
	}
}

// Ext returns the file suffix of the format.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".jsonl"
	}
	return ".txt"
}

// Record is the structured form of one walk.
type Record struct {
	Epoch int64    `json:"epoch"`
	Nodes []int32  `json:"nodes,omitempty"`
	Words []string `json:"words,omitempty"`
}

// appendRow encodes row i of b followed by a newline.
func appendRow(dst []byte, b walkgen.Batch, i int, f Format, asWords bool, c codec.Codec) ([]byte, error) {
	row := b.Rows[i]

	if f == FormatJSON {
		rec := Record{Epoch: b.Epoch}
		if asWords {
			rec.Words = b.Words(i)
		} else {
			rec.Nodes = row
		}
		out, err := codec.Append(c, dst, rec)
		if err != nil {
			return dst, err
		}
		return append(out, '\n'), nil
	}

	for k, id := range row {
		if k > 0 {
			dst = append(dst, ' ')
		}
		if asWords {
			dst = append(dst, b.Labels[id]...)
		} else {
			dst = strconv.AppendInt(dst, int64(id), 10)
		}
	}
	return append(dst, '\n'), nil
}
