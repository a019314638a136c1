// Package codec encodes walk records for sinks.
//
// Sinks that write structured output (JSON lines, Redis stream payloads)
// take a Codec so callers can trade portability for speed. The Redis sink
// stamps the codec name on every entry so consumers can pick the decoder.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Appender is implemented by codecs that can encode into a caller buffer.
type Appender interface {
	Append(dst []byte, v any) ([]byte, error)
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, error) {
	switch name {
	case "", "go-json":
		return GoJSON{}, nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}

// Append encodes v with c and appends it to dst, using c's Appender if it has one.
func Append(c Codec, dst []byte, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	if a, ok := c.(Appender); ok {
		return a.Append(dst, v)
	}
	b, err := c.Marshal(v)
	if err != nil {
		return dst, fmt.Errorf("codec %s marshal failed: %w", c.Name(), err)
	}
	return append(dst, b...), nil
}
