package codec

import gojson "github.com/goccy/go-json"

// GoJSON is the default codec, backed by github.com/goccy/go-json. Node
// labels are written verbatim: unlike JSON it does not escape <, > and &.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) {
	return gojson.MarshalWithOption(v, gojson.DisableHTMLEscape())
}

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name returns "go-json", the value Redis stream entries carry in their codec field.
func (GoJSON) Name() string { return "go-json" }

// Append appends the encoding of v to dst. dst is returned unchanged on error.
func (g GoJSON) Append(dst []byte, v any) ([]byte, error) {
	b, err := g.Marshal(v)
	if err != nil {
		return dst, err
	}
	return append(dst, b...), nil
}
