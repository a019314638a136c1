package compress

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("0 1 2 3 0 1 2 3\n", 512))

	for _, k := range []Kind{None, Gzip, Zstd, LZ4} {
		t.Run(k.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(k, &buf)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if k != None {
				assert.Less(t, buf.Len(), len(payload))
			}

			r, err := NewReader(k, &buf)
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		base string
	}{
		{"graph.txt", None, "graph.txt"},
		{"graph.graphml.gz", Gzip, "graph.graphml"},
		{"edges.zst", Zstd, "edges"},
		{"edges.lz4", LZ4, "edges"},
	}

	for _, tt := range tests {
		k, base := Detect(tt.name)
		assert.Equal(t, tt.kind, k, tt.name)
		assert.Equal(t, tt.base, base, tt.name)
	}
}

func TestParse(t *testing.T) {
	for _, name := range []string{"", "none", "gzip", "zstd", "lz4", "ZSTD"} {
		_, err := Parse(name)
		assert.NoError(t, err, name)
	}

	_, err := Parse("brotli")
	assert.Error(t, err)
}
