package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type walkRecord struct {
	Epoch int64    `json:"epoch"`
	Walk  []string `json:"walk"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "json", "go-json"} {
		c, err := ByName(name)
		require.NoError(t, err, name)
		if name != "" {
			assert.Equal(t, name, c.Name())
		}
	}

	_, err := ByName("msgpack")
	assert.Error(t, err)
}

func TestCodecsAgree(t *testing.T) {
	rec := walkRecord{Epoch: 3, Walk: []string{"a", "b", "<c>"}}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(rec)
			require.NoError(t, err)

			var got walkRecord
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, rec, got)

			// Decodable by the other codec.
			var other walkRecord
			require.NoError(t, JSON{}.Unmarshal(data, &other))
			assert.Equal(t, rec, other)
		})
	}
}

func TestGoJSON_KeepsLabelsVerbatim(t *testing.T) {
	rec := walkRecord{Epoch: 1, Walk: []string{"<a&b>"}}

	data, err := GoJSON{}.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"<a&b>"`)

	data, err = JSON{}.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"\u003ca\u0026b\u003e"`)

	out, err := GoJSON{}.Append([]byte("x"), make(chan int))
	assert.Error(t, err)
	assert.Equal(t, "x", string(out))
}

func TestAppend(t *testing.T) {
	prefix := []byte("x:")

	for _, c := range []Codec{JSON{}, GoJSON{}, nil} {
		out, err := Append(c, append([]byte(nil), prefix...), []int32{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, "x:[1,2,3]", string(out))
	}

	_, err := Append(JSON{}, nil, make(chan int))
	assert.Error(t, err)
}
