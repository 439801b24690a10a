package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	payload := strings.Repeat(`{"type":"RECORD","stream":"Invoice","record":{"internalId":"1"}}`+"\n", 200)

	for _, alg := range []Algorithm{None, Gzip, Zstd, S2, Snappy, LZ4} {
		t.Run(string(alg), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, alg, Default)
			require.NoError(t, err)
			_, err = io.WriteString(w, payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if alg != None {
				assert.Less(t, buf.Len(), len(payload))
			}

			r, err := NewReader(&buf, alg)
			require.NoError(t, err)
			defer r.Close()
			out, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, string(out))
		})
	}
}

func TestFromPath(t *testing.T) {
	assert.Equal(t, Zstd, FromPath("out/sync.jsonl.zst"))
	assert.Equal(t, Gzip, FromPath("sync.GZ"))
	assert.Equal(t, LZ4, FromPath("sync.lz4"))
	assert.Equal(t, None, FromPath("sync.jsonl"))
	assert.Equal(t, None, FromPath(""))
}

func TestParse(t *testing.T) {
	alg, err := Parse(" ZSTD ")
	require.NoError(t, err)
	assert.Equal(t, Zstd, alg)

	alg, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, None, alg)

	_, err = Parse("brotli")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = NewWriter(io.Discard, Algorithm("brotli"), Default)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
