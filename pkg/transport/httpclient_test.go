package transport

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const body = `<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0 L10 0"/></svg>`

func encode(t *testing.T, encoding string) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "deflate":
		fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		require.NoError(t, err)
		w = fw
	case "br":
		w = brotli.NewWriter(&buf)
	default:
		return []byte(body)
	}
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFetchDecodesContentEncodings(t *testing.T) {
	for _, encoding := range []string{"", "gzip", "deflate", "br"} {
		t.Run("encoding="+encoding, func(t *testing.T) {
			payload := encode(t, encoding)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "gzip, deflate, br", r.Header.Get("Accept-Encoding"))
				if encoding != "" {
					w.Header().Set("Content-Encoding", encoding)
				}
				w.Header().Set("Content-Type", "image/svg+xml")
				_, _ = w.Write(payload)
			}))
			defer srv.Close()

			c, err := NewClient(DefaultOptions())
			require.NoError(t, err)

			got, err := c.Fetch(context.Background(), srv.URL+"/shape.svg")
			require.NoError(t, err)
			assert.Equal(t, body, string(got))
		})
	}
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, err := NewClient(DefaultOptions())
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchHonoursCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c, err := NewClient(DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientRejectsMissingBundle(t *testing.T) {
	opts := DefaultOptions()
	opts.CABundle = "/does/not/exist.pem"

	_, err := NewClient(opts)
	assert.Error(t, err)
}

func TestDecodeUnknownEncodingPassesThrough(t *testing.T) {
	r, err := Decode(io.NopCloser(bytes.NewReader([]byte(body))), "compress")
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/logo.svg"))
	assert.True(t, IsURL("HTTP://example.com/logo.svg"))
	assert.False(t, IsURL("logo.svg"))
	assert.False(t, IsURL("/tmp/http/logo.svg"))
	assert.False(t, IsURL("ftp://example.com/logo.svg"))
}
