package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gaurav-prasanna/sitepdf/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressed(t *testing.T, encoding, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch encoding {
	case "gzip":
		w := gzip.NewWriter(&buf)
		_, err := w.Write([]byte(text))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case "br":
		w := brotli.NewWriter(&buf)
		_, err := w.Write([]byte(text))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	return buf.Bytes()
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	t.Parallel()

	gz := compressed(t, "gzip", "body{color:red}")
	br := compressed(t, "br", "<html>brotli</html>")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("<html>ok</html>"))
		case "/ua":
			_, _ = w.Write([]byte(r.UserAgent()))
		case "/gzip":
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(gz)
		case "/br":
			w.Header().Set("Content-Encoding", "br")
			_, _ = w.Write(br)
		case "/bad-gzip":
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write([]byte("not gzip"))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	t.Run("returns body on success", func(t *testing.T) {
		t.Parallel()
		body, err := New().Fetch(context.Background(), srv.URL+"/ok")
		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", string(body))
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		t.Parallel()
		body, err := New(WithUserAgent("tester/2")).Fetch(context.Background(), srv.URL+"/ua")
		require.NoError(t, err)
		assert.Equal(t, "tester/2", string(body))
	})

	t.Run("decodes compressed bodies", func(t *testing.T) {
		t.Parallel()
		body, err := New().Fetch(context.Background(), srv.URL+"/gzip")
		require.NoError(t, err)
		assert.Equal(t, "body{color:red}", string(body))

		body, err = New().Fetch(context.Background(), srv.URL+"/br")
		require.NoError(t, err)
		assert.Equal(t, "<html>brotli</html>", string(body))
	})

	t.Run("corrupt encoding is a FetchError", func(t *testing.T) {
		t.Parallel()
		_, err := New().Fetch(context.Background(), srv.URL+"/bad-gzip")
		var fe *core.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Zero(t, fe.StatusCode)
	})

	t.Run("non-2xx status is a FetchError with the code", func(t *testing.T) {
		t.Parallel()
		_, err := New().Fetch(context.Background(), srv.URL+"/fail")
		var fe *core.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
		assert.Equal(t, srv.URL+"/fail", fe.URL)
	})

	t.Run("malformed URL is a FetchError", func(t *testing.T) {
		t.Parallel()
		_, err := New().Fetch(context.Background(), "http://x.test:bad/style.css")
		var fe *core.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Zero(t, fe.StatusCode)
	})
}
