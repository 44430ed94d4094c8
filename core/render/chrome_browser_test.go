package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/gaurav-prasanna/sitepdf/core"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLocalChrome starts a ChromeRenderer on a locally installed browser,
// skipping when none is found so the suite never downloads one.
func newLocalChrome(t *testing.T) *ChromeRenderer {
	t.Helper()
	bin, has := launcher.LookPath()
	if !has {
		t.Skip("no Chrome or Chromium installed")
	}
	r, err := NewChromeRenderer(ChromeConfig{Bin: bin, NoSandbox: true, MaxPages: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestChromeRenderer_Render(t *testing.T) {
	r := newLocalChrome(t)
	ctx := context.Background()

	markup := `<html><head><style>h1{color:red}</style>` +
		`<script>document.title = "changed"</script></head>` +
		`<body><h1>Hello</h1></body></html>`

	data, err := r.Render(ctx, markup, core.Options{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	// The single pooled tab is reused with headers, then without them.
	data, err = r.Render(ctx, markup, core.Options{
		"page-size":     "Letter",
		"orientation":   "Landscape",
		"custom-header": []any{[]any{"X-Trace", "1"}},
		"footer-center": "[page]/[topage]",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	data, err = r.Render(ctx, "<p>plain</p>", core.Options{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestChromeRenderer_RenderErrors(t *testing.T) {
	r := newLocalChrome(t)

	t.Run("invalid options fail before a tab is used", func(t *testing.T) {
		_, err := r.Render(context.Background(), "<p>x</p>", core.Options{"zoom": "huge"})
		assert.ErrorContains(t, err, "zoom")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := r.Render(ctx, "<p>x</p>", core.Options{})
		assert.Error(t, err)
	})

	t.Run("tab is usable after a cancelled render", func(t *testing.T) {
		data, err := r.Render(context.Background(), "<p>again</p>", core.Options{})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	})
}
