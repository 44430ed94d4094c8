package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowList_Allows(t *testing.T) {
	t.Parallel()

	allow := AllowList{"http://x.test/docs", "https://y.test/"}

	assert.True(t, allow.Allows("http://x.test/docs/intro"))
	assert.True(t, allow.Allows("https://y.test/"))
	// Plain prefix match, not path-boundary aware.
	assert.True(t, allow.Allows("http://x.test/docsearch"))
	assert.False(t, allow.Allows("http://x.test/blog"))
	assert.False(t, allow.Allows("http://y.test/"))
	assert.False(t, AllowList(nil).Allows("http://x.test/"))
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"http://x.test/a#top":     "http://x.test/a",
		"http://x.test/a":         "http://x.test/a",
		"http://x.test/a/":        "http://x.test/a/",
		"http://x.test/a?q=1#f#g": "http://x.test/a?q=1",
		"#only":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeURL(in), in)
	}
}

func TestOrigin_Join(t *testing.T) {
	t.Parallel()

	origin, err := ParseOrigin("https://x.test:8443/docs/page?x=1")
	require.NoError(t, err)
	assert.Equal(t, Origin{Scheme: "https", Host: "x.test:8443"}, origin)

	assert.Equal(t, "https://x.test:8443/style.css", origin.Join("/style.css"))
	// Refs are concatenated, never resolved.
	assert.Equal(t, "https://x.test:8443relative.html", origin.Join("relative.html"))
	assert.Equal(t, "https://x.test:8443http://y.test/b", origin.Join("http://y.test/b"))
}
