package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/gaurav-prasanna/sitepdf/core"
	"github.com/gaurav-prasanna/sitepdf/core/fetch"
	"github.com/gaurav-prasanna/sitepdf/core/markup"
	"github.com/gaurav-prasanna/sitepdf/core/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCrawler(f core.Fetcher, r core.Renderer, allow AllowList, dir string, opts ...Option) *Crawler {
	frontier := NewFrontier(allow)
	p := NewProcessor(ProcessorConfig{
		Fetcher:  f,
		Parser:   markup.New(),
		Renderer: r,
		Frontier: frontier,
		Writer:   output.New(dir),
	})
	return NewCrawler(frontier, p, opts...)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestCrawler_Run(t *testing.T) {
	t.Parallel()

	t.Run("visits breadth first and skips broken pages", func(t *testing.T) {
		t.Parallel()
		f := newFakeFetcher(map[string]string{
			"http://x.test/": `<html><head><link href="/style.css"></head><body>` +
				`<a href="/a">a</a><a href="/broken">b</a><a href="http://y.test/b">y</a></body></html>`,
			"http://x.test/a": `<html><head><link href="/style.css"></head><body>` +
				`<a href="/">home</a><a href="/c">c</a></body></html>`,
			"http://x.test/c":         `<html><head></head><body>leaf</body></html>`,
			"http://x.test/style.css": "p{color:red}",
		})
		f.status["http://x.test/broken"] = 500
		dir := t.TempDir()
		c := newTestCrawler(f, &fakeRenderer{}, AllowList{"http://x.test/"}, dir)

		stats, err := c.Run(context.Background(), "http://x.test/")
		require.NoError(t, err)

		var order []string
		for _, r := range stats.Results {
			order = append(order, r.URL)
		}
		assert.Equal(t, []string{
			"http://x.test/",
			"http://x.test/a",
			"http://x.test/broken",
			"http://x.test/c",
		}, order)

		assert.Equal(t, 4, stats.Visited)
		assert.Equal(t, 3, stats.Rendered)
		assert.Equal(t, 1, stats.FetchFailed)
		assert.Zero(t, stats.RenderFailed)

		assert.Equal(t, []string{"001_x.test.pdf", "002_x.test.pdf", "003_x.test.pdf"}, listDir(t, dir))
		assert.Equal(t, 1, f.Calls("http://x.test/style.css"))
		assert.Equal(t, 1, f.Calls("http://x.test/"))
		assert.Zero(t, f.Calls("http://y.test/b"))
	})

	t.Run("seed outside the allow-list crawls nothing", func(t *testing.T) {
		t.Parallel()
		f := newFakeFetcher(nil)
		c := newTestCrawler(f, &fakeRenderer{}, AllowList{"http://x.test/docs"}, t.TempDir())

		stats, err := c.Run(context.Background(), "http://x.test/")
		require.NoError(t, err)
		assert.Zero(t, stats.Visited)
	})

	t.Run("parallel workers allocate unique sequence numbers", func(t *testing.T) {
		t.Parallel()
		bodies := map[string]string{}
		index := `<html><head></head><body>`
		for i := 0; i < 20; i++ {
			index += fmt.Sprintf(`<a href="/p%d">p</a>`, i)
			bodies[fmt.Sprintf("http://x.test/p%d", i)] = `<html><head></head><body><a href="/">home</a></body></html>`
		}
		bodies["http://x.test/"] = index + `</body></html>`
		f := newFakeFetcher(bodies)
		dir := t.TempDir()
		c := newTestCrawler(f, &fakeRenderer{}, AllowList{"http://x.test/"}, dir, WithWorkers(4))

		stats, err := c.Run(context.Background(), "http://x.test/")
		require.NoError(t, err)
		assert.Equal(t, 21, stats.Rendered)

		seen := map[int64]bool{}
		for _, r := range stats.Results {
			assert.False(t, seen[r.Seq], "duplicate seq %d", r.Seq)
			seen[r.Seq] = true
		}
		for i := int64(1); i <= 21; i++ {
			assert.True(t, seen[i], "missing seq %d", i)
		}
		assert.Len(t, listDir(t, dir), 21)
		for url := range bodies {
			assert.Equal(t, 1, f.Calls(url), url)
		}
	})

	t.Run("cancelled context stops the crawl", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		f := newFakeFetcher(map[string]string{"http://x.test/": "<html></html>"})
		c := newTestCrawler(f, &fakeRenderer{}, AllowList{"http://x.test/"}, t.TempDir())

		stats, err := c.Run(ctx, "http://x.test/")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, stats.Visited)
	})
}

func TestCrawler_RunOverHTTP(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		hits = map[string]int{}
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `<html><head><link rel="stylesheet" href="/site.css"></head>`+
				`<body><a href="/guide#top">guide</a><a href="/missing">x</a></body></html>`)
		case "/guide":
			fmt.Fprint(w, `<html><head><link rel="stylesheet" href="/site.css"></head><body>guide</body></html>`)
		case "/site.css":
			fmt.Fprint(w, "h1{font-size:2em}")
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	r := &fakeRenderer{}
	c := newTestCrawler(fetch.New(), r, AllowList{srv.URL + "/"}, dir)

	stats, err := c.Run(context.Background(), srv.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Visited)
	assert.Equal(t, 2, stats.Rendered)
	assert.Equal(t, 1, stats.FetchFailed)
	assert.Equal(t, 1, hits["/site.css"])
	assert.Len(t, listDir(t, dir), 2)
	for _, m := range r.markups {
		assert.Contains(t, m, "<style>h1{font-size:2em}</style>")
	}
}
