package crawl

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/gaurav-prasanna/sitepdf/core"
)

// fakeFetcher serves fixed bodies and counts requests per URL.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	status map[string]int
	calls  map[string]int
}

func newFakeFetcher(bodies map[string]string) *fakeFetcher {
	return &fakeFetcher{bodies: bodies, status: map[string]int{}, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if code, ok := f.status[url]; ok {
		return nil, &core.FetchError{URL: url, StatusCode: code}
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, &core.FetchError{URL: url, StatusCode: 404}
	}
	return []byte(body), nil
}

func (f *fakeFetcher) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

// fakeRenderer records the markup it was given and returns a tiny payload.
type fakeRenderer struct {
	mu      sync.Mutex
	markups []string
	failOn  string
}

var errRender = errors.New("renderer exploded")

func (r *fakeRenderer) Render(_ context.Context, markup string, _ core.Options) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markups = append(r.markups, markup)
	if r.failOn != "" && strings.Contains(markup, r.failOn) {
		return nil, errRender
	}
	return []byte("%PDF-fake"), nil
}
