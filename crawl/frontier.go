// Package crawl: Frontier.
// A FIFO queue of pending URLs plus the visited set. A URL is present at
// most once across pending and visited, which makes the crawl breadth-first
// in discovery order.
package crawl

import (
	"errors"
	"sync"
)

// ErrEmptyFrontier is returned by Next when no pending URL remains.
var ErrEmptyFrontier = errors.New("frontier is empty")

// Frontier owns the pending queue and visited set. It is safe for
// concurrent use; every membership check and insertion happens under
// one lock.
type Frontier struct {
	mu      sync.Mutex
	allow   AllowList
	items   []string
	idx     int // current read position
	pending map[string]bool
	visited map[string]bool
}

// NewFrontier creates an empty Frontier bounded by allow.
func NewFrontier(allow AllowList) *Frontier {
	return &Frontier{
		allow:   allow,
		pending: make(map[string]bool),
		visited: make(map[string]bool),
	}
}

// Enqueue normalizes rawURL and appends it unless it is disallowed,
// already pending, or already visited. It reports whether the URL was added.
func (f *Frontier) Enqueue(rawURL string) bool {
	u := NormalizeURL(rawURL)
	if !f.allow.Allows(u) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.visited[u] || f.pending[u] {
		return false
	}
	f.pending[u] = true
	f.items = append(f.items, u)
	return true
}

// Next pops the head of the queue and marks it visited in the same
// critical section. Entries already visited are skipped.
func (f *Frontier) Next() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for f.idx < len(f.items) {
		u := f.items[f.idx]
		f.items[f.idx] = ""
		f.idx++
		delete(f.pending, u)

		if f.visited[u] {
			continue
		}
		f.visited[u] = true
		f.compact()
		return u, nil
	}

	f.compact()
	return "", ErrEmptyFrontier
}

// compact drops the consumed prefix once it dominates the backing array.
func (f *Frontier) compact() {
	if f.idx > 0 && f.idx >= len(f.items)/2 {
		f.items = append(f.items[:0], f.items[f.idx:]...)
		f.idx = 0
	}
}

// Len returns the number of pending URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items) - f.idx
}

// Visited reports whether u has been handed out by Next.
func (f *Frontier) Visited(u string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited[NormalizeURL(u)]
}

// VisitedCount returns the number of URLs handed out so far.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}
