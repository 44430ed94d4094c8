// Package core defines the capability interfaces consumed by the crawl
// and merge stages. Each adapter (fetch, markup, render) is a clean,
// testable interface so the crawl logic never touches HTTP, HTML or PDF
// libraries directly.
package core

import "context"

// Fetcher retrieves raw bytes for a URL.
// Network failures and non-2xx statuses are reported as *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Element is a single node returned by Document.FindAll.
type Element interface {
	// Attr returns the attribute value and whether it is set.
	Attr(name string) (string, bool)
}

// Document is a parsed, queryable HTML document.
type Document interface {
	// FindAll returns every element with the given tag name that has
	// attr set, in document order.
	FindAll(tag, attr string) []Element

	// CanonicalForm returns the serialized document.
	CanonicalForm() string
}

// Parser turns fetched bytes into a Document.
type Parser interface {
	Parse(data []byte) (Document, error)
}

// Renderer converts markup (with styles already inlined) into PDF bytes.
// Failures are reported as errors; the caller decides whether to swallow them.
type Renderer interface {
	Render(ctx context.Context, markup string, opts Options) ([]byte, error)
}
