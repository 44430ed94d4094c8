// Package markup implements the Parser interface on top of goquery.
// Element lookups are compiled to cascadia selectors of the form tag[attr];
// serialization goes through golang.org/x/net/html so every parsed page has
// a well-formed head element.
package markup

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/sitepdf/core"
	"golang.org/x/net/html"
)

// HTMLParser parses HTML bytes into queryable documents.
type HTMLParser struct{}

// New creates an HTMLParser.
func New() *HTMLParser {
	return &HTMLParser{}
}

// Parse builds a Document from raw HTML. The HTML5 parsing algorithm
// recovers from almost any input, so errors only come from the reader.
func (p *HTMLParser) Parse(data []byte) (core.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Document wraps a goquery document.
type Document struct {
	doc *goquery.Document
}

// FindAll returns the elements named tag that carry attr, in document order.
func (d *Document) FindAll(tag, attr string) []core.Element {
	sel, err := selector(tag, attr)
	if err != nil {
		return nil
	}

	found := d.doc.FindMatcher(sel)
	elems := make([]core.Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		elems = append(elems, element{sel: s})
	})
	return elems
}

// CanonicalForm renders the whole document tree back to HTML.
func (d *Document) CanonicalForm() string {
	var buf bytes.Buffer
	for _, n := range d.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			// Render only fails on writer errors, which bytes.Buffer never returns.
			return buf.String()
		}
	}
	return buf.String()
}

type element struct {
	sel *goquery.Selection
}

func (e element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

var (
	selectorMu    sync.Mutex
	selectorCache = map[string]cascadia.Selector{}
)

// selector compiles tag[attr] once per pair.
func selector(tag, attr string) (cascadia.Selector, error) {
	key := tag + "[" + attr + "]"

	selectorMu.Lock()
	defer selectorMu.Unlock()

	if sel, ok := selectorCache[key]; ok {
		return sel, nil
	}
	sel, err := cascadia.Compile(key)
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", key, err)
	}
	selectorCache[key] = sel
	return sel, nil
}
