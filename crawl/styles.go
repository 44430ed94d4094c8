package crawl

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/gaurav-prasanna/sitepdf/core"
	"golang.org/x/sync/singleflight"
)

// StyleResolver fetches stylesheet text and caches it for the whole crawl.
// Cache keys are the link text as written in the page, so identical links
// on different hosts share one entry. Entries are never evicted or
// overwritten.
type StyleResolver struct {
	fetcher core.Fetcher
	logger  *slog.Logger

	mu    sync.Mutex
	cache map[string]string
	// group collapses concurrent fetches of the same link into one request.
	group singleflight.Group
}

// NewStyleResolver creates a resolver with an empty cache.
func NewStyleResolver(fetcher core.Fetcher, logger *slog.Logger) *StyleResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &StyleResolver{
		fetcher: fetcher,
		logger:  logger,
		cache:   make(map[string]string),
	}
}

// Resolve returns the CSS of every link, in order, joined by newlines.
// Links whose fetch fails are skipped and not cached; the returned slice
// lists those failures as *core.StyleFetchError.
func (r *StyleResolver) Resolve(ctx context.Context, origin Origin, links []string) (string, []error) {
	var (
		parts   []string
		skipped []error
	)
	for _, link := range links {
		css, err := r.lookup(ctx, origin, link)
		if err != nil {
			skipped = append(skipped, err)
			r.logger.Debug("stylesheet skipped", "link", link, "error", err)
			continue
		}
		parts = append(parts, css)
	}
	return strings.Join(parts, "\n"), skipped
}

// Cached returns the cached text for link.
func (r *StyleResolver) Cached(link string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	css, ok := r.cache[link]
	return css, ok
}

func (r *StyleResolver) lookup(ctx context.Context, origin Origin, link string) (string, error) {
	if css, ok := r.Cached(link); ok {
		return css, nil
	}

	v, err, _ := r.group.Do(link, func() (any, error) {
		// A call that finished between the check above and Do has filled the cache.
		if css, ok := r.Cached(link); ok {
			return css, nil
		}

		target := origin.Join(link)
		data, err := r.fetcher.Fetch(ctx, target)
		if err != nil {
			return "", &core.StyleFetchError{Link: link, URL: target, Err: err}
		}

		css := string(data)
		r.mu.Lock()
		r.cache[link] = css
		r.mu.Unlock()
		return css, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
