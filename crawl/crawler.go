// Package crawl provides the site crawl: a Frontier of pending and visited
// URLs, a StyleResolver caching stylesheet text, a Processor turning one
// page into one PDF, and the Crawler driving them until the frontier is
// exhausted.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PageHandler processes one URL.
type PageHandler interface {
	Process(ctx context.Context, pageURL string) PageResult
}

// Stats summarizes a finished crawl.
type Stats struct {
	Visited      int
	Rendered     int
	FetchFailed  int
	RenderFailed int
	StyleSkipped int
	// Results are in completion order.
	Results []PageResult
}

func (s *Stats) add(r PageResult) {
	s.Visited++
	switch r.Outcome {
	case OutcomeRendered:
		s.Rendered++
	case OutcomeFetchFailed:
		s.FetchFailed++
	case OutcomeRenderFailed:
		s.RenderFailed++
	}
	s.StyleSkipped += len(r.SkippedStyles)
	s.Results = append(s.Results, r)
}

// Crawler pulls URLs from a Frontier and hands them to a PageHandler.
// With one worker (the default) each page is fully processed before the
// next is popped.
type Crawler struct {
	frontier *Frontier
	handler  PageHandler
	workers  int
	logger   *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithWorkers sets how many pages may be processed at once.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Crawler) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCrawler creates a Crawler over frontier and handler.
func NewCrawler(frontier *Frontier, handler PageHandler, opts ...Option) *Crawler {
	c := &Crawler{
		frontier: frontier,
		handler:  handler,
		workers:  1,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run seeds the frontier with startURL and processes pages until no URL is
// pending and no page is in flight. There is no page limit; only the
// visited set stops revisits. A cancelled context stops new pages from
// being started and is returned once in-flight pages finish.
func (c *Crawler) Run(ctx context.Context, startURL string) (*Stats, error) {
	if !c.frontier.Enqueue(startURL) {
		c.logger.Warn("start URL not enqueued", "url", startURL)
	}

	var (
		mu       sync.Mutex
		stats    = &Stats{}
		inflight sync.WaitGroup
		g        errgroup.Group
	)
	g.SetLimit(c.workers)

	for {
		if err := ctx.Err(); err != nil {
			inflight.Wait()
			return stats, err
		}

		pageURL, err := c.frontier.Next()
		if errors.Is(err, ErrEmptyFrontier) {
			// In-flight pages may still discover links.
			inflight.Wait()
			if c.frontier.Len() == 0 {
				break
			}
			continue
		}

		c.logger.Info("load url", "url", pageURL)
		inflight.Add(1)
		g.Go(func() error {
			defer inflight.Done()
			result := c.handler.Process(ctx, pageURL)
			mu.Lock()
			stats.add(result)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return stats, nil
}
