// Package crawl: page processing.
// One page goes fetch → parse → resolve styles → inline → render → write →
// extract links. Failures are returned as an explicit Outcome rather than
// aborting the crawl.
package crawl

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/gaurav-prasanna/sitepdf/core"
	"github.com/gaurav-prasanna/sitepdf/core/output"
	"golang.org/x/net/html"
)

// Outcome classifies what happened to a page.
type Outcome int

const (
	// OutcomeRendered means a PDF was written for the page.
	OutcomeRendered Outcome = iota
	// OutcomeFetchFailed means the page could not be retrieved or parsed;
	// nothing was rendered and no links were followed.
	OutcomeFetchFailed
	// OutcomeRenderFailed means links were followed but no PDF was written.
	OutcomeRenderFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRendered:
		return "rendered"
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeRenderFailed:
		return "render_failed"
	default:
		return "unknown"
	}
}

// PageResult reports the handling of one URL.
type PageResult struct {
	URL     string
	Outcome Outcome
	// Seq and Path are set once a sequence number was allocated, which
	// happens for every fetched page, rendered or not.
	Seq  int64
	Path string
	// Err is the swallowed fetch or render error.
	Err error
	// SkippedStyles lists stylesheet links that could not be fetched.
	SkippedStyles []error
	// Enqueued counts newly discovered URLs added to the frontier.
	Enqueued int
}

// Processor handles individual pages. It is safe for concurrent use.
type Processor struct {
	fetcher  core.Fetcher
	parser   core.Parser
	renderer core.Renderer
	styles   *StyleResolver
	frontier *Frontier
	writer   *output.Writer
	options  core.Options
	logger   *slog.Logger

	seq atomic.Int64
}

// ProcessorConfig wires a Processor to its collaborators.
type ProcessorConfig struct {
	Fetcher  core.Fetcher
	Parser   core.Parser
	Renderer core.Renderer
	Styles   *StyleResolver
	Frontier *Frontier
	Writer   *output.Writer
	Options  core.Options
	Logger   *slog.Logger
}

// NewProcessor creates a Processor whose sequence counter starts at 1.
func NewProcessor(cfg ProcessorConfig) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	styles := cfg.Styles
	if styles == nil {
		styles = NewStyleResolver(cfg.Fetcher, logger)
	}
	return &Processor{
		fetcher:  cfg.Fetcher,
		parser:   cfg.Parser,
		renderer: cfg.Renderer,
		styles:   styles,
		frontier: cfg.Frontier,
		writer:   cfg.Writer,
		options:  cfg.Options,
		logger:   logger,
	}
}

// Process runs the full pipeline for one URL. It never returns an error;
// the result carries the outcome.
func (p *Processor) Process(ctx context.Context, pageURL string) PageResult {
	result := PageResult{URL: pageURL}
	logger := p.logger.With("url", pageURL)

	origin, err := ParseOrigin(pageURL)
	if err != nil {
		result.Outcome = OutcomeFetchFailed
		result.Err = &core.FetchError{URL: pageURL, Err: err}
		logger.Warn("fetch failed", "error", result.Err)
		return result
	}

	// 1. Fetch
	body, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		result.Outcome = OutcomeFetchFailed
		result.Err = err
		logger.Warn("fetch failed", "error", err)
		return result
	}

	// 2. Parse
	doc, err := p.parser.Parse(body)
	if err != nil {
		result.Outcome = OutcomeFetchFailed
		result.Err = &core.FetchError{URL: pageURL, Err: err}
		logger.Warn("fetch failed", "error", result.Err)
		return result
	}

	// 3. Resolve stylesheets
	css, skipped := p.styles.Resolve(ctx, origin, stylesheetLinks(doc))
	result.SkippedStyles = skipped

	// 4. Inline styles
	markup := InjectStyle(doc.CanonicalForm(), css)

	// 5. Name the output
	result.Seq = p.seq.Add(1)
	result.Path = p.writer.PagePath(result.Seq, origin.Host)

	// 6. Render and write; failures only cost this page its PDF.
	if err := p.render(ctx, pageURL, markup, result.Path); err != nil {
		result.Outcome = OutcomeRenderFailed
		result.Err = err
		logger.Warn("render failed", "path", result.Path, "error", err)
	} else {
		result.Outcome = OutcomeRendered
		logger.Info("page written", "path", result.Path)
	}

	// 7. Follow links
	result.Enqueued = p.enqueueLinks(origin, doc, logger)
	return result
}

func (p *Processor) render(ctx context.Context, pageURL, markup, path string) error {
	if err := p.writer.EnsureDir(path); err != nil {
		return &core.RenderError{URL: pageURL, Path: path, Err: err}
	}
	data, err := p.renderer.Render(ctx, markup, p.options)
	if err != nil {
		return &core.RenderError{URL: pageURL, Path: path, Err: err}
	}
	if err := p.writer.Write(path, data); err != nil {
		return &core.RenderError{URL: pageURL, Path: path, Err: err}
	}
	return nil
}

func (p *Processor) enqueueLinks(origin Origin, doc core.Document, logger *slog.Logger) int {
	added := 0
	for _, a := range doc.FindAll("a", "href") {
		href, _ := a.Attr("href")
		link := NormalizeURL(origin.Join(href))
		if p.frontier.Enqueue(link) {
			added++
			logger.Debug("add queue", "link", link)
		}
	}
	return added
}

// stylesheetLinks returns the href of every link element ending in .css,
// in document order.
func stylesheetLinks(doc core.Document) []string {
	var links []string
	for _, el := range doc.FindAll("link", "href") {
		href, _ := el.Attr("href")
		if strings.HasSuffix(href, ".css") {
			links = append(links, href)
		}
	}
	return links
}

// InjectStyle places css in a style block right before the closing head
// tag. Markup without a closing head tag is returned unchanged.
func InjectStyle(markup, css string) string {
	i := closingHeadOffset(markup)
	if i < 0 {
		return markup
	}
	return markup[:i] + "<style>" + css + "</style>" + markup[i:]
}

// closingHeadOffset returns the byte offset of the first </head> end tag,
// or -1. Tokenizing keeps "</head>" inside script or style text, or inside
// comments, from matching.
func closingHeadOffset(markup string) int {
	z := html.NewTokenizer(strings.NewReader(markup))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return -1
		}
		raw := len(z.Raw())
		if tt == html.EndTagToken {
			if name, _ := z.TagName(); string(name) == "head" {
				return offset
			}
		}
		offset += raw
	}
}
