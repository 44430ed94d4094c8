package render

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/sitepdf/core"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ChromeConfig controls the headless browser used by ChromeRenderer.
type ChromeConfig struct {
	// Bin is the Chrome/Chromium binary. Empty lets rod find or download one.
	Bin string

	// NoSandbox is needed when running as root inside containers.
	NoSandbox bool

	// MaxPages bounds the number of concurrently open tabs.
	MaxPages int
}

// ChromeRenderer prints markup to PDF with headless Chrome. Styles inlined
// into the document head are honoured, which is the point of this renderer.
// It is safe for concurrent use.
type ChromeRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	pagePool rod.Pool[rod.Page]
	logger   *slog.Logger
}

// NewChromeRenderer launches a headless browser and prepares a tab pool.
func NewChromeRenderer(cfg ChromeConfig, logger *slog.Logger) (*ChromeRenderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}

	l := launcher.New().
		Headless(true).
		NoSandbox(cfg.NoSandbox)
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	logger.Debug("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &ChromeRenderer{
		browser:  browser,
		launcher: l,
		pagePool: rod.NewPagePool(cfg.MaxPages),
		logger:   logger,
	}, nil
}

// Render loads markup into a blank tab and prints it.
func (r *ChromeRenderer) Render(ctx context.Context, markup string, opts core.Options) ([]byte, error) {
	req, err := printRequest(opts)
	if err != nil {
		return nil, err
	}
	headers, err := extraHeaders(opts)
	if err != nil {
		return nil, err
	}

	page, err := r.pagePool.Get(r.newTab)
	if err != nil {
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	defer r.pagePool.Put(page)

	p := page.Context(ctx)

	if len(headers) > 0 {
		restore, err := p.SetExtraHeaders(headers)
		if err != nil {
			return nil, fmt.Errorf("setting extra headers: %w", err)
		}
		defer restore()
	}

	if err := p.SetDocumentContent(markup); err != nil {
		return nil, fmt.Errorf("loading markup: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for load: %w", err)
	}

	stream, err := p.PDF(req)
	if err != nil {
		return nil, fmt.Errorf("printing to PDF: %w", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading PDF stream: %w", err)
	}
	return data, nil
}

// newTab opens a blank tab with page scripts disabled; the markup is
// printed as served, without running its JavaScript.
func (r *ChromeRenderer) newTab() (*rod.Page, error) {
	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	if err := (proto.EmulationSetScriptExecutionDisabled{Value: true}).Call(page); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("disabling scripts: %w", err)
	}
	return page, nil
}

// Close shuts every pooled tab and the browser process.
func (r *ChromeRenderer) Close() error {
	r.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	err := r.browser.Close()
	r.launcher.Cleanup()
	return err
}

// printRequest maps the option bag onto Page.printToPDF parameters.
func printRequest(opts core.Options) (*proto.PagePrintToPDF, error) {
	setup, err := pageSetup(opts)
	if err != nil {
		return nil, err
	}

	req := &proto.PagePrintToPDF{
		Landscape:       setup.Landscape,
		PrintBackground: !opts.Flag(keyNoBackground),
		PaperWidth:      &setup.Width,
		PaperHeight:     &setup.Height,
		MarginTop:       &setup.Margins.Top,
		MarginRight:     &setup.Margins.Right,
		MarginBottom:    &setup.Margins.Bottom,
		MarginLeft:      &setup.Margins.Left,
	}

	if raw, ok := opts.String(keyZoom); ok {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", keyZoom, raw)
		}
		// Chrome rejects scales outside [0.1, 2].
		if scale < 0.1 || scale > 2 {
			return nil, fmt.Errorf("%s must be between 0.1 and 2, got %v", keyZoom, scale)
		}
		req.Scale = &scale
	}

	header, hasHeader := opts.String(keyHeaderCenter)
	footer, hasFooter := opts.String(keyFooterCenter)
	if hasHeader || hasFooter {
		req.DisplayHeaderFooter = true
		// An empty template makes Chrome print its default title/URL line.
		req.HeaderTemplate = headerFooterTemplate(header)
		req.FooterTemplate = headerFooterTemplate(footer)
	}

	return req, nil
}

// headerFooterTemplate converts wkhtmltopdf [page] style variables into
// the class names Chrome substitutes.
func headerFooterTemplate(text string) string {
	replacer := strings.NewReplacer(
		"[page]", `<span class="pageNumber"></span>`,
		"[topage]", `<span class="totalPages"></span>`,
		"[title]", `<span class="title"></span>`,
		"[date]", `<span class="date"></span>`,
		"[webpage]", `<span class="url"></span>`,
	)
	body := replacer.Replace(html.EscapeString(text))
	return `<div style="font-size:8px;width:100%;text-align:center;">` + body + `</div>`
}

// extraHeaders flattens custom-header pairs, plus cookie pairs folded into
// one Cookie header, into rod's name/value list.
func extraHeaders(opts core.Options) ([]string, error) {
	headers, err := opts.Pairs(keyCustomHeader)
	if err != nil {
		return nil, err
	}
	cookies, err := opts.Pairs(keyCookie)
	if err != nil {
		return nil, err
	}

	dict := make([]string, 0, 2*len(headers)+2)
	for _, h := range headers {
		dict = append(dict, h.Name, h.Value)
	}
	if len(cookies) > 0 {
		parts := make([]string, 0, len(cookies))
		for _, c := range cookies {
			parts = append(parts, c.Name+"="+c.Value)
		}
		dict = append(dict, "Cookie", strings.Join(parts, "; "))
	}
	return dict, nil
}
