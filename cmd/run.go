package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gaurav-prasanna/sitepdf/config"
	"github.com/gaurav-prasanna/sitepdf/core"
	"github.com/gaurav-prasanna/sitepdf/core/fetch"
	"github.com/gaurav-prasanna/sitepdf/core/markup"
	"github.com/gaurav-prasanna/sitepdf/core/normalize"
	"github.com/gaurav-prasanna/sitepdf/core/output"
	"github.com/gaurav-prasanna/sitepdf/core/render"
	"github.com/gaurav-prasanna/sitepdf/crawl"
	"github.com/gaurav-prasanna/sitepdf/merge"
	"github.com/spf13/cobra"
)

// runFlags holds command line settings that are not part of the
// configuration document.
type runFlags struct {
	verbose   bool
	mergeOnly bool
	noMerge   bool
	chromeBin string
	noSandbox bool
}

func runRoot(cmd *cobra.Command, args []string) error {
	configPath, outPath := args[0], args[1]

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	rf, err := applyFlags(cmd, cfg)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), rf.verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	if !rf.mergeOnly {
		stats, err := crawlSite(ctx, cfg, rf, logger)
		if stats != nil {
			printCrawlSummary(out, stats)
		}
		if err != nil {
			return err
		}
	}

	if rf.noMerge {
		return nil
	}

	merger := merge.New(merge.NewPDFCPUJoiner(), logger)
	inputs, err := merger.Merge(ctx, cfg.WorkDir, outPath)
	if err != nil {
		return err
	}

	pages, err := merge.PageCount(outPath)
	if err != nil {
		return &core.MergeError{Path: outPath, Err: err}
	}
	fmt.Fprintf(out, "✓ Merged %d documents (%d pages) into %s\n", len(inputs), pages, outPath)
	return nil
}

// applyFlags overrides configuration values with flags the user set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) (runFlags, error) {
	var (
		rf  runFlags
		err error
	)
	f := cmd.Flags()

	if f.Changed("work-dir") {
		if cfg.WorkDir, err = f.GetString("work-dir"); err != nil {
			return rf, err
		}
	}
	if f.Changed("workers") {
		if cfg.Workers, err = f.GetInt("workers"); err != nil {
			return rf, err
		}
	}
	if f.Changed("renderer") {
		if cfg.Renderer, err = f.GetString("renderer"); err != nil {
			return rf, err
		}
	}

	if rf.verbose, err = f.GetBool("verbose"); err != nil {
		return rf, err
	}
	if rf.mergeOnly, err = f.GetBool("merge-only"); err != nil {
		return rf, err
	}
	if rf.noMerge, err = f.GetBool("no-merge"); err != nil {
		return rf, err
	}
	if rf.chromeBin, err = f.GetString("chrome-bin"); err != nil {
		return rf, err
	}
	if rf.noSandbox, err = f.GetBool("no-sandbox"); err != nil {
		return rf, err
	}
	return rf, nil
}

// crawlSite wires the crawl components and runs them until the frontier is
// exhausted. Page failures are counted in the returned stats, not returned.
func crawlSite(ctx context.Context, cfg *config.Config, rf runFlags, logger *slog.Logger) (*crawl.Stats, error) {
	renderer, closeRenderer, err := newRenderer(cfg, rf, logger)
	if err != nil {
		return nil, err
	}
	defer closeRenderer()

	fetcher := fetch.New(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
	)
	frontier := crawl.NewFrontier(crawl.AllowList(cfg.AllowedURLs))
	processor := crawl.NewProcessor(crawl.ProcessorConfig{
		Fetcher:  fetcher,
		Parser:   markup.New(),
		Renderer: renderer,
		Styles:   crawl.NewStyleResolver(fetcher, logger),
		Frontier: frontier,
		Writer:   output.New(cfg.WorkDir),
		Options:  cfg.PDFOptions,
		Logger:   logger,
	})
	crawler := crawl.NewCrawler(frontier, processor,
		crawl.WithWorkers(cfg.Workers),
		crawl.WithLogger(logger),
	)

	logger.Info("crawl started", "start_url", cfg.StartURL, "renderer", cfg.Renderer, "workers", cfg.Workers)
	stats, err := crawler.Run(ctx, cfg.StartURL)
	if errors.Is(err, context.Canceled) {
		logger.Warn("crawl interrupted", "visited", stats.Visited)
	}
	return stats, err
}

func newRenderer(cfg *config.Config, rf runFlags, logger *slog.Logger) (core.Renderer, func(), error) {
	switch cfg.Renderer {
	case config.RendererBasic:
		return render.NewBasicRenderer(normalize.New()), func() {}, nil
	default:
		r, err := render.NewChromeRenderer(render.ChromeConfig{
			Bin:       rf.chromeBin,
			NoSandbox: rf.noSandbox,
			MaxPages:  cfg.Workers,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return r, func() {
			if err := r.Close(); err != nil {
				logger.Warn("closing browser", "error", err)
			}
		}, nil
	}
}

func printCrawlSummary(w io.Writer, s *crawl.Stats) {
	fmt.Fprintf(w, "Crawled %d pages: %d rendered, %d fetch failures, %d render failures",
		s.Visited, s.Rendered, s.FetchFailed, s.RenderFailed)
	if s.StyleSkipped > 0 {
		fmt.Fprintf(w, ", %d stylesheets skipped", s.StyleSkipped)
	}
	fmt.Fprintln(w)
}
