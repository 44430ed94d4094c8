// Package cmd implements the sitepdf command line using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gaurav-prasanna/sitepdf/core"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the sitepdf command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitepdf <config.yaml> <output.pdf>",
		Short: "sitepdf — crawl a website and merge its pages into one PDF",
		Long: `sitepdf crawls a website breadth-first from a start URL, staying inside a
list of allowed URL prefixes. Every page is rendered to PDF with its
stylesheets inlined, and the page PDFs are then merged, in crawl order,
into a single document.

The configuration file supplies start_url, allowed_urls and pdf_option.

Examples:
  sitepdf site.yaml site.pdf
  sitepdf site.yaml site.pdf --workers 4 --renderer basic
  sitepdf site.yaml site.pdf --merge-only --work-dir ./work`,
		Args:          requireConfigAndOutput,
		RunE:          runRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.Flags()
	f.BoolP("verbose", "v", false, "Enable debug logging")
	f.String("work-dir", "", "Directory holding per-page PDFs (overrides work_dir)")
	f.Int("workers", 0, "Pages processed concurrently (overrides workers)")
	f.String("renderer", "", "Renderer: chrome or basic (overrides renderer)")
	f.String("chrome-bin", "", "Chrome/Chromium binary (default: found or downloaded)")
	f.Bool("no-sandbox", false, "Run Chrome without its sandbox (needed as root in containers)")
	f.Bool("merge-only", false, "Skip the crawl and merge the PDFs already in the working directory")
	f.Bool("no-merge", false, "Crawl only; leave the page PDFs unmerged")
	cmd.MarkFlagsMutuallyExclusive("merge-only", "no-merge")

	return cmd
}

// requireConfigAndOutput prints usage to stdout when fewer than two
// positional arguments are given. Extra arguments are ignored.
func requireConfigAndOutput(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
		return core.ErrUsage
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		// Usage has already been printed.
		if !errors.Is(err, core.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
