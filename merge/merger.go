// Package merge concatenates the per-page PDFs of a working directory into
// one document. Inputs are taken in ascending lexicographic filename order,
// which equals crawl order because page files carry a zero-padded sequence
// prefix. Unlike the crawl phase, every failure here is returned.
package merge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gaurav-prasanna/sitepdf/core"
	"github.com/gaurav-prasanna/sitepdf/core/output"
)

// ErrNoInputs is wrapped in a MergeError when the working directory holds
// no PDF files.
var ErrNoInputs = errors.New("no PDF files to merge")

// Joiner writes the concatenation of inputs, in order, to out.
type Joiner interface {
	Join(inputs []string, out string) error
}

// Merger lists, orders and joins page PDFs.
type Merger struct {
	joiner Joiner
	logger *slog.Logger
}

// New creates a Merger backed by joiner.
func New(joiner Joiner, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{joiner: joiner, logger: logger}
}

// Inputs returns the PDF files of dir sorted by name. Subdirectories and
// files without the .pdf suffix are ignored.
func Inputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &core.MergeError{Path: dir, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), output.Extension) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// Merge joins every PDF in dir into out and returns the inputs used.
// A previous output living inside dir is not fed back into the merge.
func (m *Merger) Merge(ctx context.Context, dir, out string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &core.MergeError{Path: out, Err: err}
	}

	inputs, err := Inputs(dir)
	if errors.Is(err, fs.ErrNotExist) {
		// Nothing was ever rendered into it.
		return nil, &core.MergeError{Path: dir, Err: fmt.Errorf("%w: %w", ErrNoInputs, err)}
	}
	if err != nil {
		return nil, err
	}
	inputs = without(inputs, out)
	if len(inputs) == 0 {
		return nil, &core.MergeError{Path: dir, Err: ErrNoInputs}
	}

	if parent := filepath.Dir(out); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, &core.MergeError{Path: out, Err: fmt.Errorf("creating directory %s: %w", parent, err)}
		}
	}

	for _, in := range inputs {
		m.logger.Debug("merge input", "path", in)
	}

	if err := m.joiner.Join(inputs, out); err != nil {
		var me *core.MergeError
		if errors.As(err, &me) {
			return nil, err
		}
		return nil, &core.MergeError{Path: out, Err: err}
	}

	m.logger.Info("merged", "pages", len(inputs), "output", out)
	return inputs, nil
}

func without(paths []string, target string) []string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return paths
	}
	kept := paths[:0]
	for _, p := range paths {
		if pa, err := filepath.Abs(p); err == nil && pa == abs {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
