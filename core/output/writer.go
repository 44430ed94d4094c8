// Package output handles per-page file naming and writing.
// Every rendered page lands in the working directory as
// {seq:03d}_{host}.pdf; the zero padding keeps lexicographic order equal
// to numeric order for the merge stage.
package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// Extension is the suffix of every rendered page file.
const Extension = ".pdf"

// Writer writes rendered pages to the working directory.
type Writer struct {
	Dir string
}

// New creates a Writer targeting dir. The directory is created lazily,
// before the first page is rendered.
func New(dir string) *Writer {
	return &Writer{Dir: dir}
}

// PagePath returns the output path for a sequence number and host.
// Two pages of the same host differ only by seq; no collision check is made.
func (w *Writer) PagePath(seq int64, host string) string {
	return filepath.Join(w.Dir, FileName(seq, host))
}

// FileName formats {seq:03d}_{host}.pdf.
func FileName(seq int64, host string) string {
	return fmt.Sprintf("%03d_%s%s", seq, host, Extension)
}

// EnsureDir creates the parent directory of path if it is missing.
func (w *Writer) EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// Write stores data at path, creating the parent directory if missing.
func (w *Writer) Write(path string, data []byte) error {
	if err := w.EnsureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}
