package core

import (
	"errors"
	"fmt"
)

// ErrUsage is returned when the command is invoked with missing arguments.
var ErrUsage = errors.New("usage: sitepdf <config.yaml> <output.pdf>")

// FetchError reports a page or stylesheet that could not be retrieved.
// StatusCode is zero for transport failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StyleFetchError reports a stylesheet link that was skipped.
// Link is the href as written in the page, URL the address actually requested.
type StyleFetchError struct {
	Link string
	URL  string
	Err  error
}

func (e *StyleFetchError) Error() string {
	return fmt.Sprintf("stylesheet %s (%s): %v", e.Link, e.URL, e.Err)
}

func (e *StyleFetchError) Unwrap() error { return e.Err }

// RenderError reports a page whose PDF could not be produced or written.
type RenderError struct {
	URL  string
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s -> %s: %v", e.URL, e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// MergeError reports a failed merge. Path is the offending file, which is
// either a source PDF or the output document.
type MergeError struct {
	Path string
	Err  error
}

func (e *MergeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("merge: %v", e.Err)
	}
	return fmt.Sprintf("merge %s: %v", e.Path, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }
