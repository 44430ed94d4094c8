package merge

import (
	"github.com/gaurav-prasanna/sitepdf/core"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPUJoiner merges documents with pdfcpu.
type PDFCPUJoiner struct {
	conf *model.Configuration
}

// NewPDFCPUJoiner creates a joiner using pdfcpu's default configuration
// (relaxed validation).
func NewPDFCPUJoiner() *PDFCPUJoiner {
	return &PDFCPUJoiner{conf: model.NewDefaultConfiguration()}
}

// Join validates each input, so an unreadable source is reported by name,
// then writes their concatenation to out.
func (j *PDFCPUJoiner) Join(inputs []string, out string) error {
	for _, in := range inputs {
		if err := api.ValidateFile(in, j.conf); err != nil {
			return &core.MergeError{Path: in, Err: err}
		}
	}
	if err := api.MergeCreateFile(inputs, out, false, j.conf); err != nil {
		return &core.MergeError{Path: out, Err: err}
	}
	return nil
}

// PageCount returns the number of pages of the PDF at path.
func PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}
