// Package render: basic PDF renderer.
// Converts markup to Markdown and lays it out with gofpdf. Handles headings
// (variable font sizes), paragraphs, code blocks, and lists. It needs no
// browser, so stylesheets and images are not rendered.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/sitepdf/core"
	"github.com/jung-kurt/gofpdf"
)

// Normalizer converts HTML to Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// BasicRenderer renders markup as a plain text PDF document.
type BasicRenderer struct {
	normalizer Normalizer
}

// NewBasicRenderer creates a BasicRenderer using the given normalizer.
func NewBasicRenderer(n Normalizer) *BasicRenderer {
	return &BasicRenderer{normalizer: n}
}

var (
	numberedItemRegex = regexp.MustCompile(`^\d+\.\s`)
	italicRegex       = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCodeRegex   = regexp.MustCompile("`([^`]+)`")
	linkSyntaxRegex   = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// Render converts markup into PDF bytes.
func (r *BasicRenderer) Render(ctx context.Context, markup string, opts core.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	setup, err := pageSetup(opts)
	if err != nil {
		return nil, err
	}

	markdown, err := r.normalizer.Normalize(markup)
	if err != nil {
		return nil, err
	}

	orientation := "P"
	if setup.Landscape {
		orientation = "L"
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: setup.Width * mmPerInch, Ht: setup.Height * mmPerInch},
	})
	pdf.SetMargins(setup.Margins.Left*mmPerInch, setup.Margins.Top*mmPerInch, setup.Margins.Right*mmPerInch)
	pdf.SetAutoPageBreak(true, setup.Margins.Bottom*mmPerInch)
	pdf.AddPage()

	// Core fonts are cp1252; translate so accented text survives.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	lines := strings.Split(markdown, "\n")
	inCodeBlock := false

	for _, line := range lines {
		// Toggle code block state.
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}

		if inCodeBlock {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(line), "", "L", true)
			continue
		}

		if strings.TrimSpace(line) == "" {
			pdf.Ln(3)
			continue
		}

		if strings.HasPrefix(line, "#") {
			level := 0
			for _, ch := range line {
				if ch != '#' {
					break
				}
				level++
			}
			text := strings.TrimSpace(strings.TrimLeft(line, "# "))
			renderHeading(pdf, tr(text), level)
			continue
		}

		trimmed := strings.TrimSpace(line)
		pdf.SetFont("Helvetica", "", 10)
		switch {
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			text := "- " + cleanInlineMarkdown(trimmed[2:])
			pdf.MultiCell(0, 5, tr(text), "", "L", false)
		case numberedItemRegex.MatchString(trimmed):
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(trimmed)), "", "L", false)
		default:
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(line)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, cleanInlineMarkdown(text), "", "L", false)
	pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	// Italic markers only when delimited by whitespace, so don't/can't survive.
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = linkSyntaxRegex.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
