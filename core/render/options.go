// Package render provides the Renderer adapters.
// This file turns the wkhtmltopdf-style pdf_option bag into page geometry
// shared by both renderers.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/sitepdf/core"
)

// Option keys understood by the renderers.
const (
	keyPageSize     = "page-size"
	keyPageWidth    = "page-width"
	keyPageHeight   = "page-height"
	keyOrientation  = "orientation"
	keyMarginTop    = "margin-top"
	keyMarginRight  = "margin-right"
	keyMarginBottom = "margin-bottom"
	keyMarginLeft   = "margin-left"
	keyZoom         = "zoom"
	keyNoBackground = "no-background"
	keyCustomHeader = "custom-header"
	keyCookie       = "cookie"
	keyHeaderCenter = "header-center"
	keyFooterCenter = "footer-center"
)

// paperSizes holds the QPrinter page sizes wkhtmltopdf accepts, in inches,
// portrait except Ledger which Qt defines as landscape.
var paperSizes = map[string][2]float64{
	"a0":        {33.11, 46.81},
	"a1":        {23.39, 33.11},
	"a2":        {16.54, 23.39},
	"a3":        {11.69, 16.54},
	"a4":        {8.27, 11.69},
	"a5":        {5.83, 8.27},
	"a6":        {4.13, 5.83},
	"a7":        {2.91, 4.13},
	"a8":        {2.05, 2.91},
	"a9":        {1.46, 2.05},
	"b0":        {39.37, 55.67},
	"b1":        {27.83, 39.37},
	"b2":        {19.69, 27.83},
	"b3":        {13.90, 19.69},
	"b4":        {9.84, 13.90},
	"b5":        {6.93, 9.84},
	"b6":        {4.92, 6.93},
	"b7":        {3.46, 4.92},
	"b8":        {2.44, 3.46},
	"b9":        {1.73, 2.44},
	"b10":       {1.22, 1.73},
	"c5e":       {6.42, 9.02},
	"comm10e":   {4.13, 9.5},
	"dle":       {4.33, 8.66},
	"executive": {7.5, 10},
	"folio":     {8.27, 12.99},
	"ledger":    {17, 11},
	"legal":     {8.5, 14},
	"letter":    {8.5, 11},
	"tabloid":   {11, 17},
}

// defaultMargin matches wkhtmltopdf's 10mm.
const defaultMargin = 10 / mmPerInch

const (
	mmPerInch = 25.4
	pxPerInch = 96.0
	ptPerInch = 72.0
)

// Margins are page margins in inches.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// PageSetup is the portrait paper size (inches), orientation and margins.
type PageSetup struct {
	Width     float64
	Height    float64
	Landscape bool
	Margins   Margins
}

// pageSetup reads page-size / page-width / page-height, orientation and
// the four margins. Missing keys fall back to A4 portrait with 10mm margins.
func pageSetup(opts core.Options) (PageSetup, error) {
	a4 := paperSizes["a4"]
	setup := PageSetup{
		Width:  a4[0],
		Height: a4[1],
		Margins: Margins{
			Top: defaultMargin, Right: defaultMargin, Bottom: defaultMargin, Left: defaultMargin,
		},
	}

	if name, ok := opts.String(keyPageSize); ok {
		size, found := paperSizes[strings.ToLower(name)]
		if !found {
			return PageSetup{}, fmt.Errorf("unsupported %s %q", keyPageSize, name)
		}
		setup.Width, setup.Height = size[0], size[1]
	}

	for key, dst := range map[string]*float64{keyPageWidth: &setup.Width, keyPageHeight: &setup.Height} {
		raw, ok := opts.String(key)
		if !ok {
			continue
		}
		v, err := parseLength(raw)
		if err != nil {
			return PageSetup{}, fmt.Errorf("%s: %w", key, err)
		}
		if v <= 0 {
			return PageSetup{}, fmt.Errorf("%s must be positive, got %q", key, raw)
		}
		*dst = v
	}

	if o, ok := opts.String(keyOrientation); ok {
		switch strings.ToLower(o) {
		case "portrait":
		case "landscape":
			setup.Landscape = true
		default:
			return PageSetup{}, fmt.Errorf("unsupported %s %q", keyOrientation, o)
		}
	}

	margins := []struct {
		key string
		dst *float64
	}{
		{keyMarginTop, &setup.Margins.Top},
		{keyMarginRight, &setup.Margins.Right},
		{keyMarginBottom, &setup.Margins.Bottom},
		{keyMarginLeft, &setup.Margins.Left},
	}
	for _, m := range margins {
		raw, ok := opts.String(m.key)
		if !ok {
			continue
		}
		v, err := parseLength(raw)
		if err != nil {
			return PageSetup{}, fmt.Errorf("%s: %w", m.key, err)
		}
		if v < 0 {
			return PageSetup{}, fmt.Errorf("%s must not be negative, got %q", m.key, raw)
		}
		*m.dst = v
	}

	return setup, nil
}

// ValidateBasicOptions reports option values BasicRenderer would reject.
func ValidateBasicOptions(opts core.Options) error {
	_, err := pageSetup(opts)
	return err
}

// ValidateChromeOptions reports option values ChromeRenderer would reject.
func ValidateChromeOptions(opts core.Options) error {
	if _, err := printRequest(opts); err != nil {
		return err
	}
	_, err := extraHeaders(opts)
	return err
}

// parseLength converts "0.75in", "2cm", "10mm", "96px" or "12pt" to inches.
// A bare number is millimetres, as in wkhtmltopdf.
func parseLength(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	units := []struct {
		suffix string
		perIn  float64
	}{
		{"in", 1},
		{"cm", mmPerInch / 10},
		{"mm", mmPerInch},
		{"px", pxPerInch},
		{"pt", ptPerInch},
	}

	perIn := mmPerInch
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			perIn = u.perIn
			break
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return v / perIn, nil
}
