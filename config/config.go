package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gaurav-prasanna/sitepdf/core"
	"github.com/gaurav-prasanna/sitepdf/core/render"
)

// Renderer names accepted in the renderer field.
const (
	RendererChrome = "chrome"
	RendererBasic  = "basic"
)

// Default configuration values.
const (
	// DefaultWorkDir is where per-page PDFs accumulate before the merge.
	DefaultWorkDir = "./work"

	// DefaultWorkers of 1 processes one page completely before the next is popped.
	DefaultWorkers = 1

	// DefaultTimeout bounds a single page or stylesheet fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies sitepdf in HTTP requests.
	DefaultUserAgent = "sitepdf/1.0 (+https://github.com/gaurav-prasanna/sitepdf)"

	DefaultRenderer = RendererChrome
)

// Config is the configuration document.
type Config struct {
	// StartURL seeds the crawl. It is subject to the allow-list like every
	// other URL.
	StartURL string `yaml:"start_url"`

	// AllowedURLs are the URL prefixes bounding the crawl, matched as plain
	// string prefixes.
	AllowedURLs []string `yaml:"allowed_urls"`

	// PDFOptions is passed unchanged to the renderer.
	PDFOptions core.Options `yaml:"pdf_option"`

	Renderer  string        `yaml:"renderer"`
	WorkDir   string        `yaml:"work_dir"`
	Workers   int           `yaml:"workers"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		PDFOptions: core.Options{},
		Renderer:   DefaultRenderer,
		WorkDir:    DefaultWorkDir,
		Workers:    DefaultWorkers,
		UserAgent:  DefaultUserAgent,
		Timeout:    DefaultTimeout,
	}
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StartURL) == "" {
		return ErrNoStartURL
	}
	u, err := url.Parse(c.StartURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidStartURL, c.StartURL)
	}
	if len(c.AllowedURLs) == 0 {
		return ErrNoAllowedURLs
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	var checkOptions func(core.Options) error
	switch c.Renderer {
	case RendererChrome:
		checkOptions = render.ValidateChromeOptions
	case RendererBasic:
		checkOptions = render.ValidateBasicOptions
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRenderer, c.Renderer)
	}
	if err := checkOptions(c.PDFOptions); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPDFOption, err)
	}
	return nil
}
