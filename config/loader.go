package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gaurav-prasanna/sitepdf/core"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration document at path on top of NewConfig's
// defaults. It does not validate; call Validate once flags are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a configuration document.
func Parse(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.PDFOptions == nil {
		cfg.PDFOptions = core.Options{}
	}
	return cfg, nil
}
