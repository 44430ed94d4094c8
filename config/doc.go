// Package config provides the configuration document for sitepdf: where the
// crawl starts, which URL prefixes bound it, and the renderer options passed
// through to each page's PDF.
package config
