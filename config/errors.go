package config

import "errors"

// ErrConfigNotFound is returned by Load when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoStartURL is returned when start_url is empty.
	ErrNoStartURL = errors.New("no start URL: set start_url")

	// ErrInvalidStartURL is returned when start_url lacks a scheme or host.
	ErrInvalidStartURL = errors.New("invalid start URL: must be absolute with scheme and host")

	// ErrNoAllowedURLs is returned when allowed_urls is empty. Without at
	// least one prefix nothing, not even the start URL, would be crawled.
	ErrNoAllowedURLs = errors.New("no allowed URLs: set at least one prefix in allowed_urls")

	// ErrInvalidWorkers is returned when workers is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidPDFOption is returned when pdf_option holds a value the
	// selected renderer rejects, such as an unknown page-size.
	ErrInvalidPDFOption = errors.New("invalid pdf_option")

	// ErrUnknownRenderer is returned for a renderer other than chrome or basic.
	ErrUnknownRenderer = errors.New("unknown renderer: must be chrome or basic")
)
