// Package crawl: URL rules.
// Allow-list filtering, fragment stripping, and the host-relative join used
// for both anchors and stylesheet links.
package crawl

import (
	"net/url"
	"strings"
)

// AllowList is an ordered set of URL prefixes bounding the crawl.
type AllowList []string

// Allows reports whether rawURL starts with at least one prefix. The match
// is a plain string prefix; it is not aware of path boundaries.
func (a AllowList) Allows(rawURL string) bool {
	for _, prefix := range a {
		if strings.HasPrefix(rawURL, prefix) {
			return true
		}
	}
	return false
}

// NormalizeURL strips the fragment. Nothing else is touched: trailing
// slashes, case and query strings are part of a URL's identity here.
func NormalizeURL(rawURL string) string {
	base, _, _ := strings.Cut(rawURL, "#")
	return base
}

// Origin holds the scheme and host of the page being processed.
type Origin struct {
	Scheme string
	Host   string
}

// ParseOrigin extracts scheme and network location from a page URL.
func ParseOrigin(rawURL string) (Origin, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Origin{}, err
	}
	return Origin{Scheme: u.Scheme, Host: u.Host}, nil
}

// Join concatenates ref directly onto scheme://host. ref is not resolved:
// absolute or protocol-relative refs produce malformed URLs, which then
// fail the allow-list or the fetch.
func (o Origin) Join(ref string) string {
	return o.Scheme + "://" + o.Host + ref
}
