// Package tokenlink finds token page links in free-form chat text.
package tokenlink

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultSiteURL is the site whose token pages are recognised by Extract.
const DefaultSiteURL = "https://odin.fun"

var defaultExtractor = MustNew(DefaultSiteURL)

// Extractor matches links of the form {siteURL}/token/{id}.
type Extractor struct {
	pattern *regexp.Regexp
}

// New builds an Extractor for siteURL (scheme and host, no trailing path).
func New(siteURL string) (*Extractor, error) {
	siteURL = strings.TrimRight(siteURL, "/")
	if siteURL == "" {
		return nil, fmt.Errorf("site url is empty")
	}
	re, err := regexp.Compile(regexp.QuoteMeta(siteURL) + `/token/([a-zA-Z0-9]+)`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile token link pattern: %w", err)
	}
	return &Extractor{pattern: re}, nil
}

// MustNew is New that panics on error. For package-level defaults only.
func MustNew(siteURL string) *Extractor {
	e, err := New(siteURL)
	if err != nil {
		panic(err)
	}
	return e
}

// Extract returns the token id of the first link in text.
// The id is not validated against the remote API.
func (e *Extractor) Extract(text string) (string, bool) {
	m := e.pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Extract uses the default site URL.
func Extract(text string) (string, bool) {
	return defaultExtractor.Extract(text)
}
