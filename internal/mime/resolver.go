// Package mime maps an external link to the content type a viewer needs,
// possibly fetching and scraping the landing page to find the real resource.
package mime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

// ErrResolution wraps a network or scrape failure inside the chosen
// handler. The caller treats it like "no handler matched" and falls back to
// the browser.
var ErrResolution = errors.New("resolution failed")

// Handler pairs a URL pattern with a resolution strategy. The table is a
// closed set tried in priority order; the first match is used exclusively.
type Handler struct {
	Name    string
	Pattern *regexp.Regexp
	Resolve func(ctx context.Context, r *Resolver, url string) (string, string, error)
}

// Resolver resolves URLs against an ordered handler chain. It keeps no
// state between calls; the http client exists for the handlers that need a
// live fetch.
type Resolver struct {
	http     *http.Client
	handlers []Handler
}

// New creates a resolver with the default handler chain.
func New() *Resolver {
	return &Resolver{
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		handlers: defaultHandlers(),
	}
}

// NewWithClient creates a resolver using the given http client. Used by
// tests against httptest servers.
func NewWithClient(c *http.Client) *Resolver {
	return &Resolver{http: c, handlers: defaultHandlers()}
}

// Resolve returns the effective URL and its content type. An empty content
// type means no specific viewer applies and the link should open in the
// browser. The first handler whose pattern matches is authoritative: its
// failure surfaces as ErrResolution and later handlers are never consulted.
func (r *Resolver) Resolve(ctx context.Context, url string) (string, string, error) {
	for _, h := range r.handlers {
		if !h.Pattern.MatchString(url) {
			continue
		}
		effective, ctype, err := h.Resolve(ctx, r, url)
		if err != nil {
			return url, "", fmt.Errorf("%w: %s: %v", ErrResolution, h.Name, err)
		}
		return effective, ctype, nil
	}
	return url, "", nil
}
