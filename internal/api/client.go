package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://www.reddit.com"
	requestTimeout = 10 * time.Second
	userAgent      = "lurker/1.0 (terminal reddit browser)"
)

// Client is the reddit JSON API client. Only the unauthenticated read
// endpoints are used.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a new reddit API client.
func NewClient() *Client {
	return &Client{
		http: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: defaultBaseURL,
	}
}

// NewClientWithBase creates a client against a non-default endpoint.
// Used by tests against httptest servers.
func NewClientWithBase(base string) *Client {
	c := NewClient()
	c.baseURL = base
	return c
}

// get fetches a URL and decodes the JSON response into dst.
func (c *Client) get(ctx context.Context, url string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// getBytes fetches a URL and returns the raw response body, for payloads
// that get cached verbatim before decoding.
func (c *Client) getBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// listingURL builds /r/<sub>/<sort>.json?limit=N&after=tok. The pseudo
// subreddit "front" maps to the site root, i.e. the logged-out front page.
func (c *Client) listingURL(subreddit string, sort SortOrder, limit int, after string) string {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("raw_json", "1")
	if after != "" {
		q.Set("after", after)
	}
	if subreddit == "" || subreddit == "front" {
		return fmt.Sprintf("%s/%s.json?%s", c.baseURL, sort, q.Encode())
	}
	return fmt.Sprintf("%s/r/%s/%s.json?%s", c.baseURL, url.PathEscape(subreddit), sort, q.Encode())
}
