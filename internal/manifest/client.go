package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultUserAgent = "vitrine/0.1"
	requestTimeout   = 5 * time.Second
	maxManifestBytes = 4 << 20
)

// Fetcher retrieves a manifest. It is implemented by *Client and can be
// replaced in tests.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]string, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client loads manifests from URLs or local files.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient returns a Client with the default timeout and user agent.
func NewClient() *Client {
	return &Client{
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
	}
}

// Fetch loads the manifest at source. Sources starting with http:// or
// https:// are requested over HTTP; anything else is read from disk.
func (c *Client) Fetch(ctx context.Context, source string) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("manifest source is empty")
	}
	if IsURL(source) {
		return c.fetchURL(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

func (c *Client) fetchURL(ctx context.Context, rawURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("manifest %s returned status %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return Parse(data)
}

// Load fetches the manifest at source with a default client.
func Load(ctx context.Context, source string) ([]string, error) {
	return NewClient().Fetch(ctx, source)
}

// IsURL reports whether source is an http or https URL, ignoring case.
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
