// Package arxiv provides a rate-limited client for the arXiv export API.
package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/paperscope/internal/paper"
)

const (
	// BaseURL is the arXiv export API query endpoint.
	BaseURL = "http://export.arxiv.org/api/query"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxResults is the default number of papers requested per fetch.
	DefaultMaxResults = 10

	// DefaultCategory is the default category filter for topic queries.
	DefaultCategory = "physics*"

	// requestInterval is the minimum spacing between requests. The arXiv
	// API terms of use ask for no more than one request every three seconds.
	requestInterval = 3 * time.Second
)

// Client is a rate-limited HTTP client for the arXiv export API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	category   string
	maxResults int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCategory sets the arXiv category filter. An empty category disables
// the filter.
func WithCategory(category string) ClientOption {
	return func(c *Client) {
		c.category = category
	}
}

// WithMaxResults sets the number of papers requested per fetch.
func WithMaxResults(n int) ClientOption {
	return func(c *Client) {
		c.maxResults = n
	}
}

// NewClient creates a new arXiv export API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(requestInterval), 1),
		baseURL:    BaseURL,
		category:   DefaultCategory,
		maxResults: DefaultMaxResults,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch queries arXiv for papers matching the topic. Feed entries missing
// an id, title, or abstract are dropped, not surfaced. An empty result is
// not an error.
func (c *Client) Fetch(ctx context.Context, topic string) ([]paper.Paper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	search := "all:" + topic
	if c.category != "" {
		search += " AND cat:" + c.category
	}

	params := url.Values{}
	params.Set("search_query", search)
	params.Set("max_results", strconv.Itoa(c.maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 || resp.StatusCode == 503 {
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	papers, err := parseFeed(resp.Body)
	if err != nil {
		return nil, err
	}

	return papers, nil
}
