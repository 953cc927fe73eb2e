package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Semantic Scholar Graph API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 1 request per second for keyed access; anonymous access
	// shares a pool, so the same pace is used for both.
	RateLimit = 1.0

	// AuthorPaperFields are the fields requested for each paper.
	AuthorPaperFields = "title,year,venue,citationCount,authors"

	// AuthorPapersPageSize is the largest page the endpoint serves.
	AuthorPapersPageSize = 1000
)

// Client is a rate-limited HTTP client for the Semantic Scholar Graph API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithRateLimit overrides the request rate (requests per second).
// Non-positive rates keep the default.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewClient creates a new Semantic Scholar client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// authorPapersPage fetches one page of an author's papers.
func (c *Client) authorPapersPage(ctx context.Context, authorID string, offset int) (*AuthorPapersResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("fields", AuthorPaperFields)
	params.Set("limit", strconv.Itoa(AuthorPapersPageSize))
	params.Set("offset", strconv.Itoa(offset))
	endpoint := fmt.Sprintf("%s/author/%s/papers?%s", c.baseURL, url.PathEscape(authorID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Success
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: author %s", ErrNotFound, authorID)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	default:
		return nil, &APIError{StatusCode: resp.StatusCode, AuthorID: authorID}
	}

	var page AuthorPapersResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decoding author papers: %v", ErrInvalidResponse, err)
	}
	return &page, nil
}

// AuthorPapers fetches every paper of an author, following the next offset.
func (c *Client) AuthorPapers(ctx context.Context, authorID string) ([]S2Paper, error) {
	var papers []S2Paper
	offset := 0
	for {
		page, err := c.authorPapersPage(ctx, authorID, offset)
		if err != nil {
			return nil, err
		}
		papers = append(papers, page.Data...)
		if page.Next == nil || *page.Next <= offset || len(page.Data) == 0 {
			return papers, nil
		}
		offset = *page.Next
	}
}
