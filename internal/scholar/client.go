package scholar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/bibmetrics/internal/metrics"
)

const (
	// BaseURL is the Google Scholar base URL.
	BaseURL = "https://scholar.google.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// PageSize is the largest page Scholar serves for a profile.
	PageSize = 100

	// DefaultMaxPages bounds how many pages are crawled for one profile.
	DefaultMaxPages = 10

	// userAgent identifies the crawler; Scholar rejects empty agents.
	userAgent = "Mozilla/5.0 (compatible; bibmetrics/1.0)"
)

// Client crawls Scholar profile pages at a polite rate.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	maxPages   int
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
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithMaxPages bounds the number of pages fetched per profile.
func WithMaxPages(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
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

// NewClient creates a new Scholar client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 1),
		baseURL:    BaseURL,
		maxPages:   DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetchPage retrieves and parses one page of a profile starting at cstart.
func (c *Client) fetchPage(ctx context.Context, user string, cstart int) (*Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("user", user)
	params.Set("hl", "en")
	params.Set("cstart", strconv.Itoa(cstart))
	params.Set("pagesize", strconv.Itoa(PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/citations?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Success
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, user)
	case http.StatusTooManyRequests, http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrBlocked, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	return ParseProfilePage(resp.Body)
}

// ProfileWorks crawls every page of a profile, stopping at the first short page.
func (c *Client) ProfileWorks(ctx context.Context, user string) ([]metrics.Work, error) {
	var works []metrics.Work
	for page := 0; page < c.maxPages; page++ {
		p, err := c.fetchPage(ctx, user, page*PageSize)
		if err != nil {
			return nil, err
		}
		works = append(works, p.Works...)
		if len(p.Works) < PageSize {
			return works, nil
		}
	}
	return works, nil
}
