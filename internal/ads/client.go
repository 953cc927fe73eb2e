package ads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the ADS API base URL.
	BaseURL = "https://api.adsabs.harvard.edu/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit keeps well under the per-second burst ADS tolerates.
	RateLimit = 5.0

	// DefaultRows is the page size for library queries (ADS maximum).
	DefaultRows = 2000

	// DefaultFields are the fields requested for metric calculation.
	DefaultFields = "id,bibcode,title,author,year,citation_count,read_count,downloads"

	// RefereedFilter keeps both refereed and non-refereed records.
	RefereedFilter = "property:refereed OR property:notrefereed"
)

// Client is a rate-limited HTTP client for the ADS API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	token      string
	baseURL    string
	rows       int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the API token for authenticated requests.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
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

// WithRows sets the page size used when paging through a library.
func WithRows(rows int) ClientOption {
	return func(c *Client) {
		if rows > 0 {
			c.rows = rows
		}
	}
}

// NewClient creates a new ADS API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		rows:       DefaultRows,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasToken reports whether the client was configured with a token.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
	}
	return nil
}

// do sends a request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if c.token == "" {
		return fmt.Errorf("%w: no API token configured", ErrAuthError)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrInvalidResponse, err)
	}
	return nil
}

// Search runs one page of a search query.
func (c *Client) Search(ctx context.Context, q, fields string, start int) (*SearchResponse, error) {
	if fields == "" {
		fields = DefaultFields
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("fl", fields)
	params.Set("fq", RefereedFilter)
	params.Set("rows", strconv.Itoa(c.rows))
	params.Set("start", strconv.Itoa(start))

	var resp SearchResponse
	if err := c.do(ctx, http.MethodGet, "/search/query", params, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LibraryDocs returns every record in a library, paging until numFound is reached.
func (c *Client) LibraryDocs(ctx context.Context, libraryID string) ([]Doc, error) {
	q := fmt.Sprintf("docs(library/%s)", libraryID)

	var docs []Doc
	for {
		resp, err := c.Search(ctx, q, DefaultFields, len(docs))
		if err != nil {
			return nil, err
		}
		docs = append(docs, resp.Response.Docs...)

		// An empty page means the server has nothing more even if numFound disagrees
		if len(resp.Response.Docs) == 0 || len(docs) >= resp.Response.NumFound {
			break
		}
	}
	return docs, nil
}

// LibraryBibcodes returns the bibcodes of every record in a library, in ADS order.
func (c *Client) LibraryBibcodes(ctx context.Context, libraryID string) ([]string, error) {
	docs, err := c.LibraryDocs(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Bibcode != "" {
			codes = append(codes, d.Bibcode)
		}
	}
	return codes, nil
}

// ExportAASTeX returns the AASTeX-formatted export of the given records.
func (c *Client) ExportAASTeX(ctx context.Context, bibcodes []string) (string, error) {
	if len(bibcodes) == 0 {
		return "", nil
	}

	var resp exportResponse
	req := exportRequest{Bibcode: bibcodes, Sort: []string{"date desc"}}
	if err := c.do(ctx, http.MethodPost, "/export/aastex", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Export, nil
}
