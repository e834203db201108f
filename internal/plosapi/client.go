// Package plosapi talks to the remote index and document servers: a
// Solr-style search API for identifier discovery and per-journal
// document URLs for XML retrieval.
package plosapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/PLOS/allofplos-sub000/internal/doi"
)

const (
	// SearchURL is the default search API endpoint.
	SearchURL = "https://api.plos.org/search"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit is the default request rate in requests per second,
	// respecting the remote service's published limits.
	RateLimit = 10.0

	// DefaultRows is the page size for search pagination.
	DefaultRows = 100
)

// Client is a rate-limited HTTP client for the remote index.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	searchURL  string
	docBaseURL string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSearchURL sets a custom search endpoint (for testing).
func WithSearchURL(u string) ClientOption {
	return func(c *Client) {
		c.searchURL = u
	}
}

// WithDocBaseURL overrides the per-journal document base URL (for
// testing).
func WithDocBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.docBaseURL = u
	}
}

// WithRateLimit sets the request rate in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new remote index client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		searchURL:  SearchURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query describes one search of the remote index.
type Query struct {
	// Terms is the q parameter; defaults to everything.
	Terms string

	// StartDate/EndDate bound the publication date range (inclusive).
	// Zero values leave the corresponding bound open.
	StartDate time.Time
	EndDate   time.Time

	// ArticleTypes filters on document type when non-empty.
	ArticleTypes []string

	// Rows is the page size; DefaultRows when zero.
	Rows int
}

// searchResponse mirrors the Solr JSON envelope.
type searchResponse struct {
	Response struct {
		NumFound int `json:"numFound"`
		Docs     []struct {
			ID string `json:"id"`
		} `json:"docs"`
	} `json:"response"`
}

// Search pages through the remote index, returning every matching
// identifier. The caller-side pagination contract: request start/rows,
// read numFound, loop until start >= numFound.
func (c *Client) Search(ctx context.Context, q Query) ([]string, error) {
	rows := q.Rows
	if rows <= 0 {
		rows = DefaultRows
	}

	var dois []string
	for start := 0; ; start += rows {
		page, numFound, err := c.searchPage(ctx, q, start, rows)
		if err != nil {
			return nil, err
		}
		dois = append(dois, page...)
		if start+rows >= numFound || len(page) == 0 {
			break
		}
	}
	return dois, nil
}

// searchPage fetches one page of search results.
func (c *Client) searchPage(ctx context.Context, q Query, start, rows int) ([]string, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", searchTerms(q))
	if fq := filterQuery(q); fq != "" {
		params.Set("fq", fq)
	}
	params.Set("fl", "id")
	params.Set("wt", "json")
	params.Set("start", strconv.Itoa(start))
	params.Set("rows", strconv.Itoa(rows))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, &APIError{StatusCode: resp.StatusCode}
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, 0, fmt.Errorf("%w: parsing search page: %v", ErrInvalidResponse, err)
	}

	page := make([]string, 0, len(sr.Response.Docs))
	for _, d := range sr.Response.Docs {
		page = append(page, d.ID)
	}
	return page, sr.Response.NumFound, nil
}

// searchTerms builds the q parameter.
func searchTerms(q Query) string {
	if q.Terms == "" {
		return "*:*"
	}
	return q.Terms
}

// filterQuery builds the fq parameter from the date range and type
// filter.
func filterQuery(q Query) string {
	var parts []string
	if !q.StartDate.IsZero() || !q.EndDate.IsZero() {
		lo, hi := "*", "*"
		if !q.StartDate.IsZero() {
			lo = q.StartDate.UTC().Format(time.RFC3339)
		}
		if !q.EndDate.IsZero() {
			hi = q.EndDate.UTC().Format(time.RFC3339)
		}
		parts = append(parts, fmt.Sprintf("publication_date:[%s TO %s]", lo, hi))
	}
	for _, t := range q.ArticleTypes {
		parts = append(parts, fmt.Sprintf("article_type:%q", t))
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " AND " + p
	}
	return out
}

// FetchArticle downloads one document's XML verbatim. Non-2xx statuses
// surface as an APIError carrying the identifier, so batch callers can
// continue with the rest of their queue.
func (c *Client) FetchArticle(ctx context.Context, d string) ([]byte, error) {
	articleURL, err := c.articleURL(d)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, DOI: d}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}
	return data, nil
}

// articleURL resolves the document URL, honoring a test override.
// A journal-table miss still yields a usable URL; the condition is not
// fatal to the fetch.
func (c *Client) articleURL(d string) (string, error) {
	if c.docBaseURL != "" {
		if err := doi.Validate(d); err != nil {
			return "", err
		}
		return c.docBaseURL + "?id=" + url.QueryEscape(d), nil
	}
	u, err := doi.ToURL(d)
	if err != nil && !errors.Is(err, doi.ErrUnknownJournal) {
		return "", err
	}
	return u, nil
}
