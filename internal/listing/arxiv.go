// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/daily-scholar/internal/httputil"
	"github.com/pdiddy/daily-scholar/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Client pages through the arXiv API for one category, sorted by
// submission date descending. It paces consecutive page requests with a
// rate limiter and retries transient failures.
type Client struct {
	cfg     types.ListingConfig
	http    *http.Client
	limiter *rate.Limiter
	start   int
}

// NewClient builds a listing client. A nil httpClient falls back to a
// client with the configured timeout.
func NewClient(cfg types.ListingConfig, httpClient *http.Client) *Client {
	if cfg.Category == "" {
		cfg.Category = "cs.AI"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// The first page may proceed immediately; the delay applies between
	// consecutive pages.
	limit := rate.Inf
	if cfg.PageDelay > 0 {
		limit = rate.Every(cfg.PageDelay)
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Next fetches the next listing page. It returns ErrEndOfResults when the
// source returns an empty page, which arXiv does both at the true end of
// results and, occasionally, mid-stream; either way pagination is over.
func (c *Client) Next(ctx context.Context) ([]types.PaperRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s?search_query=cat:%s&start=%d&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, c.cfg.Category, c.start, c.cfg.PageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	if len(feed.Entries) == 0 {
		return nil, ErrEndOfResults
	}
	c.start += len(feed.Entries)

	records := make([]types.PaperRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		records = append(records, entry.toRecord())
	}
	return records, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Updated    string          `xml:"updated"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

func (e arxivEntry) toRecord() types.PaperRecord {
	r := types.PaperRecord{
		URL:      strings.TrimSpace(e.ID),
		Title:    strings.TrimSpace(e.Title),
		Abstract: strings.TrimSpace(e.Summary),
	}

	for _, a := range e.Authors {
		r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			r.Categories = append(r.Categories, c.Term)
		}
	}

	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		r.Submitted = t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, e.Updated); err == nil {
		r.Updated = t.UTC()
	}
	return r
}
