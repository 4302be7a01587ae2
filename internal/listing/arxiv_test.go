// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

const feedHeader = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">`

func entryXML(id, title string, published time.Time) string {
	return fmt.Sprintf(`<entry>
		<id>http://arxiv.org/abs/%s</id>
		<title>%s</title>
		<summary>An abstract.</summary>
		<published>%s</published>
		<updated>%s</updated>
		<author><name>Ada Lovelace</name></author>
		<author><name>Alan Turing</name></author>
		<category term="cs.AI"/>
		<category term="cs.LG"/>
	</entry>`, id, title, published.Format(time.RFC3339), published.Add(2*time.Hour).Format(time.RFC3339))
}

func testCfg() types.ListingConfig {
	return types.ListingConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		Category:   "cs.AI",
		PageSize:   2,
		PageDelay:  0,
		MaxRetries: 1,
	}
}

func TestClientNextParsesEntries(t *testing.T) {
	published := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedHeader)
		fmt.Fprint(w, entryXML("2403.01001", "Paper One", published))
		fmt.Fprint(w, "</feed>")
	}))
	defer ts.Close()

	oldBase := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = oldBase }()

	c := NewClient(testCfg(), ts.Client())
	records, err := c.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	r := records[0]
	if r.URL != "http://arxiv.org/abs/2403.01001" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.Title != "Paper One" {
		t.Errorf("Title = %q", r.Title)
	}
	if len(r.Authors) != 2 || r.Authors[0] != "Ada Lovelace" {
		t.Errorf("Authors = %v", r.Authors)
	}
	if len(r.Categories) != 2 || r.Categories[0] != "cs.AI" {
		t.Errorf("Categories = %v", r.Categories)
	}
	if !r.Submitted.Equal(published) {
		t.Errorf("Submitted = %v, want %v", r.Submitted, published)
	}
	if !r.Updated.Equal(published.Add(2 * time.Hour)) {
		t.Errorf("Updated = %v", r.Updated)
	}
}

func TestClientNextPaginates(t *testing.T) {
	published := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	var starts []int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		starts = append(starts, start)

		fmt.Fprint(w, feedHeader)
		if start == 0 {
			fmt.Fprint(w, entryXML("2403.01001", "A", published))
			fmt.Fprint(w, entryXML("2403.01002", "B", published.Add(-time.Hour)))
		}
		fmt.Fprint(w, "</feed>")
	}))
	defer ts.Close()

	oldBase := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = oldBase }()

	c := NewClient(testCfg(), ts.Client())

	page1, err := c.Next(context.Background())
	if err != nil {
		t.Fatalf("first Next() error: %v", err)
	}
	if len(page1) != 2 {
		t.Fatalf("len(page1) = %d, want 2", len(page1))
	}

	// Second page is empty: normal end of results, not an error.
	_, err = c.Next(context.Background())
	if err != ErrEndOfResults {
		t.Fatalf("second Next() error = %v, want ErrEndOfResults", err)
	}

	if len(starts) != 2 || starts[0] != 0 || starts[1] != 2 {
		t.Errorf("start offsets = %v, want [0 2]", starts)
	}
}

func TestClientNextHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	oldBase := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = oldBase }()

	c := NewClient(testCfg(), ts.Client())
	if _, err := c.Next(context.Background()); err == nil {
		t.Fatal("Next() should fail on HTTP 500")
	}
}

func TestClientNextSendsQuery(t *testing.T) {
	var gotQuery, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, feedHeader+"</feed>")
	}))
	defer ts.Close()

	oldBase := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = oldBase }()

	c := NewClient(testCfg(), ts.Client())
	c.Next(context.Background())

	if gotQuery != "cat:cs.AI" {
		t.Errorf("search_query = %q, want %q", gotQuery, "cat:cs.AI")
	}
	if gotUA != "test/0.1" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}
