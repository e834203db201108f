package plosapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

// searchServer serves a fixed identifier list with Solr-style
// pagination.
func searchServer(t *testing.T, ids []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		rows, _ := strconv.Atoi(r.URL.Query().Get("rows"))

		end := start + rows
		if end > len(ids) {
			end = len(ids)
		}
		page := ids
		if start < len(ids) {
			page = ids[start:end]
		} else {
			page = nil
		}

		fmt.Fprint(w, `{"response":{"numFound":`+strconv.Itoa(len(ids))+`,"docs":[`)
		for i, id := range page {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"id":%q}`, id)
		}
		fmt.Fprint(w, `]}}`)
	}))
}

func TestSearchPaginates(t *testing.T) {
	var ids []string
	for i := 0; i < 25; i++ {
		ids = append(ids, fmt.Sprintf("10.1371/journal.pone.%07d", i))
	}
	srv := searchServer(t, ids)
	defer srv.Close()

	c := NewClient(WithSearchURL(srv.URL), WithRateLimit(1000))
	got, err := c.Search(context.Background(), Query{Rows: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(ids) {
		t.Fatalf("Search returned %d identifiers, want %d", len(got), len(ids))
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], ids[i])
		}
	}
}

func TestSearchEmptyResult(t *testing.T) {
	srv := searchServer(t, nil)
	defer srv.Close()

	c := NewClient(WithSearchURL(srv.URL), WithRateLimit(1000))
	got, err := c.Search(context.Background(), Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Search on empty index = %v", got)
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithSearchURL(srv.URL), WithRateLimit(1000))
	_, err := c.Search(context.Background(), Query{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("error = %v, want APIError 500", err)
	}
}

func TestFilterQuery(t *testing.T) {
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		q    Query
		want string
	}{
		{
			name: "no filters",
			q:    Query{},
			want: "",
		},
		{
			name: "date range",
			q:    Query{StartDate: start, EndDate: end},
			want: "publication_date:[2018-01-01T00:00:00Z TO 2018-12-31T00:00:00Z]",
		},
		{
			name: "open-ended range",
			q:    Query{StartDate: start},
			want: "publication_date:[2018-01-01T00:00:00Z TO *]",
		},
		{
			name: "type filter",
			q:    Query{ArticleTypes: []string{"Research Article"}},
			want: `article_type:"Research Article"`,
		},
		{
			name: "combined",
			q:    Query{StartDate: start, EndDate: end, ArticleTypes: []string{"Correction"}},
			want: `publication_date:[2018-01-01T00:00:00Z TO 2018-12-31T00:00:00Z] AND article_type:"Correction"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filterQuery(tt.q); got != tt.want {
				t.Errorf("filterQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchArticle(t *testing.T) {
	const body = `<article article-type="research-article"/>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	c := NewClient(WithDocBaseURL(srv.URL), WithRateLimit(1000))
	data, err := c.FetchArticle(context.Background(), "10.1371/journal.pone.1000001")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != body {
		t.Errorf("FetchArticle body = %q", data)
	}
}

func TestFetchArticleNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	c := NewClient(WithDocBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.FetchArticle(context.Background(), "10.1371/journal.pone.1000001")
	if !IsNotFound(err) {
		t.Errorf("error = %v, want not-found", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.DOI != "10.1371/journal.pone.1000001" {
		t.Errorf("APIError should carry the identifier, got %v", err)
	}
}

func TestFetchArticleInvalidDOI(t *testing.T) {
	c := NewClient(WithDocBaseURL("http://unused.invalid"), WithRateLimit(1000))
	if _, err := c.FetchArticle(context.Background(), "10.1371/bogus"); err == nil {
		t.Error("FetchArticle accepted a malformed DOI")
	}
}
