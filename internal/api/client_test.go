package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, 600, testLogger()), srv
}

func TestLoadCatalog(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/ui/configs" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"content_types": ["Blog SEO", "Tin tức"],
			"writing_tones": ["Chuyên nghiệp"],
			"languages": ["Tiếng Việt"],
			"bots": ["GPT-4.1"]
		}`))
	}))

	cat, degraded := c.LoadCatalog(context.Background())
	if degraded {
		t.Fatalf("unexpected degraded catalog")
	}
	if !reflect.DeepEqual(cat.ContentTypes, []string{"Blog SEO", "Tin tức"}) {
		t.Fatalf("ContentTypes = %v", cat.ContentTypes)
	}
}

func TestLoadCatalogFallsBackOnServerError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	cat, degraded := c.LoadCatalog(context.Background())
	if !degraded {
		t.Fatalf("expected degraded flag on 500")
	}
	want := FallbackCatalog()
	if !reflect.DeepEqual(cat, want) {
		t.Fatalf("catalog = %+v, want fallback", cat)
	}
}

func TestLoadCatalogFallsBackOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	c := NewClient(srv.URL, time.Second, 600, testLogger())

	cat, degraded := c.LoadCatalog(context.Background())
	if !degraded || len(cat.Bots) == 0 {
		t.Fatalf("expected fallback catalog on refused connection, got %+v degraded=%v", cat, degraded)
	}
}

func TestSuggestKeywordsCachesPerQuery(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/suggest_keywords" {
			t.Errorf("path = %s", r.URL.Path)
		}
		calls++
		_, _ = w.Write([]byte(`{"keywords": ["máy in laser là gì", "review máy in laser"]}`))
	}))

	first, degraded := c.SuggestKeywords(context.Background(), "máy in laser")
	if degraded || len(first) != 2 {
		t.Fatalf("SuggestKeywords = %v degraded=%v", first, degraded)
	}
	second, _ := c.SuggestKeywords(context.Background(), "máy in laser")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached result differs: %v vs %v", first, second)
	}
	if calls != 1 {
		t.Fatalf("backend called %d times, want 1 (cache hit)", calls)
	}
}

func TestSuggestKeywordsMockFallback(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))

	got, degraded := c.SuggestKeywords(context.Background(), "máy in laser")
	if !degraded {
		t.Fatalf("expected degraded suggestions")
	}
	want := []string{"máy in laser là gì", "lợi ích của máy in laser", "cách sử dụng máy in laser"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mock suggestions = %v, want %v", got, want)
	}
}

func TestSearchNewsRequestAndRaw(t *testing.T) {
	const body = `{"success":true,"total_results":10,"results":[{"url":"https://a"},{"url":"https://b"}]}`
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crawl/news" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["query"] != "máy in laser" || req["max_results"] != float64(10) {
			t.Errorf("request = %v", req)
		}
		_, _ = w.Write([]byte(body))
	}))

	resp, err := c.SearchNews(context.Background(), "máy in laser")
	if err != nil {
		t.Fatalf("SearchNews: %v", err)
	}
	if !resp.Success || resp.TotalResults != 10 || len(resp.Results) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if string(resp.Raw) != body {
		t.Fatalf("Raw not verbatim: %s", resp.Raw)
	}
}

func TestCrawlArticlesNon2xxIsError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "crawler down", http.StatusServiceUnavailable)
	}))

	_, err := c.CrawlArticles(context.Background(), []json.RawMessage{json.RawMessage(`{"url":"https://a"}`)})
	if err == nil {
		t.Fatalf("expected error on 503")
	}
	apiErr, ok := err.(*Error)
	if !ok || apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("err = %v", err)
	}
}

func TestFilterNewsOpenShape(t *testing.T) {
	const body = `{"success":true,"message":"ok","articles":[{"t":1},{"t":2},{"t":3}],"outline":{"sections":["a","b"]}}`
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ai/news-filterings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		cfg, _ := req["config"].(map[string]any)
		if cfg["max_articles"] != float64(5) || cfg["min_relevance_score"] != 0.6 {
			t.Errorf("config = %v", cfg)
		}
		if req["main_keyword"] != "máy in laser" {
			t.Errorf("main_keyword = %v", req["main_keyword"])
		}
		_, _ = w.Write([]byte(body))
	}))

	resp, err := c.FilterNews(context.Background(), []json.RawMessage{json.RawMessage(`{"t":1}`)}, "máy in laser")
	if err != nil {
		t.Fatalf("FilterNews: %v", err)
	}
	if !resp.Success || resp.ArticleCount != 3 || resp.Message != "ok" {
		t.Fatalf("resp = %+v", resp)
	}
	if string(resp.Raw) != body {
		t.Fatalf("Raw not verbatim")
	}
}
