package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"
)

// Stage request constants fixed by the pipeline contract.
const (
	SearchMaxResults  = 10
	FilterMaxArticles = 5
	FilterMinScore    = 0.6
)

// SearchResponse is stage 1. Raw keeps the body verbatim for the payload.
type SearchResponse struct {
	Success      bool              `json:"success"`
	TotalResults int               `json:"total_results"`
	Results      []json.RawMessage `json:"results"`
	Message      string            `json:"message"`

	Raw json.RawMessage `json:"-"`
}

// CrawlResponse is stage 2.
type CrawlResponse struct {
	Success        bool              `json:"success"`
	ProcessedCount int               `json:"processed_count"`
	Articles       []json.RawMessage `json:"articles"`
	Message        string            `json:"message"`

	Raw json.RawMessage `json:"-"`
}

// FilterResponse is stage 3. The body shape is open beyond the success flag,
// so fields of interest are pulled out with gjson and the rest rides along in
// Raw.
type FilterResponse struct {
	Success      bool
	Message      string
	ArticleCount int

	Raw json.RawMessage
}

// SearchNews runs stage 1 against /crawl/news.
func (c *Client) SearchNews(ctx context.Context, query string) (*SearchResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/crawl/news", map[string]any{
		"query":       query,
		"max_results": SearchMaxResults,
	})
	if err != nil {
		return nil, err
	}
	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Message: "unreadable search response: " + err.Error()}
	}
	resp.Raw = body
	return &resp, nil
}

// CrawlArticles runs stage 2 against /crawl/crawl with stage 1's results.
func (c *Client) CrawlArticles(ctx context.Context, articles []json.RawMessage) (*CrawlResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/crawl/crawl", map[string]any{
		"articles": articles,
	})
	if err != nil {
		return nil, err
	}
	var resp CrawlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Message: "unreadable crawl response: " + err.Error()}
	}
	resp.Raw = body
	return &resp, nil
}

// FilterNews runs stage 3 against /ai/news-filterings with stage 2's
// articles.
func (c *Client) FilterNews(ctx context.Context, articles []json.RawMessage, mainKeyword string) (*FilterResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/ai/news-filterings", map[string]any{
		"articles":     articles,
		"main_keyword": mainKeyword,
		"config": map[string]any{
			"max_articles":        FilterMaxArticles,
			"min_relevance_score": FilterMinScore,
		},
	})
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, &Error{Message: "unreadable filter response"}
	}
	return &FilterResponse{
		Success:      gjson.GetBytes(body, "success").Bool(),
		Message:      gjson.GetBytes(body, "message").String(),
		ArticleCount: int(gjson.GetBytes(body, "articles.#").Int()),
		Raw:          body,
	}, nil
}
