package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"artigen/internal/model"
)

// FallbackCatalog is the built-in option catalog used when the backend is
// unreachable. Shape and contents match the backend's defaults.
func FallbackCatalog() model.Catalog {
	return model.Catalog{
		ContentTypes: []string{"Blog SEO", "Tin tức", "Hướng dẫn"},
		WritingTones: []string{"Chuyên nghiệp", "Thuyết phục", "Sáng tạo"},
		Languages:    []string{"Tiếng Việt", "Tiếng Anh", "Tiếng Thái"},
		Bots:         []string{"GPT-4.1", "Gemini-2.5-flash"},
	}
}

// LoadCatalog fetches the selectable-option catalog. On any failure it
// returns the fallback catalog and degraded=true; the caller decides how to
// surface the degradation. The wizard must not be considered ready before
// this returns.
func (c *Client) LoadCatalog(ctx context.Context) (catalog model.Catalog, degraded bool) {
	body, err := c.do(ctx, http.MethodGet, "/ui/configs", nil)
	if err != nil {
		c.logger.Warn("Catalog fetch failed, using fallback", "error", err)
		return FallbackCatalog(), true
	}
	var cat model.Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		c.logger.Warn("Catalog response unreadable, using fallback", "error", err)
		return FallbackCatalog(), true
	}
	return cat, false
}

// SuggestKeywords asks the backend for related keywords. Results are cached
// per query; on failure the deterministic mock suggestions are returned with
// degraded=true rather than an error, so the setup form never blocks on this.
func (c *Client) SuggestKeywords(ctx context.Context, query string) (keywords []string, degraded bool) {
	if cached, ok := c.suggestCache.Get(query); ok {
		return cached, false
	}

	body, err := c.do(ctx, http.MethodPost, "/suggest_keywords", map[string]string{"query": query})
	if err != nil {
		c.logger.Warn("Keyword suggestion failed, using mock", "error", err)
		return MockSuggestions(query), true
	}
	var resp struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return MockSuggestions(query), true
	}
	c.suggestCache.Add(query, resp.Keywords)
	return resp.Keywords, false
}

// MockSuggestions is the offline fallback for keyword suggestion.
func MockSuggestions(query string) []string {
	return []string{
		fmt.Sprintf("%s là gì", query),
		fmt.Sprintf("lợi ích của %s", query),
		fmt.Sprintf("cách sử dụng %s", query),
	}
}
