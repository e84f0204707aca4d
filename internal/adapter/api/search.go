package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mmcdole/crates/internal/domain"
)

// Search runs the unified user and crate search
func (c *Client) Search(ctx context.Context, query string, p domain.Pageable) (domain.UnifiedSearchResult, error) {
	if p.Size <= 0 {
		p.Size = domain.DefaultPageSize
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))

	var result domain.UnifiedSearchResult
	err := c.getJSON(ctx, "/v1/search", q, &result)
	return result, err
}
