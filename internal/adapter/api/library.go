package api

import (
	"context"
	"net/http"

	"github.com/mmcdole/crates/internal/domain"
)

// GetLibraryAlbums returns a page of library albums. A search term switches
// to the search endpoint; hideCrated excludes albums already in a crate.
func (c *Client) GetLibraryAlbums(ctx context.Context, q domain.LibraryQuery) (domain.Page[domain.Album], error) {
	path := "/v1/library/albums"
	if q.Search != "" {
		path = "/v1/library/albums/search"
	}
	query := pageQuery(q.Pageable, "", q.Search)
	if q.HideCrated {
		query.Set("filters", string(domain.FilterExcludeCrated))
	}

	var page domain.Page[domain.Album]
	err := c.getJSON(ctx, path, query, &page)
	return page, err
}

// GetLibrary returns the library and its import state
func (c *Client) GetLibrary(ctx context.Context) (domain.Library, error) {
	var lib domain.Library
	err := c.getJSON(ctx, "/v1/library", nil, &lib)
	return lib, err
}

// StartSync asks the server to refresh the library from the catalog provider
func (c *Client) StartSync(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/v1/library/sync", nil, nil)
}
