package api

import (
	"context"
	"net/http"

	"github.com/mmcdole/crates/internal/domain"
)

// AddToCollection saves another user's public crate
func (c *Client) AddToCollection(ctx context.Context, crateID int64) (domain.CollectionStatus, error) {
	var status domain.CollectionStatus
	err := c.sendJSON(ctx, http.MethodPost, idPath("/v1/crate/%s/collection", crateID), nil, &status)
	return status, err
}

// RemoveFromCollection un-saves a crate
func (c *Client) RemoveFromCollection(ctx context.Context, crateID int64) (domain.CollectionStatus, error) {
	var status domain.CollectionStatus
	err := c.sendJSON(ctx, http.MethodDelete, idPath("/v1/crate/%s/collection", crateID), nil, &status)
	return status, err
}

// GetCollectionStatus reports whether a crate is in the user's collection
func (c *Client) GetCollectionStatus(ctx context.Context, crateID int64) (domain.CollectionStatus, error) {
	var status domain.CollectionStatus
	err := c.getJSON(ctx, idPath("/v1/crate/%s/collection/status", crateID), nil, &status)
	return status, err
}

// GetMyCollection returns a page of saved crates, most recently saved first
func (c *Client) GetMyCollection(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Crate], error) {
	var page domain.Page[domain.Crate]
	err := c.getJSON(ctx, "/v1/crate/collection", pageQuery(q.Pageable, sortCreatedDesc, q.Search), &page)
	return page, err
}
