package api

import (
	"context"
	"net/http"

	"github.com/mmcdole/crates/internal/domain"
)

const (
	sortUpdatedDesc = "updatedAt,desc"
	sortCreatedDesc = "createdAt,desc"
)

type createCrateRequest struct {
	Name string `json:"name"`
}

type addAlbumsRequest struct {
	Albums []domain.Album `json:"albums"`
}

// GetCrates returns a page of the signed-in user's crates, newest first
func (c *Client) GetCrates(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Crate], error) {
	var page domain.Page[domain.Crate]
	err := c.getJSON(ctx, "/v1/crate", pageQuery(q.Pageable, sortUpdatedDesc, q.Search), &page)
	return page, err
}

// GetCrate returns a single crate
func (c *Client) GetCrate(ctx context.Context, id int64) (domain.Crate, error) {
	var crate domain.Crate
	err := c.getJSON(ctx, idPath("/v1/crate/%s", id), nil, &crate)
	return crate, err
}

// CreateCrate creates an empty private crate
func (c *Client) CreateCrate(ctx context.Context, name string) (domain.Crate, error) {
	var crate domain.Crate
	err := c.sendJSON(ctx, http.MethodPost, "/v1/crate", createCrateRequest{Name: name}, &crate)
	return crate, err
}

// UpdateCrate replaces a crate's editable fields
func (c *Client) UpdateCrate(ctx context.Context, id int64, update domain.CrateUpdate) (domain.Crate, error) {
	var crate domain.Crate
	err := c.sendJSON(ctx, http.MethodPut, idPath("/v1/crate/%s", id), update, &crate)
	return crate, err
}

// GetCrateAlbums returns a page of a crate's albums, most recently added first
func (c *Client) GetCrateAlbums(ctx context.Context, id int64, p domain.Pageable) (domain.Page[domain.Album], error) {
	var page domain.Page[domain.Album]
	if err := c.getJSON(ctx, idPath("/v1/crate/%s/albums", id), pageQuery(p, sortCreatedDesc, ""), &page); err != nil {
		return page, err
	}
	for i := range page.Content {
		page.Content[i].Images = page.Content[i].Images.Sorted()
	}
	return page, nil
}

// AddAlbumsToCrate appends albums to a crate and returns the updated crate
func (c *Client) AddAlbumsToCrate(ctx context.Context, id int64, albums []domain.Album) (domain.Crate, error) {
	var crate domain.Crate
	err := c.sendJSON(ctx, http.MethodPost, idPath("/v1/crate/%s/albums", id), addAlbumsRequest{Albums: albums}, &crate)
	return crate, err
}

// RemoveAlbumFromCrate removes one album and returns the updated crate
func (c *Client) RemoveAlbumFromCrate(ctx context.Context, id, albumID int64) (domain.Crate, error) {
	var crate domain.Crate
	err := c.sendJSON(ctx, http.MethodDelete, idPath("/v1/crate/%s/album/%s", id, albumID), nil, &crate)
	return crate, err
}
