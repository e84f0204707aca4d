package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mmcdole/crates/internal/domain"
)

// GetPublicCrates returns a page of everyone's public crates
func (c *Client) GetPublicCrates(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Crate], error) {
	var page domain.Page[domain.Crate]
	err := c.getJSON(ctx, "/v1/crate/public", pageQuery(q.Pageable, sortUpdatedDesc, q.Search), &page)
	return page, err
}

// GetUserProfile looks a user up by handle or spotify id
func (c *Client) GetUserProfile(ctx context.Context, identifier string) (domain.PublicUser, error) {
	var user domain.PublicUser
	err := c.getJSON(ctx, "/v1/user/profile/"+url.PathEscape(identifier), nil, &user)
	return user, err
}

// GetUserCrates returns a page of another user's public crates
func (c *Client) GetUserCrates(ctx context.Context, userID int64, p domain.Pageable) (domain.Page[domain.Crate], error) {
	var page domain.Page[domain.Crate]
	err := c.getJSON(ctx, idPath("/v1/user/%s/crates", userID), pageQuery(p, sortUpdatedDesc, ""), &page)
	return page, err
}

// GetTrendingCrates returns the most viewed public crates
func (c *Client) GetTrendingCrates(ctx context.Context, p domain.Pageable) (domain.Page[domain.Crate], error) {
	var page domain.Page[domain.Crate]
	err := c.getJSON(ctx, "/v1/public/crates/trending", pageQuery(p, "", ""), &page)
	return page, err
}

// GetRecentCrates returns recently updated public crates
func (c *Client) GetRecentCrates(ctx context.Context, p domain.Pageable) (domain.Page[domain.Crate], error) {
	var page domain.Page[domain.Crate]
	err := c.getJSON(ctx, "/v1/public/crates", pageQuery(p, sortUpdatedDesc, ""), &page)
	return page, err
}

// RecordView counts a view of a public crate
func (c *Client) RecordView(ctx context.Context, crateID int64) error {
	return c.sendJSON(ctx, http.MethodPost, idPath("/v1/public/crate/%s/view", crateID), nil, nil)
}
