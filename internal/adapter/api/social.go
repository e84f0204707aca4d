package api

import (
	"context"
	"net/http"

	"github.com/mmcdole/crates/internal/domain"
)

// Follow follows a user
func (c *Client) Follow(ctx context.Context, userID int64) (domain.FollowStatus, error) {
	status := domain.FollowStatus{IsFollowing: true}
	err := c.sendJSON(ctx, http.MethodPost, idPath("/v1/social/follow/%s", userID), nil, &status)
	return status, err
}

// Unfollow stops following a user
func (c *Client) Unfollow(ctx context.Context, userID int64) (domain.FollowStatus, error) {
	status := domain.FollowStatus{IsFollowing: false}
	err := c.sendJSON(ctx, http.MethodDelete, idPath("/v1/social/follow/%s", userID), nil, &status)
	return status, err
}

// GetFollowStatus reports whether the signed-in user follows userID
func (c *Client) GetFollowStatus(ctx context.Context, userID int64) (domain.FollowStatus, error) {
	var status domain.FollowStatus
	err := c.getJSON(ctx, idPath("/v1/social/follow/%s/status", userID), nil, &status)
	return status, err
}

// GetFollowing returns a page of users the signed-in user follows
func (c *Client) GetFollowing(ctx context.Context, p domain.Pageable) (domain.Page[domain.UserFollow], error) {
	var page domain.Page[domain.UserFollow]
	err := c.getJSON(ctx, "/v1/social/following", pageQuery(p, sortCreatedDesc, ""), &page)
	return page, err
}

// GetFollowers returns a page of users following the signed-in user
func (c *Client) GetFollowers(ctx context.Context, p domain.Pageable) (domain.Page[domain.UserFollow], error) {
	var page domain.Page[domain.UserFollow]
	err := c.getJSON(ctx, "/v1/social/followers", pageQuery(p, sortCreatedDesc, ""), &page)
	return page, err
}

// GetMyStats returns the signed-in user's follower counts
func (c *Client) GetMyStats(ctx context.Context) (domain.SocialStats, error) {
	var stats domain.SocialStats
	err := c.getJSON(ctx, "/v1/social/stats", nil, &stats)
	return stats, err
}

// GetUserStats returns another user's follower counts
func (c *Client) GetUserStats(ctx context.Context, userID int64) (domain.SocialStats, error) {
	var stats domain.SocialStats
	err := c.getJSON(ctx, idPath("/v1/social/user/%s/stats", userID), nil, &stats)
	return stats, err
}

// SearchUsers finds users by handle or display name
func (c *Client) SearchUsers(ctx context.Context, q domain.ListQuery) (domain.Page[domain.PublicUser], error) {
	var page domain.Page[domain.PublicUser]
	err := c.getJSON(ctx, "/v1/user/search", pageQuery(q.Pageable, sortUpdatedDesc, q.Search), &page)
	return page, err
}
