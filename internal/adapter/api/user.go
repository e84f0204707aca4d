package api

import (
	"context"
	"net/http"

	"github.com/mmcdole/crates/internal/domain"
)

// GetCurrentUser returns the signed-in user
func (c *Client) GetCurrentUser(ctx context.Context) (domain.User, error) {
	var user domain.User
	err := c.getJSON(ctx, "/v1/user/current", nil, &user)
	return user, err
}

// UpdateProfile saves the signed-in user's editable profile fields
func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	var user domain.User
	err := c.sendJSON(ctx, http.MethodPut, "/v1/user/profile", update, &user)
	return user, err
}
