package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// GetUser resolves a user record from a storage-format userkey.
func (c *Client) GetUser(ctx context.Context, userKey string) (*User, error) {
	path := "/rest/api/user?key=" + url.QueryEscape(userKey)
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %q: %w", userKey, err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to parse user response: %w", err)
	}
	return &user, nil
}
