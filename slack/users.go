package slack

import (
	"context"
	"net/url"
)

type lookupByEmailResponse struct {
	apiEnvelope
	User struct {
		ID string `json:"id"`
	} `json:"user"`
}

// LookupUserByEmail resolves an email address to a Slack user ID.
func (c *Client) LookupUserByEmail(ctx context.Context, email string) (string, error) {
	params := url.Values{}
	params.Set("email", email)

	var resp lookupByEmailResponse
	if err := c.callForm(ctx, "users.lookupByEmail", params, &resp); err != nil {
		return "", err
	}
	return resp.User.ID, nil
}
