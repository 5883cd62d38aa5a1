package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// GetPageStorage fetches the raw storage-format XHTML for a page via the
// viewstorage plugin. This is the input to the markdown converter.
func (c *Client) GetPageStorage(ctx context.Context, pageID string) (string, error) {
	path := "/plugins/viewstorage/viewpagestorage.action?pageId=" + url.QueryEscape(pageID)
	body, err := c.get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page storage: %w", err)
	}
	return string(body), nil
}

// GetPageMetadata fetches the page title and creation history.
func (c *Client) GetPageMetadata(ctx context.Context, pageID string) (*PageMetadata, error) {
	path := fmt.Sprintf("/rest/api/content/%s?expand=history", url.PathEscape(pageID))
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page metadata: %w", err)
	}

	var meta PageMetadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse page metadata: %w", err)
	}
	return &meta, nil
}
