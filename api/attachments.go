package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// DownloadAttachment downloads a page attachment by filename and returns a
// reader over its content. The caller owns closing it.
func (c *Client) DownloadAttachment(ctx context.Context, pageID, filename string) (io.ReadCloser, error) {
	path := fmt.Sprintf("/download/attachments/%s/%s", url.PathEscape(pageID), url.PathEscape(filename))
	body, err := c.stream(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment %q: %w", filename, err)
	}
	return body, nil
}

// AttachmentFetcher binds the client to one page and adapts it to the
// converter's fetch collaborator.
type AttachmentFetcher struct {
	Client *Client
	PageID string
}

// Fetch downloads the named attachment from the bound page.
func (f *AttachmentFetcher) Fetch(ctx context.Context, filename string) (io.ReadCloser, error) {
	return f.Client.DownloadAttachment(ctx, f.PageID, filename)
}
