package slack

import (
	"context"
)

// canvasCreateRequest is the canvases.create request body.
type canvasCreateRequest struct {
	Title           string          `json:"title"`
	ChannelID       string          `json:"channel_id"`
	DocumentContent documentContent `json:"document_content"`
}

type documentContent struct {
	Type     string `json:"type"`
	Markdown string `json:"markdown"`
}

type canvasCreateResponse struct {
	apiEnvelope
	CanvasID string `json:"canvas_id"`
}

// CreateCanvas creates a channel canvas from markdown content and returns
// the new canvas ID.
func (c *Client) CreateCanvas(ctx context.Context, channelID, title, markdown string) (string, error) {
	req := canvasCreateRequest{
		Title:     title,
		ChannelID: channelID,
		DocumentContent: documentContent{
			Type:     "markdown",
			Markdown: markdown,
		},
	}

	var resp canvasCreateResponse
	if err := c.callJSON(ctx, "canvases.create", req, &resp); err != nil {
		return "", err
	}
	return resp.CanvasID, nil
}
