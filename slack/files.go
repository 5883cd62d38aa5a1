package slack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

type uploadURLResponse struct {
	apiEnvelope
	UploadURL string `json:"upload_url"`
	FileID    string `json:"file_id"`
}

type completeUploadRequest struct {
	Files []completedFile `json:"files"`
}

type completedFile struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type completeUploadResponse struct {
	apiEnvelope
	Files []struct {
		ID        string `json:"id"`
		Permalink string `json:"permalink"`
	} `json:"files"`
}

// UploadFile uploads binary content through the external upload flow
// (files.getUploadURLExternal, multipart POST, files.completeUploadExternal)
// and returns the file's permalink.
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader) (string, error) {
	// The upload URL request needs the exact byte length up front.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return "", fmt.Errorf("failed to read upload content: %w", err)
	}

	params := url.Values{}
	params.Set("filename", filename)
	params.Set("length", strconv.Itoa(buf.Len()))

	var urlResp uploadURLResponse
	if err := c.callForm(ctx, "files.getUploadURLExternal", params, &urlResp); err != nil {
		return "", err
	}

	if err := c.postMultipart(ctx, urlResp.UploadURL, filename, &buf); err != nil {
		return "", err
	}

	var completeResp completeUploadResponse
	req := completeUploadRequest{Files: []completedFile{{ID: urlResp.FileID, Title: filename}}}
	if err := c.callJSON(ctx, "files.completeUploadExternal", req, &completeResp); err != nil {
		return "", err
	}

	if len(completeResp.Files) == 0 || completeResp.Files[0].Permalink == "" {
		return "", fmt.Errorf("upload of %q completed without a permalink", filename)
	}
	return completeResp.Files[0].Permalink, nil
}

// postMultipart sends the file bytes to the pre-signed upload URL.
func (c *Client) postMultipart(ctx context.Context, uploadURL, filename string, content io.Reader) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}
	return nil
}

// BinaryPublisher adapts the client to the converter's publish collaborator.
type BinaryPublisher struct {
	Client *Client
}

// Publish uploads the content and returns its permalink.
func (p *BinaryPublisher) Publish(ctx context.Context, filename string, content io.Reader) (string, error) {
	return p.Client.UploadFile(ctx, filename, content)
}
