package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	awselbCookieName = "AWSELBAuthSessionCookie-0"
	seraphCookieName = "seraph.confluence"
)

// Client is a client for a legacy Confluence server instance sitting behind
// cookie-based SSO.
type Client struct {
	baseURL      string
	awselbCookie string
	seraphCookie string
	httpClient   *http.Client
}

// NewClient creates a new Confluence client. The two cookie values come
// from an authenticated browser session.
func NewClient(baseURL, awselbCookie, seraphCookie string) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		awselbCookie: awselbCookie,
		seraphCookie: seraphCookie,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// BaseURL returns the configured site base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get executes a GET request and returns the raw response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.stream(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	body, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// stream executes a GET request and returns the body as a reader. The
// caller owns closing it.
func (c *Client) stream(ctx context.Context, path string) (io.ReadCloser, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: awselbCookieName, Value: c.awselbCookie})
	req.AddCookie(&http.Cookie{Name: seraphCookieName, Value: c.seraphCookie})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		_ = resp.Body.Close()
		return nil, &ErrorResponse{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return resp.Body, nil
}
