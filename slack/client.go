// Package slack implements the subset of the Slack Web API the tool needs:
// canvas creation, external file uploads, and user lookup.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://slack.com/api"
	defaultTimeout = 60 * time.Second
)

// Client is a Slack Web API client authenticated with a bot token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Slack client.
func NewClient(token string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// SetBaseURL overrides the API base URL. Used in tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// apiEnvelope is the common part of every Web API response.
type apiEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// callJSON posts a JSON body to a Web API method and decodes the response
// into out. ok:false envelopes surface as *APIError.
func (c *Client) callJSON(ctx context.Context, method string, reqBody, out interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	return c.doAndDecode(req, method, out)
}

// callForm sends a Web API method with URL-encoded query parameters.
func (c *Client) callForm(ctx context.Context, method string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+method+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	return c.doAndDecode(req, method, out)
}

func (c *Client) doAndDecode(req *http.Request, method string, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s failed with status %d", method, resp.StatusCode)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", method, err)
	}
	if !envelope.OK {
		return &APIError{Method: method, Reason: envelope.Error}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse %s response: %w", method, err)
		}
	}
	return nil
}

// APIError is a Slack ok:false response.
type APIError struct {
	Method string
	Reason string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("slack %s failed", e.Method)
	}
	return fmt.Sprintf("slack %s failed: %s", e.Method, e.Reason)
}
