// Package api provides a client for the legacy Confluence server REST API.
package api

import "fmt"

// PageMetadata is the subset of the content API response the tool needs.
type PageMetadata struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	History History `json:"history"`
}

// History carries page provenance.
type History struct {
	CreatedBy User `json:"createdBy"`
}

// User is a Confluence user record.
type User struct {
	UserKey     string `json:"userKey"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}
