package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DownloadAttachment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/download/attachments/12345/diagram.png", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "a", "b")
	body, err := client.DownloadAttachment(context.Background(), "12345", "diagram.png")
	require.NoError(t, err)
	defer body.Close()

	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))
}

func TestClient_DownloadAttachment_Missing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "a", "b")
	_, err := client.DownloadAttachment(context.Background(), "12345", "gone.png")
	require.Error(t, err)
}

func TestAttachmentFetcher_BindsPage(t *testing.T) {
	var capturedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	fetcher := &AttachmentFetcher{Client: NewClient(server.URL, "a", "b"), PageID: "777"}
	body, err := fetcher.Fetch(context.Background(), "x.png")
	require.NoError(t, err)
	_ = body.Close()

	assert.Equal(t, "/download/attachments/777/x.png", capturedPath)
}
