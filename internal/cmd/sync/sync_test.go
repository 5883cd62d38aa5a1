package sync

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-berg/sync2canvas/api"
	"github.com/josh-berg/sync2canvas/internal/config"
	"github.com/josh-berg/sync2canvas/slack"
)

// newConfluenceServer serves the endpoints runSync touches for one page.
func newConfluenceServer(t *testing.T, storage, metadata string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/plugins/viewstorage/viewpagestorage.action", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "123456", r.URL.Query().Get("pageId"))
		w.Write([]byte(storage))
	})
	mux.HandleFunc("/rest/api/content/123456", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(metadata))
	})
	mux.HandleFunc("/rest/api/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("key") == "abc123" {
			w.Write([]byte(`{"username": "jdoe", "displayName": "Jo Doe", "email": "jdoe@example.com"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	return httptest.NewServer(mux)
}

// newSlackServer serves canvases.create and users.lookupByEmail.
func newSlackServer(t *testing.T) (*httptest.Server, *string) {
	t.Helper()
	var canvasMarkdown string
	mux := http.NewServeMux()
	mux.HandleFunc("/canvases.create", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		canvasMarkdown = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "canvas_id": "F0CANVAS"}`))
	})
	mux.HandleFunc("/users.lookupByEmail", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("email") == "jdoe@example.com" {
			w.Write([]byte(`{"ok": true, "user": {"id": "U0JDOE"}}`))
			return
		}
		w.Write([]byte(`{"ok": false, "error": "users_not_found"}`))
	})
	server := httptest.NewServer(mux)
	return server, &canvasMarkdown
}

func testClients(t *testing.T, confluenceURL, slackURL string) (*api.Client, *slack.Client) {
	t.Helper()
	confluence := api.NewClient(confluenceURL, "elb", "seraph")
	slackClient := slack.NewClient("xoxb-test")
	slackClient.SetBaseURL(slackURL)
	return confluence, slackClient
}

func TestRunSync_EndToEnd(t *testing.T) {
	storage := `<p>Hello <ac:link><ri:user ri:userkey="abc123"/></ac:link></p>`
	metadata := `{"id": "123456", "title": "Team Handbook: Onboarding", "history": {"createdBy": {"username": "jdoe"}}}`

	confluenceServer := newConfluenceServer(t, storage, metadata)
	defer confluenceServer.Close()
	slackServer, canvasMarkdown := newSlackServer(t)
	defer slackServer.Close()

	confluence, slackClient := testClients(t, confluenceServer.URL, slackServer.URL)

	outputDir := t.TempDir()
	opts := syncOptions{
		pageID:    "123456",
		channelID: "C0123ABCD",
		outputDir: outputDir,
	}
	cfg := &config.Config{URL: confluenceServer.URL}

	err := runSync(context.Background(), opts, cfg, confluence, slackClient)
	require.NoError(t, err)

	// Filename is sanitized, title in the heading is not
	outputPath := filepath.Join(outputDir, "Team Handbook- Onboarding.md")
	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "# Team Handbook: Onboarding\n\n_Original Author: jdoe_\n\n")
	assert.Contains(t, text, "Hello <@U0JDOE>")

	// Canvas payload carries the author line but not the title heading
	assert.Contains(t, *canvasMarkdown, "_Original Author: jdoe_")
	assert.NotContains(t, *canvasMarkdown, "# Team Handbook")
}

func TestRunSync_NoCanvas(t *testing.T) {
	storage := `<p>Plain content</p>`
	metadata := `{"id": "123456", "title": "Notes", "history": {"createdBy": {"username": "jdoe"}}}`

	confluenceServer := newConfluenceServer(t, storage, metadata)
	defer confluenceServer.Close()

	confluence := api.NewClient(confluenceServer.URL, "elb", "seraph")

	outputDir := t.TempDir()
	opts := syncOptions{
		pageID:    "123456",
		outputDir: outputDir,
		noCanvas:  true,
	}
	cfg := &config.Config{URL: confluenceServer.URL}

	err := runSync(context.Background(), opts, cfg, confluence, nil)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(outputDir, "Notes.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Plain content")
}

func TestRunSync_MissingChannel(t *testing.T) {
	opts := syncOptions{pageID: "123456", outputDir: t.TempDir()}
	cfg := &config.Config{URL: "https://example.invalid"}

	err := runSync(context.Background(), opts, cfg, nil, slack.NewClient("xoxb-test"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel-id is required")
}

func TestRunSync_MetadataFallbacks(t *testing.T) {
	confluenceServer := newConfluenceServer(t, "<p>Body</p>", `{"id": "123456"}`)
	defer confluenceServer.Close()

	confluence := api.NewClient(confluenceServer.URL, "elb", "seraph")

	outputDir := t.TempDir()
	opts := syncOptions{pageID: "123456", outputDir: outputDir, noCanvas: true}
	cfg := &config.Config{URL: confluenceServer.URL}

	err := runSync(context.Background(), opts, cfg, confluence, nil)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(outputDir, "Page 123456.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Page 123456\n\n_Original Author: Unknown_")
}

func TestRunSync_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	confluence := api.NewClient(server.URL, "elb", "seraph")

	opts := syncOptions{pageID: "123456", outputDir: t.TempDir(), noCanvas: true}
	cfg := &config.Config{URL: server.URL}

	err := runSync(context.Background(), opts, cfg, confluence, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch page content")
}

func TestEnrichMentions(t *testing.T) {
	confluenceServer := newConfluenceServer(t, "", "{}")
	defer confluenceServer.Close()
	slackServer, _ := newSlackServer(t)
	defer slackServer.Close()

	confluence, slackClient := testClients(t, confluenceServer.URL, slackServer.URL)
	ctx := context.Background()

	t.Run("resolves known user to Slack mention", func(t *testing.T) {
		out := enrichMentions(ctx, "cc <@abc123> please", confluence, slackClient)
		assert.Equal(t, "cc <@U0JDOE> please", out)
	})

	t.Run("repeated mentions resolve consistently", func(t *testing.T) {
		out := enrichMentions(ctx, "<@abc123> and <@abc123>", confluence, slackClient)
		assert.Equal(t, "<@U0JDOE> and <@U0JDOE>", out)
	})

	t.Run("unknown key left untouched", func(t *testing.T) {
		out := enrichMentions(ctx, "ping <@nope>", confluence, slackClient)
		assert.Equal(t, "ping <@nope>", out)
	})

	t.Run("unknown-user placeholder left untouched", func(t *testing.T) {
		out := enrichMentions(ctx, "ping <@unknown-user>", confluence, slackClient)
		assert.Equal(t, "ping <@unknown-user>", out)
	})

	t.Run("no mentions passes through", func(t *testing.T) {
		out := enrichMentions(ctx, "nothing here", confluence, slackClient)
		assert.Equal(t, "nothing here", out)
	})
}

func TestEnrichMentions_NoSlackAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/user", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"username": "ghost", "displayName": "Ghost User", "email": "ghost@example.com"}`))
	})
	confluenceServer := httptest.NewServer(mux)
	defer confluenceServer.Close()

	slackServer, _ := newSlackServer(t)
	defer slackServer.Close()

	confluence, slackClient := testClients(t, confluenceServer.URL, slackServer.URL)

	out := enrichMentions(context.Background(), "by <@anykey>", confluence, slackClient)
	assert.Equal(t, "by @Ghost User", out)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no invalid chars", "Simple Title", "Simple Title"},
		{"colon and slash", "A: B/C", "A- B-C"},
		{"all invalid chars", `<>:"/\|?*`, "---------"},
		{"surrounding whitespace", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestNewCmdSync_Flags(t *testing.T) {
	cmd := NewCmdSync()

	assert.Equal(t, "sync", cmd.Use)
	for _, name := range []string{"page-id", "channel-id", "output-dir", "callout-style", "max-heading-level", "no-canvas"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestSyncOptions_ApplyConfig(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		opts := syncOptions{}
		opts.applyConfig(&config.Config{})
		assert.Equal(t, "output", opts.outputDir)
	})

	t.Run("config values fill unset flags", func(t *testing.T) {
		opts := syncOptions{}
		opts.applyConfig(&config.Config{OutputDir: "docs", CalloutStyle: "markers", MaxHeadingLevel: 2})
		assert.Equal(t, "docs", opts.outputDir)
		assert.Equal(t, "markers", opts.calloutStyle)
		assert.Equal(t, 2, opts.maxHeading)
	})

	t.Run("flags win over config", func(t *testing.T) {
		opts := syncOptions{outputDir: "elsewhere", calloutStyle: "quote"}
		opts.applyConfig(&config.Config{OutputDir: "docs", CalloutStyle: "markers"})
		assert.Equal(t, "elsewhere", opts.outputDir)
		assert.Equal(t, "quote", opts.calloutStyle)
	})
}
