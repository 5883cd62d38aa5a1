// Package sync provides the sync command, the end-to-end page to canvas
// pipeline.
package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/josh-berg/sync2canvas/api"
	"github.com/josh-berg/sync2canvas/internal/config"
	"github.com/josh-berg/sync2canvas/internal/logger"
	"github.com/josh-berg/sync2canvas/pkg/md"
	"github.com/josh-berg/sync2canvas/slack"
)

// NewCmdSync creates the sync command.
func NewCmdSync() *cobra.Command {
	var (
		pageID       string
		channelID    string
		outputDir    string
		calloutStyle string
		maxHeading   int
		noCanvas     bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Convert a Confluence page and publish it as a Slack canvas",
		Long: `Fetch a Confluence page, convert it to Slack-flavored markdown,
upload its embedded attachments to Slack, write the markdown to a local
file, and create a canvas in the given channel.`,
		Example: `  # Sync a page to a channel
  sync2canvas sync --page-id 123456 --channel-id C0123ABCD

  # Convert and write the file only, skip canvas creation
  sync2canvas sync --page-id 123456 --no-canvas`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			debug, _ := cmd.Flags().GetBool("debug")
			configPath, _ := cmd.Flags().GetString("config")
			if noColor {
				color.NoColor = true
			}
			logger.Init(logger.Options{Debug: debug})

			if configPath == "" {
				configPath = config.DefaultConfigPath()
			}
			cfg, err := config.LoadWithEnv(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w (run 'sync2canvas init' to configure)", err)
			}
			if err := cfg.ValidateSession(); err != nil {
				return err
			}
			if !noCanvas && cfg.SlackToken == "" {
				return fmt.Errorf("Slack token is required (set SYNC2CANVAS_SLACK_TOKEN or pass --no-canvas)")
			}

			opts := syncOptions{
				pageID:       pageID,
				channelID:    channelID,
				outputDir:    outputDir,
				calloutStyle: calloutStyle,
				maxHeading:   maxHeading,
				noCanvas:     noCanvas,
			}
			opts.applyConfig(cfg)

			confluence := api.NewClient(cfg.URL, cfg.AWSELBCookie, cfg.SeraphCookie)
			var slackClient *slack.Client
			if cfg.SlackToken != "" {
				slackClient = slack.NewClient(cfg.SlackToken)
			}

			return runSync(cmd.Context(), opts, cfg, confluence, slackClient)
		},
	}

	cmd.Flags().StringVarP(&pageID, "page-id", "p", "", "ID of the Confluence page to fetch")
	cmd.Flags().StringVarP(&channelID, "channel-id", "C", "", "Slack channel ID for the canvas")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for the markdown file (default: output)")
	cmd.Flags().StringVar(&calloutStyle, "callout-style", "", "callout rendering: quote or markers")
	cmd.Flags().IntVar(&maxHeading, "max-heading-level", 0, "clamp headings deeper than this level (default: 3)")
	cmd.Flags().BoolVar(&noCanvas, "no-canvas", false, "write the markdown file but do not create a canvas")
	_ = cmd.MarkFlagRequired("page-id")

	return cmd
}

type syncOptions struct {
	pageID       string
	channelID    string
	outputDir    string
	calloutStyle string
	maxHeading   int
	noCanvas     bool
}

// applyConfig fills unset flag values from the config file.
func (o *syncOptions) applyConfig(cfg *config.Config) {
	if o.outputDir == "" {
		o.outputDir = cfg.OutputDir
	}
	if o.outputDir == "" {
		o.outputDir = "output"
	}
	if o.calloutStyle == "" {
		o.calloutStyle = cfg.CalloutStyle
	}
	if o.maxHeading == 0 {
		o.maxHeading = cfg.MaxHeadingLevel
	}
}

func runSync(ctx context.Context, opts syncOptions, cfg *config.Config, confluence *api.Client, slackClient *slack.Client) error {
	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	if !opts.noCanvas && opts.channelID == "" {
		return fmt.Errorf("channel-id is required unless --no-canvas is set")
	}

	calloutStyle, err := md.ParseCalloutStyle(opts.calloutStyle)
	if err != nil {
		return err
	}

	logger.Info("fetching page", "pageID", opts.pageID)
	storage, err := confluence.GetPageStorage(ctx, opts.pageID)
	if err != nil {
		return fmt.Errorf("failed to fetch page content: %w", err)
	}
	dim.Printf("Fetched %s of page storage\n", humanize.Bytes(uint64(len(storage))))

	meta, err := confluence.GetPageMetadata(ctx, opts.pageID)
	if err != nil {
		return fmt.Errorf("failed to fetch page metadata: %w", err)
	}
	title := meta.Title
	if title == "" {
		title = "Page " + opts.pageID
	}
	author := meta.History.CreatedBy.Username
	if author == "" {
		author = "Unknown"
	}

	convOpts := md.Options{
		SiteBaseURL:     cfg.URL,
		IssueBaseURL:    cfg.IssueBaseURL,
		MaxHeadingLevel: opts.maxHeading,
		CalloutStyle:    calloutStyle,
		Fetcher:         &api.AttachmentFetcher{Client: confluence, PageID: opts.pageID},
	}
	if slackClient != nil {
		convOpts.Publisher = &slack.BinaryPublisher{Client: slackClient}
	}

	logger.Info("converting page", "title", title)
	body, err := md.NewConverter(convOpts).ConvertStorage(ctx, storage)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if slackClient != nil {
		body = enrichMentions(ctx, body, confluence, slackClient)
	}

	payload := fmt.Sprintf("_Original Author: %s_\n\n%s", author, body)
	fileContent := fmt.Sprintf("# %s\n\n%s", title, payload)

	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(opts.outputDir, SanitizeFilename(title)+".md")
	if err := os.WriteFile(outputPath, []byte(fileContent), 0644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	green.Printf("✓ Markdown saved to %s (%s)\n", outputPath, humanize.Bytes(uint64(len(fileContent))))

	if opts.noCanvas {
		return nil
	}

	canvasID, err := slackClient.CreateCanvas(ctx, opts.channelID, title, payload)
	if err != nil {
		return fmt.Errorf("failed to create canvas: %w", err)
	}
	green.Printf("✓ Canvas %s created in channel %s\n", canvasID, opts.channelID)

	return nil
}

// mentionToken matches the user placeholders the converter emits. Already
// resolved Slack IDs start with U or W and survive re-matching because they
// map to themselves.
var mentionToken = regexp.MustCompile(`<@([^>]+)>`)

// enrichMentions resolves converter user placeholders to Slack mentions.
// Each distinct user key is looked up once: Confluence supplies the email,
// Slack maps it to a user ID. Keys that cannot be resolved fall back to the
// user's display name, or stay as-is when Confluence does not know them.
func enrichMentions(ctx context.Context, body string, confluence *api.Client, slackClient *slack.Client) string {
	seen := map[string]string{}
	return mentionToken.ReplaceAllStringFunc(body, func(token string) string {
		key := strings.TrimSuffix(strings.TrimPrefix(token, "<@"), ">")
		if key == "unknown-user" {
			return token
		}
		if replacement, ok := seen[key]; ok {
			return replacement
		}

		replacement := token
		user, err := confluence.GetUser(ctx, key)
		if err != nil {
			logger.Warn("could not resolve user", "key", key, "error", err)
		} else {
			name := user.DisplayName
			if name == "" {
				name = user.Username
			}
			replacement = "@" + name
			if user.Email != "" {
				if slackID, err := slackClient.LookupUserByEmail(ctx, user.Email); err == nil {
					replacement = "<@" + slackID + ">"
				} else {
					logger.Warn("no Slack account for user", "email", user.Email, "error", err)
				}
			}
		}

		seen[key] = replacement
		return replacement
	})
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename replaces characters that are invalid in filenames.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(invalidFilenameChars.ReplaceAllString(name, "-"))
}
