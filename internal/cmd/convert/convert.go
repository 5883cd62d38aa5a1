// Package convert provides the convert command, an offline storage-format
// to markdown conversion without any network collaborators.
package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/josh-berg/sync2canvas/internal/config"
	"github.com/josh-berg/sync2canvas/internal/logger"
	"github.com/josh-berg/sync2canvas/pkg/md"
)

// NewCmdConvert creates the convert command.
func NewCmdConvert() *cobra.Command {
	var (
		output       string
		calloutStyle string
		maxHeading   int
		viewHTML     bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a storage-format file to markdown",
		Long: `Convert a local Confluence storage-format file to Slack-flavored
markdown. Attachment embeds render as empty output since there is no
session to fetch them with; use 'sync' for the full pipeline.

Pass "-" to read from stdin.`,
		Example: `  # Convert a saved page to stdout
  sync2canvas convert page.xml

  # Write to a file, rendering callouts with numbered markers
  sync2canvas convert page.xml -o page.md --callout-style markers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configPath, _ := cmd.Flags().GetString("config")
			logger.Init(logger.Options{Debug: debug})

			if configPath == "" {
				configPath = config.DefaultConfigPath()
			}
			cfg, _ := config.LoadWithEnv(configPath)

			opts := convertOptions{
				input:        args[0],
				output:       output,
				calloutStyle: calloutStyle,
				maxHeading:   maxHeading,
				viewHTML:     viewHTML,
			}
			if opts.calloutStyle == "" {
				opts.calloutStyle = cfg.CalloutStyle
			}
			if opts.maxHeading == 0 {
				opts.maxHeading = cfg.MaxHeadingLevel
			}

			return runConvert(cmd, opts, cfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&calloutStyle, "callout-style", "", "callout rendering: quote or markers")
	cmd.Flags().IntVar(&maxHeading, "max-heading-level", 0, "clamp headings deeper than this level (default: 3)")
	cmd.Flags().BoolVar(&viewHTML, "view-html", false, "treat input as rendered view HTML instead of storage format")

	return cmd
}

type convertOptions struct {
	input        string
	output       string
	calloutStyle string
	maxHeading   int
	viewHTML     bool
}

func runConvert(cmd *cobra.Command, opts convertOptions, cfg *config.Config) error {
	var (
		raw []byte
		err error
	)
	if opts.input == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(opts.input)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var markdown string
	if opts.viewHTML {
		markdown, err = md.FromViewHTML(string(raw))
		if err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}
	} else {
		style, err := md.ParseCalloutStyle(opts.calloutStyle)
		if err != nil {
			return err
		}
		conv := md.NewConverter(md.Options{
			SiteBaseURL:     cfg.URL,
			IssueBaseURL:    cfg.IssueBaseURL,
			MaxHeadingLevel: opts.maxHeading,
			CalloutStyle:    style,
		})
		markdown, err = conv.ConvertStorage(cmd.Context(), string(raw))
		if err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}
	}

	if opts.output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), markdown)
		return nil
	}
	if err := os.WriteFile(opts.output, []byte(markdown+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
