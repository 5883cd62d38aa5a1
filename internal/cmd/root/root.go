// Package root provides the root command for the sync2canvas CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/josh-berg/sync2canvas/internal/cmd/completion"
	"github.com/josh-berg/sync2canvas/internal/cmd/configcmd"
	"github.com/josh-berg/sync2canvas/internal/cmd/convert"
	initcmd "github.com/josh-berg/sync2canvas/internal/cmd/init"
	"github.com/josh-berg/sync2canvas/internal/cmd/sync"
	"github.com/josh-berg/sync2canvas/internal/version"
)

// NewCmdRoot creates the root command for sync2canvas.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync2canvas",
		Short: "Sync Confluence pages to Slack canvases",
		Long: `sync2canvas converts Confluence pages to Slack-flavored markdown
and publishes them as Slack canvases.

It fetches page storage via a cookie-authenticated session, converts
the markup (macros, tables, callouts, embedded images) to markdown,
uploads attachments to Slack, and creates a canvas in a channel.

Get started by running: sync2canvas init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/sync2canvas/config.yml)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Set version template
	cmd.SetVersionTemplate("sync2canvas version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(sync.NewCmdSync())
	cmd.AddCommand(convert.NewCmdConvert())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
