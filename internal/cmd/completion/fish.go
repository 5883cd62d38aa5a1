package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdFish creates the fish completion command.
func NewCmdFish() *cobra.Command {
	return &cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		Long: `Generate fish completion script for sync2canvas.

To load completions in your current shell session:

  sync2canvas completion fish | source

To load completions for every new session:

  sync2canvas completion fish > ~/.config/fish/completions/sync2canvas.fish`,
		Example: `  # Load in current session
  sync2canvas completion fish | source

  # Install permanently
  sync2canvas completion fish > ~/.config/fish/completions/sync2canvas.fish`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	}
}
