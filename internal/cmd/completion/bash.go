package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdBash creates the bash completion command.
func NewCmdBash() *cobra.Command {
	return &cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		Long: `Generate bash completion script for sync2canvas.

To load completions in your current shell session:

  source <(sync2canvas completion bash)

To load completions for every new session:

  # Linux
  sync2canvas completion bash > /etc/bash_completion.d/sync2canvas

  # macOS (requires bash-completion)
  sync2canvas completion bash > $(brew --prefix)/etc/bash_completion.d/sync2canvas`,
		Example: `  # Load in current session
  source <(sync2canvas completion bash)

  # Install permanently (Linux)
  sync2canvas completion bash | sudo tee /etc/bash_completion.d/sync2canvas > /dev/null

  # Install permanently (macOS with Homebrew)
  sync2canvas completion bash > $(brew --prefix)/etc/bash_completion.d/sync2canvas`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		},
	}
}
