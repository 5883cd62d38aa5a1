package configcmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/josh-berg/sync2canvas/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current sync2canvas configuration with credential source indicators.`,
		Example: `  # Show current config
  sync2canvas config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(noColor)
		},
	}

	return cmd
}

func runShow(noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	configPath := config.DefaultConfigPath()

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, envVars ...string) {
		_, _ = bold.Printf("%-16s", label+":")
		if value == "" {
			_, _ = dim.Println("-")
			return
		}

		// Mask secrets
		display := value
		if isSecretLabel(label) && len(value) > 8 {
			display = value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
		}

		fmt.Print(display)

		// Determine source
		source := "config"
		if fileErr != nil {
			source = "-"
		}
		for _, envVar := range envVars {
			if v := os.Getenv(envVar); v != "" && v == value {
				source = envVar
				break
			}
		}
		if fileValue != value && source == "config" {
			source = "-"
		}

		_, _ = dim.Printf("  (source: %s)\n", source)
	}

	printField("URL", cfg.URL, fileCfg.URL, "SYNC2CANVAS_URL")
	printField("AWSELB Cookie", cfg.AWSELBCookie, fileCfg.AWSELBCookie, "SYNC2CANVAS_AWSELB_COOKIE", "AWSELB_COOKIE")
	printField("Seraph Cookie", cfg.SeraphCookie, fileCfg.SeraphCookie, "SYNC2CANVAS_SERAPH_COOKIE", "SERAPH_COOKIE")
	printField("Slack Token", cfg.SlackToken, fileCfg.SlackToken, "SYNC2CANVAS_SLACK_TOKEN", "SLACK_BOT_TOKEN")
	printField("Issue Base URL", cfg.IssueBaseURL, fileCfg.IssueBaseURL)
	printField("Callout Style", cfg.CalloutStyle, fileCfg.CalloutStyle)
	printField("Output Dir", cfg.OutputDir, fileCfg.OutputDir, "SYNC2CANVAS_OUTPUT_DIR")

	fmt.Println()
	_, _ = dim.Printf("Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Println("(file not found)")
	}

	return nil
}

func isSecretLabel(label string) bool {
	lower := strings.ToLower(label)
	return strings.Contains(lower, "token") || strings.Contains(lower, "cookie")
}
