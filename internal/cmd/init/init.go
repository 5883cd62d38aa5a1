// Package init provides the init command for sync2canvas.
package init

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/josh-berg/sync2canvas/internal/config"
)

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var (
		url      string
		noVerify bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize sync2canvas configuration",
		Long: `Initialize sync2canvas with your Confluence session and Slack token.

This command will guide you through setting up your Confluence URL and
session cookies. The configuration will be saved to
~/.config/sync2canvas/config.yml.

To find your session cookies:
  1. Log in to Confluence in your browser
  2. Open developer tools and inspect cookies for the site
  3. Copy the values of AWSELBAuthSessionCookie-0 and seraph.confluence`,
		Example: `  # Interactive setup
  sync2canvas init

  # Pre-populate URL
  sync2canvas init --url https://sync.hudlnet.com`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(url, noVerify)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Confluence URL (e.g., https://sync.hudlnet.com)")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip connection verification")

	return cmd
}

func runInit(prefillURL string, noVerify bool) error {
	configPath := config.DefaultConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{}

	if prefillURL != "" {
		cfg.URL = prefillURL
	}

	// Build the form
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Confluence URL").
				Description("Your Confluence server URL").
				Placeholder("https://sync.hudlnet.com").
				Value(&cfg.URL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("URL is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("AWSELB Session Cookie").
				Description("Value of AWSELBAuthSessionCookie-0 from your browser").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.AWSELBCookie).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("AWSELB cookie is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Seraph Session Cookie").
				Description("Value of seraph.confluence from your browser").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.SeraphCookie).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("seraph cookie is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Slack Bot Token (optional)").
				Description("Bot token with canvases:write, files:write, users:read.email").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.SlackToken),

			huh.NewSelect[string]().
				Title("Callout Style").
				Description("How info and note panels are rendered").
				Options(
					huh.NewOption("Blockquote", "quote"),
					huh.NewOption("Numbered markers", "markers"),
				).
				Value(&cfg.CalloutStyle),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Verify connection unless skipped
	if !noVerify {
		fmt.Print("Verifying connection... ")
		if err := verifyConnection(cfg); err != nil {
			fmt.Println("failed!")
			return fmt.Errorf("connection verification failed: %w", err)
		}
		fmt.Println("success!")
	}

	// Save configuration
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	fmt.Println("\nYou're all set! Try running:")
	fmt.Println("  sync2canvas convert page.xml")
	fmt.Println("  sync2canvas sync --page-id <ID> --channel-id <CHANNEL>")

	return nil
}

func verifyConnection(cfg *config.Config) error {
	client := &http.Client{Timeout: 10 * time.Second}

	req, err := http.NewRequest("GET", cfg.URL+"/rest/api/content?limit=1", nil)
	if err != nil {
		return err
	}

	req.AddCookie(&http.Cookie{Name: "AWSELBAuthSessionCookie-0", Value: cfg.AWSELBCookie})
	req.AddCookie(&http.Cookie{Name: "seraph.confluence", Value: cfg.SeraphCookie})
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == 401 {
		return fmt.Errorf("authentication failed - your session cookies have likely expired")
	}
	if resp.StatusCode == 403 {
		return fmt.Errorf("access denied - check your permissions")
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
