package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanjacob/kangaroo/config"
	"github.com/sanjacob/kangaroo/errors"
	"github.com/sanjacob/kangaroo/logger"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect Kangaroo configuration",
	Long: `Inspect the effective Kangaroo configuration.

Configuration is merged from defaults, the per-user kangaroo.toml, a
kangaroo.toml found by walking up from the working directory, and
KANGAROO_ environment variables.

Examples:
  kangaroo config show          # Show effective configuration
  kangaroo config show --json   # Machine-readable output`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	if logger.JSONOutput {
		return printJSON(cfg)
	}

	fmt.Println("[portal]")
	fmt.Printf("base_url = %q\n", cfg.Portal.BaseURL)
	fmt.Printf("request_timeout_seconds = %d\n", cfg.Portal.RequestTimeoutSeconds)
	fmt.Printf("retry_attempts = %d\n", cfg.Portal.RetryAttempts)
	fmt.Printf("requests_per_minute = %d\n", cfg.Portal.RequestsPerMinute)
	fmt.Println()
	fmt.Println("[download]")
	fmt.Printf("batch_size = %d\n", cfg.Download.BatchSize)
	fmt.Printf("workers = %d\n", cfg.Download.Workers)
	fmt.Printf("folder = %q\n", cfg.Download.Folder)
	fmt.Printf("filename_format = %q\n", cfg.Download.FilenameFormat)
	fmt.Println()
	fmt.Println("[database]")
	fmt.Printf("path = %q\n", cfg.Database.Path)
	return nil
}
