package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanjacob/kangaroo/cmd/kangaroo/commands"
	"github.com/sanjacob/kangaroo/logger"
)

var rootCmd = &cobra.Command{
	Use:   "kangaroo",
	Short: "Kangaroo - SEP certificate downloader and CURP validator",
	Long: `Kangaroo - Batch downloader for the public DGB certificate portal.

Kangaroo downloads high school certificate records published by the
Mexican Secretariat of Public Education, checks each record's CURP
against the declared full name, and exports batches as JSON.

Available commands:
  validate - Check a CURP against a full name
  download - Download a batch of certificate records
  db       - Manage the local certificate database
  config   - Inspect the effective configuration
  version  - Show version information

Examples:
  kangaroo validate MAGE981117MMNCRS05 "ESTEFANIA DE LOS DOLORES MACIAS GARCIA"
  kangaroo download 42          # Download batch 42
  kangaroo db stats             # Show database statistics
  kangaroo config show          # Show effective configuration`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit machine-readable JSON output")

	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.DownloadCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
