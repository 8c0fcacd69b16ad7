package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanjacob/kangaroo/logger"
	"github.com/sanjacob/kangaroo/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show Kangaroo version information",
	Long:  `Display version, build time, commit hash, and platform information for the Kangaroo binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()

		if logger.JSONOutput {
			return printJSON(info)
		}

		fmt.Println(info.String())
		fmt.Printf("Platform: %s\n", info.Platform)
		fmt.Printf("Go: %s\n", info.GoVersion)
		return nil
	},
}
