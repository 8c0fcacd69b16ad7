package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sanjacob/kangaroo/config"
	"github.com/sanjacob/kangaroo/errors"
	"github.com/sanjacob/kangaroo/logger"
	"github.com/sanjacob/kangaroo/store"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the local certificate database",
	Long: `Manage the local certificate database.

Examples:
  kangaroo db stats   # Show certificate and batch run statistics`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  "Display counts of stored certificates, CURP identity check outcomes, and completed batch runs",
	RunE:  runDbStats,
}

func init() {
	DbCmd.AddCommand(dbStatsCmd)
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	db, err := store.OpenWithMigrations(cfg.Database.Path, logger.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := store.New(db, logger.Logger).Stats(cmd.Context())
	if err != nil {
		return err
	}

	if logger.JSONOutput {
		return printJSON(map[string]interface{}{
			"database":            cfg.Database.Path,
			"certificates":        stats.Certificates,
			"with_curp":           stats.WithCURP,
			"identity_matches":    stats.IdentityMatches,
			"identity_mismatches": stats.IdentityMismatches,
			"batch_runs":          stats.BatchRuns,
		})
	}

	fmt.Printf("Database: %s\n\n", cfg.Database.Path)
	pterm.DefaultTable.WithData(pterm.TableData{
		{"Certificates", strconv.Itoa(stats.Certificates)},
		{"With CURP", strconv.Itoa(stats.WithCURP)},
		{"Identity matches", strconv.Itoa(stats.IdentityMatches)},
		{"Identity mismatches", strconv.Itoa(stats.IdentityMismatches)},
		{"Batch runs", strconv.Itoa(stats.BatchRuns)},
	}).Render()
	return nil
}
