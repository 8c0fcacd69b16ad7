package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sanjacob/kangaroo/config"
	"github.com/sanjacob/kangaroo/download"
	"github.com/sanjacob/kangaroo/errors"
	"github.com/sanjacob/kangaroo/logger"
	"github.com/sanjacob/kangaroo/portal"
	"github.com/sanjacob/kangaroo/store"
)

// DownloadCmd represents the download command
var DownloadCmd = &cobra.Command{
	Use:   "download BATCH",
	Short: "Download a batch of certificate records",
	Long: `Download one batch of certificate records from the portal.

Batch N covers certificate numbers [size*(N-1), size*N) with the
configured batch size. Records are stored in the local database and
exported as a JSON file; each record's CURP is checked against the
declared name on the way in.

Examples:
  kangaroo download 42                 # Download batch 42
  kangaroo download 42 --overwrite     # Replace an existing output file
  kangaroo download 42 --no-save       # Skip the JSON export`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

var (
	downloadOverwriteFlag bool
	downloadNoSaveFlag    bool
)

func init() {
	DownloadCmd.Flags().BoolVar(&downloadOverwriteFlag, "overwrite", false, "Overwrite an existing output file")
	DownloadCmd.Flags().BoolVar(&downloadNoSaveFlag, "no-save", false, "Keep records in the database only, skip the JSON export")
}

func runDownload(cmd *cobra.Command, args []string) error {
	batch, err := strconv.Atoi(args[0])
	if err != nil || batch < 1 {
		return errors.Newf("batch must be a positive integer, got %q", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	db, err := store.OpenWithMigrations(cfg.Database.Path, logger.Logger)
	if err != nil {
		return err
	}
	defer db.Close()
	certStore := store.New(db, logger.Logger)

	client := portal.New(portal.Config{
		BaseURL:           cfg.Portal.BaseURL,
		RequestTimeout:    time.Duration(cfg.Portal.RequestTimeoutSeconds) * time.Second,
		RetryAttempts:     cfg.Portal.RetryAttempts,
		RequestsPerMinute: cfg.Portal.RequestsPerMinute,
	}, logger.Logger)

	var bar *pterm.ProgressbarPrinter
	if !logger.JSONOutput {
		bar, _ = pterm.DefaultProgressbar.
			WithTotal(cfg.Download.BatchSize).
			WithTitle(fmt.Sprintf("Batch %d", batch)).
			Start()
	}

	opts := []download.TaskOption{
		download.WithWorkers(cfg.Download.Workers),
		download.WithSink(certStore),
	}
	if bar != nil {
		opts = append(opts, download.WithProgress(func(p download.Progress) {
			bar.Increment()
			if p.ETA > 0 {
				bar.UpdateTitle(fmt.Sprintf("Batch %d (ETA %s)", batch, p.ETA.Round(time.Second)))
			}
		}))
	}

	task, err := download.NewTask(batch, cfg.Download.BatchSize, client, logger.Logger, opts...)
	if err != nil {
		return err
	}

	run := &store.BatchRun{
		ID:        task.ID,
		Batch:     batch,
		BatchSize: cfg.Download.BatchSize,
		StartedAt: time.Now(),
	}
	if err := certStore.SaveBatchRun(cmd.Context(), run); err != nil {
		logger.Warnw("Could not record batch run", "error", err)
	}

	manager := download.NewManager(logger.Logger)

	// Stop cleanly on Ctrl-C, keeping what was already downloaded
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		manager.StopAll()
	}()

	err = manager.Run(ctx, task)
	if bar != nil {
		bar.Stop()
	}
	if err != nil {
		return err
	}

	progress := task.Progress()
	var result *download.Result
	if !downloadNoSaveFlag {
		result, err = task.Save(cfg.Download.Folder, cfg.Download.FilenameFormat, downloadOverwriteFlag)
		if err != nil {
			return err
		}
	}

	completed := time.Now()
	run.CompletedAt = &completed
	run.Downloaded = progress.Downloaded
	run.NotFound = progress.NotFound
	run.Failed = progress.Failed
	if result != nil {
		run.OutputFile = result.Path
		run.MD5 = result.MD5
		run.SHA1 = result.SHA1
	}
	if err := certStore.SaveBatchRun(cmd.Context(), run); err != nil {
		logger.Warnw("Could not record batch run", "error", err)
	}

	if logger.JSONOutput {
		out := map[string]interface{}{
			"task":       task.ID,
			"batch":      batch,
			"state":      task.State(),
			"downloaded": progress.Downloaded,
			"not_found":  progress.NotFound,
			"failed":     progress.Failed,
		}
		if result != nil {
			out["file"] = result
		}
		return printJSON(out)
	}

	data := pterm.TableData{
		{"Batch", strconv.Itoa(batch)},
		{"State", string(task.State())},
		{"Downloaded", strconv.Itoa(progress.Downloaded)},
		{"Not found", strconv.Itoa(progress.NotFound)},
		{"Failed", strconv.Itoa(progress.Failed)},
	}
	if result != nil {
		data = append(data,
			[]string{"File", result.Path},
			[]string{"Size", fmt.Sprintf("%d bytes", result.Bytes)},
			[]string{"MD5", result.MD5},
			[]string{"SHA-1", result.SHA1},
		)
	}
	pterm.DefaultTable.WithData(data).Render()
	return nil
}
