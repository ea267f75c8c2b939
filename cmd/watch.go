package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codetint/internal/history"
	"github.com/ziadkadry99/codetint/internal/pipeline"
	"github.com/ziadkadry99/codetint/internal/progress"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-enhance the rendered site whenever it changes",
	Long: `Runs an initial pass, then watches the site directory and runs again
after each burst of changes (debounce_ms). Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("no-history", false, "do not record runs in the history database")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	siteDir := siteDirArg(cfg, args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// In-place only: a separate output dir would never see the site change.
	runner, err := newRunner(cfg, siteDir, "", false, &progress.CIReporter{Out: os.Stderr})
	if err != nil {
		return err
	}

	var store *history.Store
	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		s, closeDB, err := openHistory(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			defer closeDB()
			store = s
		}
	}

	report, err := runner.Run(ctx, "manual")
	if err != nil {
		return fmt.Errorf("enhancing %s: %w", siteDir, err)
	}
	printReport(report)
	recordRun(ctx, store, report)

	fmt.Printf("Watching %s for changes. Press Ctrl+C to stop.\n", siteDir)
	return watchAndRun(ctx, cfg, siteDir, runner, func(r *pipeline.Report) {
		printReport(r)
		recordRun(ctx, store, r)
	})
}
