package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recent enhancement runs",
	Long:  `Lists recorded runs, newest first. Given a run ID, shows the pages of that run.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.HistoryDB); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	store, closeDB, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	if len(args) == 1 {
		run, pages, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Run %s (%s) at %s, %s\n\n", run.ID, run.Trigger,
			run.StartedAt.Local().Format(time.DateTime), run.Duration().Round(time.Millisecond))
		fmt.Fprintln(w, "PAGE\tBLOCKS\tBRACKETS\tUNMATCHED")
		for _, p := range pages {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", p.Path, p.Blocks, p.Brackets, p.Unmatched)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return nil
	}
	fmt.Fprintln(w, "ID\tSTARTED\tTRIGGER\tPAGES\tSKIPPED\tBRACKETS\tUNMATCHED\tMISMATCHED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Trigger,
			r.Pages, r.Skipped, r.Stats.Brackets, r.Stats.Unmatched, r.Stats.Mismatched)
	}
	return nil
}
