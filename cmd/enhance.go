package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codetint/internal/progress"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance [dir]",
	Short: "Recolor code blocks in a rendered site",
	Long: `Runs one pass over the rendered site (the configured site_dir, or dir),
applying theme colors and rainbow brackets to every selected code block.
Pages unchanged since the last pass are skipped unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnhance,
}

func init() {
	enhanceCmd.Flags().Bool("force", false, "enhance every page, even if unchanged since the last run")
	enhanceCmd.Flags().String("output", "", "write enhanced pages here instead of in place")
	enhanceCmd.Flags().Bool("no-history", false, "do not record this run in the history database")
	rootCmd.AddCommand(enhanceCmd)
}

func runEnhance(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = cfg.OutputDir
	}

	siteDir := siteDirArg(cfg, args)
	if _, err := os.Stat(siteDir); os.IsNotExist(err) {
		return fmt.Errorf("site directory not found at %s\nRender your site first, or pass its path", siteDir)
	}

	runner, err := newRunner(cfg, siteDir, output, force, progress.NewReporter())
	if err != nil {
		return err
	}
	report, err := runner.Run(ctx, "manual")
	if err != nil {
		return fmt.Errorf("enhancing %s: %w", siteDir, err)
	}
	printReport(report)

	if !noHistory {
		store, closeDB, err := openHistory(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			return nil
		}
		defer closeDB()
		recordRun(ctx, store, report)
	}
	return nil
}
