package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ziadkadry99/codetint/internal/config"
	"github.com/ziadkadry99/codetint/internal/db"
	"github.com/ziadkadry99/codetint/internal/enhance"
	"github.com/ziadkadry99/codetint/internal/history"
	"github.com/ziadkadry99/codetint/internal/pipeline"
	"github.com/ziadkadry99/codetint/internal/progress"
	"github.com/ziadkadry99/codetint/internal/theme"
	"github.com/ziadkadry99/codetint/internal/watcher"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `codetint init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger writes to stderr with --verbose and discards otherwise.
func newLogger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "codetint: ", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// loadTheme builds the configured theme.
func loadTheme(cfg *config.Config) (*theme.Theme, error) {
	th, err := theme.FromConfig(cfg.Theme)
	if err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	return th, nil
}

// newEnhancer creates an enhancer for the configured theme and scheme.
func newEnhancer(cfg *config.Config, logger *log.Logger) (*enhance.Enhancer, error) {
	th, err := loadTheme(cfg)
	if err != nil {
		return nil, err
	}
	scheme, err := theme.SchemeFor(cfg.Scheme)
	if err != nil {
		return nil, err
	}
	return enhance.New(th, enhance.Options{
		Languages:    cfg.Languages,
		Scheme:       scheme,
		InlineStyles: cfg.InlineStyles,
		Logger:       logger,
	}), nil
}

// newRunner wires a pipeline runner for siteDir.
func newRunner(cfg *config.Config, siteDir, outputDir string, force bool, reporter progress.Reporter) (*pipeline.Runner, error) {
	logger := newLogger()
	e, err := newEnhancer(cfg, logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(pipeline.Config{
		SiteDir:     siteDir,
		OutputDir:   outputDir,
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		MaxFileSize: cfg.MaxFileKB * 1024,
		Force:       force,
	}, e, reporter, logger), nil
}

// siteDirArg returns the directory argument, or the configured site dir.
func siteDirArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.SiteDir
}

// openHistory opens the run history database.
func openHistory(cfg *config.Config) (*history.Store, func(), error) {
	database, err := db.Open(cfg.HistoryDB)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	return history.NewStore(database), func() { database.Close() }, nil
}

// recordRun stores report in history, warning instead of failing.
func recordRun(ctx context.Context, store *history.Store, report *pipeline.Report) {
	if store == nil {
		return
	}
	if err := store.Record(ctx, report); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record run: %v\n", err)
	}
}

// printReport prints a one-line summary of a pass.
func printReport(report *pipeline.Report) {
	st := report.Stats
	fmt.Printf("Enhanced %d pages (%d unchanged): %d code blocks, %d brackets in %d pairs",
		len(report.Pages), report.Skipped, st.Blocks, st.Brackets, st.Pairs)
	if st.Unmatched > 0 {
		fmt.Printf(", %d unmatched", st.Unmatched)
	}
	fmt.Printf(" [%s]\n", report.Finished.Sub(report.Started).Round(time.Millisecond))
	if st.Mismatched > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d bracket pairs close with a different kind (run with -v for positions)\n", st.Mismatched)
	}
}

// watchAndRun reruns runner after each debounced change under dir until
// ctx is done. onRun is called after every pass that touched a page.
func watchAndRun(ctx context.Context, cfg *config.Config, dir string, runner *pipeline.Runner, onRun func(*pipeline.Report)) error {
	wcfg := watcher.DefaultConfig(dir)
	wcfg.DebounceDur = time.Duration(cfg.DebounceMS) * time.Millisecond
	wcfg.Logger = newLogger()
	w, err := watcher.New(wcfg)
	if err != nil {
		return err
	}
	defer w.Stop()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			report, err := runner.Run(ctx, "watch")
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			// Our own writes come back as events; those passes skip every page.
			if report.Visited == 0 {
				continue
			}
			onRun(report)
		}
	}
}
