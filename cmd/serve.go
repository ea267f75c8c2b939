package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codetint/internal/pipeline"
	"github.com/ziadkadry99/codetint/internal/progress"
	"github.com/ziadkadry99/codetint/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve the rendered site with watch and live reload",
	Long: `Enhances the rendered site, serves it over HTTP and re-enhances it after
each change. Open pages reload through a websocket when a pass finishes.
The server also exposes POST /api/colorize for trying the bracket matcher.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "port to listen on")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	serveCmd.Flags().Bool("cors-all", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	siteDir := siteDirArg(cfg, args)

	port, _ := cmd.Flags().GetInt("port")
	open, _ := cmd.Flags().GetBool("open")
	corsAll, _ := cmd.Flags().GetBool("cors-all")

	th, err := loadTheme(cfg)
	if err != nil {
		return err
	}
	runner, err := newRunner(cfg, siteDir, "", false, progress.Nop{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runner.Run(ctx, "manual")
	if err != nil {
		return fmt.Errorf("enhancing %s: %w", siteDir, err)
	}
	printReport(report)

	srv := site.NewServer(site.ServerConfig{
		Dir:         siteDir,
		Port:        port,
		LiveReload:  true,
		AllowAll:    corsAll,
		PaletteSize: th.PaletteSize(),
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	go func() {
		err := watchAndRun(ctx, cfg, siteDir, runner, func(r *pipeline.Report) {
			printReport(r)
			if n := srv.Reload(r.RunID); n > 0 && verbose {
				fmt.Fprintf(os.Stderr, "Reloaded %d browser(s)\n", n)
			}
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: watching %s: %v\n", siteDir, err)
		}
	}()

	if open {
		go site.OpenBrowser(srv.URL())
	}
	fmt.Printf("Serving %s at %s with live reload. Press Ctrl+C to stop.\n", siteDir, srv.URL())

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving site: %w", err)
	}
	return nil
}
