package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codetint/internal/site"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Build a static site from markdown docs",
	Long: `Renders the markdown files under docs_dir to HTML with chroma highlighting,
then recolors every code block with the configured theme.`,
	RunE: runSite,
}

func init() {
	siteCmd.Flags().Bool("serve", false, "start a local HTTP server after generating")
	siteCmd.Flags().Int("port", 8080, "port for the local dev server")
	siteCmd.Flags().Bool("open", false, "open browser automatically when serving")
	siteCmd.Flags().String("output", "", "override output directory (defaults to site_dir)")
	rootCmd.AddCommand(siteCmd)
}

func runSite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.DocsDir); os.IsNotExist(err) {
		return fmt.Errorf("docs directory not found at %s", cfg.DocsDir)
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.SiteDir
	}

	th, err := loadTheme(cfg)
	if err != nil {
		return err
	}

	// Derive the site title from the working directory.
	title := "Documentation"
	if wd, wdErr := os.Getwd(); wdErr == nil {
		if base := filepath.Base(wd); base != "." && base != string(filepath.Separator) {
			title = base
		}
	}

	generator, err := site.NewGenerator(site.Config{
		DocsDir:      cfg.DocsDir,
		OutputDir:    outputDir,
		Title:        title,
		Languages:    cfg.Languages,
		InlineStyles: cfg.InlineStyles,
		Logger:       newLogger(),
	}, th)
	if err != nil {
		return err
	}
	res, err := generator.Generate()
	if err != nil {
		return fmt.Errorf("generating site: %w", err)
	}
	fmt.Printf("Static site generated: %s (%d pages, %d code blocks, %d brackets)\n",
		outputDir, res.Pages, res.Stats.Blocks, res.Stats.Brackets)

	if serve, _ := cmd.Flags().GetBool("serve"); serve {
		port, _ := cmd.Flags().GetInt("port")
		open, _ := cmd.Flags().GetBool("open")
		srv := site.NewServer(site.ServerConfig{
			Dir:         outputDir,
			Port:        port,
			PaletteSize: th.PaletteSize(),
		})
		if open {
			go site.OpenBrowser(srv.URL())
		}
		fmt.Printf("Serving at %s. Press Ctrl+C to stop.\n", srv.URL())
		if err := srv.Start(); err != nil {
			return fmt.Errorf("serving site: %w", err)
		}
	}
	return nil
}
