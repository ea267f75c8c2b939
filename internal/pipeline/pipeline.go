// Package pipeline runs one enhancement pass over a rendered site.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/codetint/internal/enhance"
	"github.com/ziadkadry99/codetint/internal/progress"
	"github.com/ziadkadry99/codetint/internal/state"
	"github.com/ziadkadry99/codetint/internal/walker"
)

// Config describes where pages come from and where they go.
type Config struct {
	SiteDir     string   // Rendered site to read.
	OutputDir   string   // Destination; empty rewrites pages in place.
	Include     []string // Page globs.
	Exclude     []string
	MaxFileSize int64
	Force       bool // Enhance pages even when unchanged since the last run.
}

// PageResult is the outcome for one page.
type PageResult struct {
	Path  string        `json:"path"`
	Stats enhance.Stats `json:"stats"`
}

// Report summarises a pass.
type Report struct {
	RunID    string        `json:"run_id"`
	Trigger  string        `json:"trigger"`
	SiteDir  string        `json:"site_dir"`
	Pages    []PageResult  `json:"pages"` // Pages with at least one code block.
	Visited  int           `json:"visited"`
	Skipped  int           `json:"skipped"`
	Stats    enhance.Stats `json:"stats"`
	Started  time.Time     `json:"started"`
	Finished time.Time     `json:"finished"`
}

// Runner enhances a site repeatedly.
type Runner struct {
	cfg      Config
	enhancer *enhance.Enhancer
	reporter progress.Reporter
	logger   *log.Logger
}

// NewRunner creates a Runner. A nil reporter or logger discards output.
func NewRunner(cfg Config, e *enhance.Enhancer, reporter progress.Reporter, logger *log.Logger) *Runner {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{
		cfg:      cfg,
		enhancer: e,
		reporter: reporter,
		logger:   logger,
	}
}

// stateDir is where state.json lives: next to the pages being written.
func (r *Runner) stateDir() string {
	if r.cfg.OutputDir != "" {
		return r.cfg.OutputDir
	}
	return r.cfg.SiteDir
}

// Run performs one pass. trigger labels what caused it (manual, watch, ...).
// Cancellation is checked between pages.
func (r *Runner) Run(ctx context.Context, trigger string) (*Report, error) {
	report := &Report{
		RunID:   uuid.New().String(),
		Trigger: trigger,
		SiteDir: r.cfg.SiteDir,
		Started: time.Now(),
	}

	pages, err := walker.Walk(walker.Config{
		RootDir:     r.cfg.SiteDir,
		Include:     r.cfg.Include,
		Exclude:     r.cfg.Exclude,
		MaxFileSize: r.cfg.MaxFileSize,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering pages: %w", err)
	}

	st, err := state.Load(r.stateDir())
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}

	seen := make(map[string]bool, len(pages))
	r.reporter.Start(len(pages))
	defer r.reporter.Finish()

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen[page.RelPath] = true
		r.reporter.Update(i+1, page.RelPath)

		if !r.cfg.Force && !st.IsChanged(page.RelPath, page.ContentHash) {
			report.Skipped++
			continue
		}

		res, recorded, err := r.enhancePage(page)
		if err != nil {
			return nil, err
		}
		st.Record(page.RelPath, recorded)
		report.Visited++
		if res.Stats.Blocks > 0 {
			report.Pages = append(report.Pages, res)
			report.Stats.Add(res.Stats)
		}
	}

	st.Prune(seen)
	st.LastRunID = report.RunID
	if err := st.Save(r.stateDir()); err != nil {
		return nil, fmt.Errorf("saving state: %w", err)
	}

	report.Finished = time.Now()
	r.logger.Printf("run %s: %d pages enhanced, %d skipped, %d brackets", report.RunID, len(report.Pages), report.Skipped, report.Stats.Brackets)
	return report, nil
}

// enhancePage enhances and writes one page. It returns the hash to record:
// the written content when rewriting in place, the source otherwise.
func (r *Runner) enhancePage(page walker.Page) (PageResult, string, error) {
	src, err := os.ReadFile(page.Path)
	if err != nil {
		return PageResult{}, "", fmt.Errorf("reading %s: %w", page.RelPath, err)
	}

	// Each read yields a new tree, so the expansion set lives for this page
	// only. Spans expanded by an earlier run are recognised by their markup.
	out, stats, err := r.enhancer.Bytes(src, page.RelPath, enhance.NewProcessed())
	if err != nil {
		return PageResult{}, "", err
	}

	result := PageResult{Path: page.RelPath, Stats: stats}

	if r.cfg.OutputDir == "" {
		if !bytes.Equal(out, src) {
			if err := os.WriteFile(page.Path, out, 0o644); err != nil {
				return PageResult{}, "", fmt.Errorf("writing %s: %w", page.RelPath, err)
			}
		}
		return result, walker.HashBytes(out), nil
	}

	dest := filepath.Join(r.cfg.OutputDir, filepath.FromSlash(page.RelPath))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return PageResult{}, "", err
	}
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return PageResult{}, "", fmt.Errorf("writing %s: %w", dest, err)
	}
	return result, page.ContentHash, nil
}
