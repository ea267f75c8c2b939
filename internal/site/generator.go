// Package site renders markdown docs to an enhanced static site and serves
// it with live reload.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/codetint/internal/config"
	"github.com/ziadkadry99/codetint/internal/enhance"
	"github.com/ziadkadry99/codetint/internal/theme"
)

// chromaStyle is the base highlighter style the theme is layered over.
const chromaStyle = "gruvbox"

// Config describes a markdown site build.
type Config struct {
	DocsDir      string
	OutputDir    string
	Title        string
	Languages    []string
	InlineStyles bool
	Logger       *log.Logger
}

// Result summarises a build.
type Result struct {
	Pages int
	Stats enhance.Stats
}

// Generator converts markdown documentation into a static HTML site whose
// code blocks are highlighted by chroma and then recolored by the enhancer.
type Generator struct {
	cfg      Config
	theme    *theme.Theme
	scheme   theme.Scheme
	enhancer *enhance.Enhancer
	md       goldmark.Markdown
	tmpl     *template.Template
	logger   *log.Logger
}

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title     string
	SiteTitle string
	Content   template.HTML
	NavHTML   template.HTML
	BasePath  string
}

// NewGenerator creates a Generator that styles pages with th.
func NewGenerator(cfg Config, th *theme.Theme) (*Generator, error) {
	scheme, err := theme.SchemeFor(config.SchemeChroma)
	if err != nil {
		return nil, err
	}
	if cfg.Title == "" {
		cfg.Title = "Documentation"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(chromaStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &Generator{
		cfg:    cfg,
		theme:  th,
		scheme: scheme,
		enhancer: enhance.New(th, enhance.Options{
			Languages:    cfg.Languages,
			Scheme:       scheme,
			InlineStyles: cfg.InlineStyles,
			Logger:       logger,
		}),
		md:     md,
		tmpl:   tmpl,
		logger: logger,
	}, nil
}

// Generate builds the full static site from markdown files.
func (g *Generator) Generate() (*Result, error) {
	var mdPaths, assets []string
	err := filepath.WalkDir(g.cfg.DocsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != g.cfg.DocsDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(g.cfg.DocsDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasSuffix(rel, ".md") {
			mdPaths = append(mdPaths, rel)
		} else {
			assets = append(assets, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking docs dir: %w", err)
	}
	if len(mdPaths) == 0 {
		return nil, fmt.Errorf("no markdown files found in %s", g.cfg.DocsDir)
	}
	sort.Strings(mdPaths)

	sources := make(map[string][]byte, len(mdPaths))
	var nav []navEntry
	for _, rel := range mdPaths {
		content, err := os.ReadFile(filepath.Join(g.cfg.DocsDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		sources[rel] = content
		nav = append(nav, navEntry{Path: rel, Title: extractTitle(string(content), rel)})
	}

	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}
	css, err := g.Stylesheet()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(g.cfg.OutputDir, "style.css"), []byte(css), 0o644); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, rel := range mdPaths {
		stats, err := g.renderPage(rel, sources[rel], nav)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", rel, err)
		}
		res.Pages++
		res.Stats.Add(stats)
	}

	for _, rel := range assets {
		if err := copyFile(filepath.Join(g.cfg.DocsDir, filepath.FromSlash(rel)), filepath.Join(g.cfg.OutputDir, filepath.FromSlash(rel))); err != nil {
			return nil, fmt.Errorf("copying %s: %w", rel, err)
		}
	}

	g.logger.Printf("site: %d pages, %d code blocks, %d brackets", res.Pages, res.Stats.Blocks, res.Stats.Brackets)
	return res, nil
}

// Stylesheet returns style.css: page layout, chroma's base style, then the
// theme's class rules.
func (g *Generator) Stylesheet() (string, error) {
	var b strings.Builder
	b.WriteString(layoutCSS)

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, styles.Get(chromaStyle)); err != nil {
		return "", fmt.Errorf("writing chroma css: %w", err)
	}

	b.WriteString(g.theme.CSS(g.scheme))
	return b.String(), nil
}

// renderPage converts a single markdown file to an enhanced HTML page.
func (g *Generator) renderPage(relPath string, content []byte, nav []navEntry) (enhance.Stats, error) {
	var body bytes.Buffer
	if err := g.md.Convert(content, &body); err != nil {
		return enhance.Stats{}, fmt.Errorf("converting markdown: %w", err)
	}

	htmlRelPath := mdPathToHTML(relPath)
	basePath := strings.Repeat("../", strings.Count(htmlRelPath, "/"))

	var page bytes.Buffer
	err := g.tmpl.Execute(&page, pageData{
		Title:     extractTitle(string(content), relPath),
		SiteTitle: g.cfg.Title,
		Content:   template.HTML(rewriteMDLinks(body.String())),
		NavHTML:   template.HTML(renderNav(nav, relPath, basePath)),
		BasePath:  basePath,
	})
	if err != nil {
		return enhance.Stats{}, err
	}

	out, stats, err := g.enhancer.Bytes(page.Bytes(), htmlRelPath, enhance.NewProcessed())
	if err != nil {
		return stats, err
	}

	outPath := filepath.Join(g.cfg.OutputDir, filepath.FromSlash(htmlRelPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return stats, err
	}
	return stats, os.WriteFile(outPath, out, 0o644)
}

// extractTitle pulls the first # heading from markdown content, or falls back to the filename.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return strings.TrimSuffix(filepath.Base(relPath), ".md")
}

// rewriteMDLinks changes .md links in HTML content to .html links.
func rewriteMDLinks(content string) string {
	content = strings.ReplaceAll(content, `.md"`, `.html"`)
	return strings.ReplaceAll(content, `.md#`, `.html#`)
}

// mdPathToHTML converts a markdown path to its HTML equivalent.
func mdPathToHTML(p string) string {
	if strings.HasSuffix(p, ".md") {
		return strings.TrimSuffix(p, ".md") + ".html"
	}
	return p
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
