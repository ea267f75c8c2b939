// Package enhance recolors already-highlighted code blocks in rendered HTML
// pages: role colors for tokenizer spans, exception type names, and rainbow
// colors for nested brackets.
package enhance

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ziadkadry99/codetint/internal/config"
	"github.com/ziadkadry99/codetint/internal/theme"
)

// Options controls which blocks are enhanced and how styles are emitted.
type Options struct {
	// Languages selects code blocks by language class. "*" matches any.
	Languages []string
	// Scheme is the tokenizer class convention of the input markup.
	Scheme theme.Scheme
	// InlineStyles writes style attributes. When false, rainbow brackets
	// get rainbow-N classes and role colors are left to the stylesheet.
	InlineStyles bool
	// Logger receives informational messages. Nil discards them.
	Logger *log.Logger
}

// Enhancer applies a theme to highlighted code blocks. It holds no
// per-document state and is safe for concurrent use.
type Enhancer struct {
	theme     *theme.Theme
	scheme    theme.Scheme
	languages map[string]bool
	anyLang   bool
	inline    bool
	logger    *log.Logger
}

// New creates an Enhancer for th.
func New(th *theme.Theme, opts Options) *Enhancer {
	e := &Enhancer{
		theme:     th,
		scheme:    opts.Scheme,
		languages: make(map[string]bool),
		inline:    opts.InlineStyles,
		logger:    opts.Logger,
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	if e.scheme.Name() == "" {
		e.scheme, _ = theme.SchemeFor(config.SchemePandoc)
	}
	for _, l := range opts.Languages {
		if l == "*" {
			e.anyLang = true
			continue
		}
		e.languages[strings.ToLower(l)] = true
	}
	if len(opts.Languages) == 0 {
		e.anyLang = true
	}
	return e
}

// Stats counts what a pass touched.
type Stats struct {
	Blocks     int `json:"blocks"`
	Spans      int `json:"spans"`
	Brackets   int `json:"brackets"`
	Pairs      int `json:"pairs"`
	Unmatched  int `json:"unmatched"`
	Mismatched int `json:"mismatched"`
	Expanded   int `json:"expanded"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Blocks += o.Blocks
	s.Spans += o.Spans
	s.Brackets += o.Brackets
	s.Pairs += o.Pairs
	s.Unmatched += o.Unmatched
	s.Mismatched += o.Mismatched
	s.Expanded += o.Expanded
}

// Processed is the caller-held set of multi-character operator spans that
// have already been split into per-bracket spans. Keep one per page for as
// long as the same parsed tree may be enhanced again.
type Processed struct {
	ids map[string]bool
}

// NewProcessed returns an empty set.
func NewProcessed() *Processed {
	return &Processed{ids: make(map[string]bool)}
}

// Has reports whether id has been expanded.
func (p *Processed) Has(id string) bool { return p.ids[id] }

// Mark records id as expanded.
func (p *Processed) Mark(id string) { p.ids[id] = true }

// Len returns the number of recorded spans.
func (p *Processed) Len() int { return len(p.ids) }

// IDs returns the recorded identifiers, sorted.
func (p *Processed) IDs() []string {
	out := make([]string, 0, len(p.ids))
	for id := range p.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// spanID identifies an operator span within a page.
func spanID(page string, block, span int) string {
	return fmt.Sprintf("%s#%d:%d", page, block, span)
}

// Document enhances every selected code block under doc in place. page
// namespaces the identifiers recorded in processed, which may be nil.
func (e *Enhancer) Document(doc *html.Node, page string, processed *Processed) Stats {
	if processed == nil {
		processed = NewProcessed()
	}

	blocks := e.codeBlocks(doc)
	e.logger.Printf("found %d code blocks in %s", len(blocks), page)

	var stats Stats
	if len(blocks) == 0 {
		return stats
	}

	e.styleLineNumbers(doc)

	for i, block := range blocks {
		e.logger.Printf("processing code block: %s", preview(block))
		e.styleRoles(block)
		e.styleErrorTypes(block)
		bs := e.rainbow(block, page, i, processed)
		stats.Add(bs)
	}
	stats.Blocks = len(blocks)
	return stats
}

// Bytes parses src as an HTML document, enhances it and renders the result.
// A page without selected code blocks is returned unchanged.
func (e *Enhancer) Bytes(src []byte, page string, processed *Processed) ([]byte, Stats, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, Stats{}, fmt.Errorf("parsing %s: %w", page, err)
	}

	stats := e.Document(doc, page, processed)
	if stats.Blocks == 0 {
		return src, stats, nil
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, stats, fmt.Errorf("rendering %s: %w", page, err)
	}
	return buf.Bytes(), stats, nil
}

// Stream reads a page from r and writes the enhanced page to w.
func (e *Enhancer) Stream(r io.Reader, w io.Writer, page string) (Stats, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Stats{}, fmt.Errorf("reading %s: %w", page, err)
	}
	out, stats, err := e.Bytes(src, page, nil)
	if err != nil {
		return stats, err
	}
	if _, err := w.Write(out); err != nil {
		return stats, fmt.Errorf("writing %s: %w", page, err)
	}
	return stats, nil
}

// codeBlocks returns the code elements to enhance, in document order.
func (e *Enhancer) codeBlocks(doc *html.Node) []*html.Node {
	if e.scheme.Name() == config.SchemeChroma {
		return findAll(doc, func(n *html.Node) bool {
			if n.DataAtom != atom.Code {
				return false
			}
			pre := n.Parent
			if pre == nil || !isElement(pre, atom.Pre) || !hasClass(pre, "chroma") {
				return false
			}
			return e.chromaLanguageMatches(n)
		})
	}

	return findAll(doc, func(n *html.Node) bool {
		if n.DataAtom != atom.Code || !hasClass(n, "sourceCode") {
			return false
		}
		if e.anyLang {
			return true
		}
		for _, c := range classList(n) {
			if e.languages[strings.ToLower(c)] {
				return true
			}
		}
		return false
	})
}

// chromaLanguageMatches checks language-X / data-lang markers. Blocks that
// carry no language marker are accepted.
func (e *Enhancer) chromaLanguageMatches(code *html.Node) bool {
	if e.anyLang {
		return true
	}
	lang, ok := attr(code, "data-lang")
	if !ok {
		for _, c := range classList(code) {
			if strings.HasPrefix(c, "language-") {
				lang, ok = strings.TrimPrefix(c, "language-"), true
				break
			}
		}
	}
	if !ok {
		return true
	}
	return e.languages[strings.ToLower(lang)]
}

// preview returns the first 20 characters of a block for log lines.
func preview(n *html.Node) string {
	r := []rune(textContent(n))
	if len(r) > 20 {
		r = r[:20]
	}
	return string(r) + "..."
}
