package enhance

import (
	"golang.org/x/net/html"

	"github.com/ziadkadry99/codetint/internal/brackets"
	"github.com/ziadkadry99/codetint/internal/theme"
)

// bracketRef locates a bracket token inside its operator span.
type bracketRef struct {
	span   *html.Node
	spanIx int // Index of the span among the block's operator spans.
}

// rainbow colors the brackets of block's operator spans by nesting depth.
func (e *Enhancer) rainbow(block *html.Node, page string, blockIx int, processed *Processed) Stats {
	var stats Stats

	opSpans := spansWithClass(block, e.scheme.Classes(theme.RoleOperator))
	if len(opSpans) == 0 {
		e.logger.Printf("no operator spans found")
		return stats
	}
	stats.Spans = len(opSpans)

	var tokens []brackets.Token
	texts := make([][]rune, len(opSpans))
	pos := 0
	for i, span := range opSpans {
		text := []rune(textContent(span))
		texts[i] = text
		tokens = append(tokens, brackets.Extract(string(text), pos, bracketRef{span: span, spanIx: i})...)
		pos += len(text)
	}

	if len(tokens) == 0 {
		e.logger.Printf("no bracket characters found")
		return stats
	}
	e.logger.Printf("found %d bracket characters", len(tokens))

	res := brackets.Colorize(tokens, e.theme.PaletteSize())
	stats.Brackets = len(tokens)
	stats.Pairs = len(res.Pairs) / 2
	stats.Unmatched = len(res.Unmatched)
	if mm := brackets.Mismatched(tokens, res); len(mm) > 0 {
		stats.Mismatched = len(mm)
		for _, p := range mm {
			e.logger.Printf("bracket %q at %d closed by %q at %d",
				tokens[p[0]].Char, tokens[p[0]].Pos, tokens[p[1]].Char, tokens[p[1]].Pos)
		}
	}

	// Levels of each span's brackets, in span order.
	levels := make(map[int][]int)
	for i, tok := range tokens {
		ref := tok.Ref.(bracketRef)
		levels[ref.spanIx] = append(levels[ref.spanIx], res.Levels[i])
	}

	for i, span := range opSpans {
		lv, ok := levels[i]
		if !ok {
			continue
		}
		switch {
		case len(texts[i]) == 1:
			e.colorBracket(span, lv[0])
		case hasElementChild(span):
			e.recolorExpanded(span, lv)
		default:
			id := spanID(page, blockIx, i)
			if processed.Has(id) {
				continue
			}
			e.expand(span, texts[i], lv)
			processed.Mark(id)
			stats.Expanded++
		}
	}

	e.logger.Printf("rainbow brackets applied")
	return stats
}

// colorBracket sets the absolute rainbow color of a bracket element.
func (e *Enhancer) colorBracket(n *html.Node, level int) {
	if e.inline {
		setStyle(n, "color", e.theme.RainbowColor(level))
		return
	}
	removeClassPrefix(n, "rainbow-")
	addClass(n, theme.RainbowClass(level))
}

// expand replaces a multi-character span's text with one colored span per
// bracket, keeping other characters as text.
func (e *Enhancer) expand(span *html.Node, text []rune, levels []int) {
	removeChildren(span)
	var pending []rune
	flush := func() {
		if len(pending) > 0 {
			span.AppendChild(&html.Node{Type: html.TextNode, Data: string(pending)})
			pending = pending[:0]
		}
	}
	next := 0
	for _, r := range text {
		if !brackets.IsBracket(r) {
			pending = append(pending, r)
			continue
		}
		flush()
		level := 0
		if next < len(levels) {
			level = levels[next]
		}
		next++
		child := newSpan(string(r))
		e.colorBracket(child, level)
		span.AppendChild(child)
	}
	flush()
}

// recolorExpanded updates the bracket child spans of an already expanded
// span, in order.
func (e *Enhancer) recolorExpanded(span *html.Node, levels []int) {
	next := 0
	for c := span.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		r := []rune(textContent(c))
		if len(r) != 1 || !brackets.IsBracket(r[0]) {
			continue
		}
		if next < len(levels) {
			e.colorBracket(c, levels[next])
		}
		next++
	}
}
