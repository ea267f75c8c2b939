package enhance

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ziadkadry99/codetint/internal/config"
	"github.com/ziadkadry99/codetint/internal/theme"
)

// styleLineNumbers colors line number markers the same as comments.
func (e *Enhancer) styleLineNumbers(doc *html.Node) {
	if !e.inline {
		return
	}
	var nums []*html.Node
	if e.scheme.Name() == config.SchemeChroma {
		nums = spansWithClass(doc, e.scheme.Classes(theme.RoleLineNumber))
	} else {
		for _, sc := range findAll(doc, func(n *html.Node) bool { return hasClass(n, "sourceCode") }) {
			nums = append(nums, findAll(sc, func(n *html.Node) bool { return n.DataAtom == atom.A })...)
		}
	}
	for _, n := range nums {
		setStyle(n, "color", e.theme.LineNumberColor())
	}
}

// styleRoles applies role colors and word overrides to the spans of block.
func (e *Enhancer) styleRoles(block *html.Node) {
	for _, role := range theme.StyledRoles() {
		st, ok := e.theme.Style(role)
		if !ok {
			continue
		}
		for _, span := range spansWithClass(block, e.scheme.Classes(role)) {
			if e.inline {
				setStyle(span, "color", st.Color)
				if st.Bold {
					setStyle(span, "font-weight", "bold")
				}
				if st.Italic {
					setStyle(span, "font-style", "italic")
				}
			}
			if role == theme.RoleVariable || role == theme.RoleConstant {
				e.styleWord(span)
			}
		}
	}
}

func (e *Enhancer) styleWord(span *html.Node) {
	w, ok := e.theme.Word(textContent(span))
	if !ok {
		return
	}
	if e.inline {
		setStyle(span, "color", w.Color)
	}
	addClass(span, w.Class)
}

// styleErrorTypes marks exception type names. Builtin and variable spans
// naming one are styled whole; other leaf spans get each such word wrapped
// in its own span.
func (e *Enhancer) styleErrorTypes(block *html.Node) {
	names := append(e.scheme.Classes(theme.RoleBuiltin), e.scheme.Classes(theme.RoleVariable)...)
	for _, span := range spansWithClass(block, names) {
		if e.theme.IsErrorType(textContent(span)) {
			e.markError(span)
		}
	}

	spans := findAll(block, func(n *html.Node) bool { return n.DataAtom == atom.Span })
	for _, span := range spans {
		if hasClass(span, theme.ErrorClass) || hasDescendant(span, atom.Span) {
			continue
		}
		text := textContent(span)
		segs := splitWords(text)

		var hits int
		for _, s := range segs {
			if s.word && e.theme.IsErrorType(s.text) {
				hits++
			}
		}
		switch {
		case hits == 0:
			continue
		case len(segs) == 1:
			e.markError(span)
		case !hasElementChild(span):
			e.wrapErrors(span, segs)
		}
	}
}

func (e *Enhancer) markError(span *html.Node) {
	if e.inline {
		setStyle(span, "color", e.theme.ErrorColor())
	}
	addClass(span, theme.ErrorClass)
}

// wrapErrors replaces the children of span with text and one er span per
// exception word.
func (e *Enhancer) wrapErrors(span *html.Node, segs []segment) {
	removeChildren(span)
	var pending string
	flush := func() {
		if pending != "" {
			span.AppendChild(&html.Node{Type: html.TextNode, Data: pending})
			pending = ""
		}
	}
	for _, s := range segs {
		if !s.word || !e.theme.IsErrorType(s.text) {
			pending += s.text
			continue
		}
		flush()
		attrs := []html.Attribute{{Key: "class", Val: theme.ErrorClass}}
		if e.inline {
			attrs = append(attrs, html.Attribute{Key: "style", Val: "color: " + e.theme.ErrorColor() + ";"})
		}
		span.AppendChild(newSpan(s.text, attrs...))
	}
	flush()
}

type segment struct {
	text string
	word bool
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// splitWords cuts s at word boundaries into alternating word and non-word
// runs.
func splitWords(s string) []segment {
	var segs []segment
	var cur []rune
	curWord := false
	for _, r := range s {
		w := isWordRune(r)
		if len(cur) > 0 && w != curWord {
			segs = append(segs, segment{text: string(cur), word: curWord})
			cur = cur[:0]
		}
		cur = append(cur, r)
		curWord = w
	}
	if len(cur) > 0 {
		segs = append(segs, segment{text: string(cur), word: curWord})
	}
	return segs
}
