package enhance

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func classList(n *html.Node) []string {
	v, _ := attr(n, "class")
	return strings.Fields(v)
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classList(n) {
		if c == class {
			return true
		}
	}
	return false
}

func hasAnyClass(n *html.Node, set map[string]bool) bool {
	for _, c := range classList(n) {
		if set[c] {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	cs := classList(n)
	for _, c := range cs {
		if c == class {
			return
		}
	}
	setAttr(n, "class", strings.Join(append(cs, class), " "))
}

// removeClassPrefix drops every class starting with prefix.
func removeClassPrefix(n *html.Node, prefix string) {
	cs := classList(n)
	kept := cs[:0]
	for _, c := range cs {
		if !strings.HasPrefix(c, prefix) {
			kept = append(kept, c)
		}
	}
	if _, ok := attr(n, "class"); ok {
		setAttr(n, "class", strings.Join(kept, " "))
	}
}

func isElement(n *html.Node, a atom.Atom) bool {
	return n.Type == html.ElementNode && n.DataAtom == a
}

// textContent concatenates every text node under n.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
			walk(c.FirstChild)
		}
	}
	walk(n.FirstChild)
	return b.String()
}

// hasElementChild reports whether n has a direct element child.
func hasElementChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

// hasDescendant reports whether any element below n has atom a.
func hasDescendant(n *html.Node, a atom.Atom) bool {
	found := false
	walk(n, func(c *html.Node) bool {
		if c != n && isElement(c, a) {
			found = true
		}
		return !found
	})
	return found
}

// walk visits n and its descendants in document order. Returning false from
// fn stops the walk.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// findAll returns every element below root (excluding root) matching pred, in
// document order.
func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if n != root && n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// spansWithClass returns span elements under root carrying any of classes.
func spansWithClass(root *html.Node, classes []string) []*html.Node {
	set := make(map[string]bool, len(classes))
	for _, c := range classes {
		set[c] = true
	}
	return findAll(root, func(n *html.Node) bool {
		return n.DataAtom == atom.Span && hasAnyClass(n, set)
	})
}

// setStyle sets one CSS property in n's style attribute, replacing any
// earlier value for it and keeping the other declarations in order.
func setStyle(n *html.Node, prop, val string) {
	cur, _ := attr(n, "style")
	var decls []string
	replaced := false
	for _, d := range strings.Split(cur, ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		name := d
		if i := strings.Index(d, ":"); i >= 0 {
			name = strings.TrimSpace(d[:i])
		}
		if strings.EqualFold(name, prop) {
			if !replaced {
				decls = append(decls, prop+": "+val)
				replaced = true
			}
			continue
		}
		decls = append(decls, d)
	}
	if !replaced {
		decls = append(decls, prop+": "+val)
	}
	setAttr(n, "style", strings.Join(decls, "; ")+";")
}

// styleValue returns the value of prop in n's style attribute.
func styleValue(n *html.Node, prop string) string {
	cur, _ := attr(n, "style")
	for _, d := range strings.Split(cur, ";") {
		i := strings.Index(d, ":")
		if i < 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(d[:i]), prop) {
			return strings.TrimSpace(d[i+1:])
		}
	}
	return ""
}

func newSpan(text string, attrs ...html.Attribute) *html.Node {
	span := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr:     attrs,
	}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return span
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}
