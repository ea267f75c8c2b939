package site

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// navEntry is one page in the sidebar.
type navEntry struct {
	Path  string // Markdown path relative to the docs dir.
	Title string
}

// renderNav renders the sidebar list. Pages are grouped under their
// directory, index.md first.
func renderNav(entries []navEntry, activePath, basePath string) string {
	var b strings.Builder
	b.WriteString("<ul>\n")
	dir := ""
	for _, e := range ordered(entries) {
		if d := dirOf(e.Path); d != dir {
			dir = d
			if d != "" {
				fmt.Fprintf(&b, "<li class=\"dir\">%s</li>\n", html.EscapeString(formatDirName(d)))
			}
		}
		active := ""
		if e.Path == activePath {
			active = ` class="active"`
		}
		fmt.Fprintf(&b, "<li class=\"file\"><a href=\"%s%s\"%s>%s</a></li>\n",
			basePath, mdPathToHTML(e.Path), active, html.EscapeString(e.Title))
	}
	b.WriteString("</ul>\n")
	return b.String()
}

// ordered puts index.md first, then top-level pages, then nested pages in
// path order.
func ordered(entries []navEntry) []navEntry {
	out := append([]navEntry(nil), entries...)
	rank := func(e navEntry) int {
		switch {
		case e.Path == "index.md":
			return 0
		case dirOf(e.Path) == "":
			return 1
		}
		return 2
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i].Path < out[j].Path
	})
	return out
}

func dirOf(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return ""
}

// formatDirName title-cases each path segment: "user-guide/api" becomes
// "User Guide / Api".
func formatDirName(name string) string {
	segs := strings.Split(name, "/")
	for i, seg := range segs {
		words := strings.FieldsFunc(seg, func(c rune) bool {
			return c == '-' || c == '_'
		})
		for j, w := range words {
			words[j] = strings.ToUpper(w[:1]) + w[1:]
		}
		segs[i] = strings.Join(words, " ")
	}
	return strings.Join(segs, " / ")
}
