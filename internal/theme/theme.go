// Package theme holds the immutable color configuration applied to
// highlighted code: role styles, the rainbow bracket palette, word overrides
// and error type names.
package theme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ziadkadry99/codetint/internal/config"
)

// Role is the syntactic role of a highlighted span, independent of the
// tokenizer's class names.
type Role string

const (
	RoleKeyword    Role = "keyword"
	RoleString     Role = "string"
	RoleComment    Role = "comment"
	RoleBuiltin    Role = "builtin"
	RoleFunction   Role = "function"
	RoleVariable   Role = "variable"
	RoleConstant   Role = "constant"
	RoleNumber     Role = "number"
	RoleOperator   Role = "operator"
	RoleLineNumber Role = "linenumber"
)

// styledRoles is the order in which roles are styled inside a code block.
var styledRoles = []Role{
	RoleKeyword,
	RoleString,
	RoleComment,
	RoleBuiltin,
	RoleFunction,
	RoleVariable,
	RoleConstant,
	RoleNumber,
}

// Style is the presentation of one role.
type Style struct {
	Color  string // Resolved hex color.
	Bold   bool
	Italic bool
}

// Word is a per-word override applied to variable and constant spans.
type Word struct {
	Color string // Resolved hex color.
	Class string // Extra class added to the span.
}

// ErrorClass is added to spans recognised as exception types.
const ErrorClass = "er"

// Theme is a resolved, read-only color configuration.
type Theme struct {
	name       string
	colors     map[string]string
	rainbow    []string
	styles     map[Role]Style
	words      map[string]Word
	errorTypes map[string]bool
	errorColor string
	lineNumber string
}

// gruvboxColors are the Gruvbox dark colors.
var gruvboxColors = map[string]string{
	"bg":         "#282828",
	"fg":         "#ebdbb2",
	"red":        "#fb4934",
	"green":      "#b8bb26",
	"yellow":     "#fabd2f",
	"blue":       "#83a598",
	"purple":     "#d3869b",
	"darkPurple": "#b16286",
	"aqua":       "#8ec07c",
	"orange":     "#fe8019",
	"gray":       "#928374",
}

// rainbowOrder names the bracket colors from depth 0 outward.
var rainbowOrder = []string{"purple", "blue", "aqua", "green", "yellow", "orange", "red"}

type roleSpec struct {
	color  string
	bold   bool
	italic bool
}

var roleSpecs = map[Role]roleSpec{
	RoleKeyword:  {color: "red", bold: true},
	RoleString:   {color: "green"},
	RoleComment:  {color: "gray", italic: true},
	RoleBuiltin:  {color: "yellow"},
	RoleFunction: {color: "aqua"},
	RoleVariable: {color: "blue"},
	RoleConstant: {color: "purple"},
	RoleNumber:   {color: "purple"},
}

var wordSpecs = map[string]struct{ color, class string }{
	"None":  {"purple", "bool-value"},
	"True":  {"purple", "bool-value"},
	"False": {"purple", "bool-value"},
	"self":  {"blue", "self-ref"},
	"cls":   {"blue", "self-ref"},
}

// DefaultErrorTypes are exception names highlighted even without an
// Error/Exception suffix match.
var DefaultErrorTypes = []string{
	"Exception", "Error", "ValueError", "TypeError", "KeyError", "IndexError",
	"RuntimeError", "FileNotFoundError", "ImportError", "AttributeError",
}

// Gruvbox returns the built-in Gruvbox dark theme.
func Gruvbox() *Theme {
	t, _ := build("gruvbox", nil, nil)
	return t
}

// FromConfig resolves a theme from configuration overrides.
func FromConfig(cfg config.ThemeConfig) (*Theme, error) {
	name := cfg.Name
	if name == "" {
		name = "gruvbox"
	}
	if name != "gruvbox" {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	return build(name, cfg.Colors, cfg.Rainbow)
}

func build(name string, overrides map[string]string, rainbow []string) (*Theme, error) {
	colors := make(map[string]string, len(gruvboxColors)+len(overrides))
	for k, v := range gruvboxColors {
		colors[k] = v
	}
	for k, v := range overrides {
		if !config.IsHexColor(v) {
			return nil, fmt.Errorf("theme color %s: invalid value %q", k, v)
		}
		colors[k] = strings.ToLower(v)
	}

	t := &Theme{
		name:       name,
		colors:     colors,
		styles:     make(map[Role]Style, len(roleSpecs)),
		words:      make(map[string]Word, len(wordSpecs)),
		errorTypes: make(map[string]bool, len(DefaultErrorTypes)),
		errorColor: colors["yellow"],
		lineNumber: colors["gray"],
	}

	if rainbow == nil {
		for _, n := range rainbowOrder {
			t.rainbow = append(t.rainbow, colors[n])
		}
	} else {
		if len(rainbow) == 0 {
			return nil, fmt.Errorf("theme rainbow must have at least one color")
		}
		for i, v := range rainbow {
			if !config.IsHexColor(v) {
				return nil, fmt.Errorf("rainbow color %d: invalid value %q", i, v)
			}
			t.rainbow = append(t.rainbow, strings.ToLower(v))
		}
	}

	for role, spec := range roleSpecs {
		t.styles[role] = Style{Color: colors[spec.color], Bold: spec.bold, Italic: spec.italic}
	}
	for w, spec := range wordSpecs {
		t.words[w] = Word{Color: colors[spec.color], Class: spec.class}
	}
	for _, e := range DefaultErrorTypes {
		t.errorTypes[e] = true
	}
	return t, nil
}

// Name returns the theme name.
func (t *Theme) Name() string { return t.name }

// Color returns the named color, or "" if the theme has none by that name.
func (t *Theme) Color(name string) string { return t.colors[name] }

// PaletteSize is the number of rainbow bracket colors.
func (t *Theme) PaletteSize() int { return len(t.rainbow) }

// Rainbow returns a copy of the bracket palette.
func (t *Theme) Rainbow() []string {
	out := make([]string, len(t.rainbow))
	copy(out, t.rainbow)
	return out
}

// RainbowColor returns the color for palette index level. Out of range
// levels fall back to index 0.
func (t *Theme) RainbowColor(level int) string {
	if level < 0 || level >= len(t.rainbow) {
		level = 0
	}
	return t.rainbow[level]
}

// Style returns the style for role.
func (t *Theme) Style(role Role) (Style, bool) {
	s, ok := t.styles[role]
	return s, ok
}

// StyledRoles returns the roles styled per block, in application order.
func StyledRoles() []Role {
	out := make([]Role, len(styledRoles))
	copy(out, styledRoles)
	return out
}

// Word returns the override for an exact span text.
func (t *Theme) Word(text string) (Word, bool) {
	w, ok := t.words[text]
	return w, ok
}

// ErrorColor is the color of exception type names.
func (t *Theme) ErrorColor() string { return t.errorColor }

// LineNumberColor is the color of line number anchors.
func (t *Theme) LineNumberColor() string { return t.lineNumber }

// IsErrorType reports whether word names an exception type.
func (t *Theme) IsErrorType(word string) bool {
	if word == "" {
		return false
	}
	return strings.HasSuffix(word, "Error") || strings.HasSuffix(word, "Exception") || t.errorTypes[word]
}

// RainbowClass is the class carried by a bracket at palette index level when
// styles are emitted as classes.
func RainbowClass(level int) string {
	return fmt.Sprintf("rainbow-%d", level)
}

// CSS renders a stylesheet for class-based output under scheme.
func (t *Theme) CSS(scheme Scheme) string {
	var b strings.Builder
	fmt.Fprintf(&b, "/* codetint theme: %s */\n", t.name)

	for _, role := range styledRoles {
		st := t.styles[role]
		classes := scheme.Classes(role)
		if len(classes) == 0 {
			continue
		}
		sels := make([]string, len(classes))
		for i, c := range classes {
			sels[i] = "code span." + c
		}
		fmt.Fprintf(&b, "%s { %s }\n", strings.Join(sels, ", "), declarations(st))
	}

	words := make([]string, 0, len(t.words))
	for w := range t.words {
		words = append(words, w)
	}
	sort.Strings(words)
	seen := make(map[string]bool)
	for _, w := range words {
		wd := t.words[w]
		if seen[wd.Class] {
			continue
		}
		seen[wd.Class] = true
		fmt.Fprintf(&b, "code span.%s { color: %s; }\n", wd.Class, wd.Color)
	}

	fmt.Fprintf(&b, "code span.%s { color: %s; }\n", ErrorClass, t.errorColor)
	if ln := scheme.Classes(RoleLineNumber); len(ln) > 0 {
		sels := make([]string, len(ln))
		for i, c := range ln {
			sels[i] = "span." + c
		}
		fmt.Fprintf(&b, "%s { color: %s; }\n", strings.Join(sels, ", "), t.lineNumber)
	} else {
		fmt.Fprintf(&b, ".sourceCode a { color: %s; }\n", t.lineNumber)
	}
	for i, c := range t.rainbow {
		fmt.Fprintf(&b, "code span.%s { color: %s; }\n", RainbowClass(i), c)
	}
	return b.String()
}

// declarations renders st as CSS declarations.
func declarations(st Style) string {
	parts := []string{"color: " + st.Color + ";"}
	if st.Bold {
		parts = append(parts, "font-weight: bold;")
	}
	if st.Italic {
		parts = append(parts, "font-style: italic;")
	}
	return strings.Join(parts, " ")
}
