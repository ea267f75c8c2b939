package theme

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/codetint/internal/config"
)

func TestGruvboxRainbowOrder(t *testing.T) {
	th := Gruvbox()
	want := []string{"#d3869b", "#83a598", "#8ec07c", "#b8bb26", "#fabd2f", "#fe8019", "#fb4934"}
	got := th.Rainbow()
	if len(got) != len(want) {
		t.Fatalf("rainbow length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rainbow[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if th.PaletteSize() != 7 {
		t.Errorf("PaletteSize = %d, want 7", th.PaletteSize())
	}
}

func TestRainbowIsCopy(t *testing.T) {
	th := Gruvbox()
	r := th.Rainbow()
	r[0] = "#000000"
	if th.RainbowColor(0) != "#d3869b" {
		t.Error("mutating Rainbow() result changed the theme")
	}
}

func TestRainbowColorOutOfRange(t *testing.T) {
	th := Gruvbox()
	if got := th.RainbowColor(42); got != th.RainbowColor(0) {
		t.Errorf("RainbowColor(42) = %q, want level 0 color", got)
	}
	if got := th.RainbowColor(-1); got != th.RainbowColor(0) {
		t.Errorf("RainbowColor(-1) = %q, want level 0 color", got)
	}
}

func TestRoleStyles(t *testing.T) {
	th := Gruvbox()
	tests := []struct {
		role   Role
		color  string
		bold   bool
		italic bool
	}{
		{RoleKeyword, "#fb4934", true, false},
		{RoleString, "#b8bb26", false, false},
		{RoleComment, "#928374", false, true},
		{RoleBuiltin, "#fabd2f", false, false},
		{RoleFunction, "#8ec07c", false, false},
		{RoleVariable, "#83a598", false, false},
		{RoleNumber, "#d3869b", false, false},
	}
	for _, tt := range tests {
		st, ok := th.Style(tt.role)
		if !ok {
			t.Errorf("no style for %s", tt.role)
			continue
		}
		if st.Color != tt.color || st.Bold != tt.bold || st.Italic != tt.italic {
			t.Errorf("%s style = %+v, want color %s bold %v italic %v", tt.role, st, tt.color, tt.bold, tt.italic)
		}
	}
}

func TestWords(t *testing.T) {
	th := Gruvbox()
	for _, w := range []string{"None", "True", "False"} {
		got, ok := th.Word(w)
		if !ok || got.Class != "bool-value" || got.Color != "#d3869b" {
			t.Errorf("Word(%q) = %+v, %v", w, got, ok)
		}
	}
	for _, w := range []string{"self", "cls"} {
		got, ok := th.Word(w)
		if !ok || got.Class != "self-ref" {
			t.Errorf("Word(%q) = %+v, %v", w, got, ok)
		}
	}
	if _, ok := th.Word("none"); ok {
		t.Error("word overrides should be case-sensitive")
	}
}

func TestIsErrorType(t *testing.T) {
	th := Gruvbox()
	tests := []struct {
		word string
		want bool
	}{
		{"ValueError", true},
		{"MyCustomException", true},
		{"Exception", true},
		{"Error", true},
		{"StopIteration", false},
		{"error", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := th.IsErrorType(tt.word); got != tt.want {
			t.Errorf("IsErrorType(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestFromConfigOverrides(t *testing.T) {
	th, err := FromConfig(config.ThemeConfig{
		Colors:  map[string]string{"red": "#FF0000"},
		Rainbow: []string{"#111111", "#222222"},
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	st, _ := th.Style(RoleKeyword)
	if st.Color != "#ff0000" {
		t.Errorf("keyword color = %q, want overridden #ff0000", st.Color)
	}
	if th.PaletteSize() != 2 {
		t.Errorf("PaletteSize = %d, want 2", th.PaletteSize())
	}
}

func TestFromConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ThemeConfig
	}{
		{"unknown name", config.ThemeConfig{Name: "solarized"}},
		{"bad color", config.ThemeConfig{Colors: map[string]string{"red": "nope"}}},
		{"empty rainbow", config.ThemeConfig{Rainbow: []string{}}},
		{"bad rainbow", config.ThemeConfig{Rainbow: []string{"#zzzzzz"}}},
	}
	for _, tt := range tests {
		if _, err := FromConfig(tt.cfg); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestPandocScheme(t *testing.T) {
	s, err := SchemeFor(config.SchemePandoc)
	if err != nil {
		t.Fatalf("SchemeFor: %v", err)
	}
	tests := map[string]Role{
		"kw": RoleKeyword,
		"cf": RoleKeyword,
		"im": RoleKeyword,
		"st": RoleString,
		"co": RoleComment,
		"bu": RoleBuiltin,
		"fu": RoleFunction,
		"va": RoleVariable,
		"dv": RoleNumber,
		"fl": RoleNumber,
		"op": RoleOperator,
	}
	for class, want := range tests {
		if got, ok := s.RoleOf(class); !ok || got != want {
			t.Errorf("RoleOf(%q) = %q, %v; want %q", class, got, ok, want)
		}
	}
}

func TestChromaScheme(t *testing.T) {
	s, err := SchemeFor(config.SchemeChroma)
	if err != nil {
		t.Fatalf("SchemeFor: %v", err)
	}
	tests := map[string]Role{
		"k":  RoleKeyword,
		"kn": RoleKeyword,
		"kc": RoleConstant,
		"s":  RoleString,
		"s2": RoleString,
		"c1": RoleComment,
		"nb": RoleBuiltin,
		"nf": RoleFunction,
		"mi": RoleNumber,
		"o":  RoleOperator,
		"p":  RoleOperator,
		"ln": RoleLineNumber,
	}
	for class, want := range tests {
		if got, ok := s.RoleOf(class); !ok || got != want {
			t.Errorf("RoleOf(%q) = %q, %v; want %q", class, got, ok, want)
		}
	}
}

func TestSchemeForUnknown(t *testing.T) {
	if _, err := SchemeFor("prism"); err == nil {
		t.Error("expected error for unknown scheme")
	}
}

func TestCSS(t *testing.T) {
	s, _ := SchemeFor(config.SchemePandoc)
	css := Gruvbox().CSS(s)
	for _, want := range []string{
		"code span.kw",
		"font-weight: bold;",
		"code span.rainbow-0 { color: #d3869b; }",
		"code span.rainbow-6 { color: #fb4934; }",
		"code span.er { color: #fabd2f; }",
		"code span.bool-value",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("CSS missing %q", want)
		}
	}
}
