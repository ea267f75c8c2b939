package config

// DefaultExcludes are glob patterns never enhanced by default.
var DefaultExcludes = []string{
	"site_libs/**",
	"search.json",
	"**/*.min.html",
}

// DefaultDebounceMS matches the delay the enhancement pass waits for the
// page renderer to settle before re-running.
const DefaultDebounceMS = 500

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteDir:      "_site",
		DocsDir:      "docs",
		OutputDir:    "",
		Languages:    []string{"python"},
		Scheme:       SchemePandoc,
		InlineStyles: true,
		Include:      []string{"**/*.html"},
		Exclude:      DefaultExcludes,
		MaxFileKB:    4096,
		DebounceMS:   DefaultDebounceMS,
		HistoryDB:    ".codetint/history.db",
		Theme: ThemeConfig{
			Name: "gruvbox",
		},
	}
}
