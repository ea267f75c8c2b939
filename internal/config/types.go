package config

// Scheme names the class-naming convention of the tokenizer that produced
// the highlighted markup.
type Scheme string

const (
	// SchemePandoc matches pandoc/Quarto skylighting output (span.kw, span.op, ...).
	SchemePandoc Scheme = "pandoc"
	// SchemeChroma matches chroma HTML output with classes (span.k, span.p, ...).
	SchemeChroma Scheme = "chroma"
)

// Config is the top-level codetint configuration, corresponding to .codetint.yml.
type Config struct {
	SiteDir      string      `yaml:"site_dir" koanf:"site_dir"`
	DocsDir      string      `yaml:"docs_dir" koanf:"docs_dir"`
	OutputDir    string      `yaml:"output_dir" koanf:"output_dir"`
	Languages    []string    `yaml:"languages" koanf:"languages"`
	Scheme       Scheme      `yaml:"scheme" koanf:"scheme"`
	InlineStyles bool        `yaml:"inline_styles" koanf:"inline_styles"`
	Include      []string    `yaml:"include" koanf:"include"`
	Exclude      []string    `yaml:"exclude" koanf:"exclude"`
	MaxFileKB    int64       `yaml:"max_file_kb" koanf:"max_file_kb"`
	DebounceMS   int         `yaml:"debounce_ms" koanf:"debounce_ms"`
	HistoryDB    string      `yaml:"history_db" koanf:"history_db"`
	Theme        ThemeConfig `yaml:"theme" koanf:"theme"`
}

// ThemeConfig overrides parts of the built-in theme.
type ThemeConfig struct {
	Name    string            `yaml:"name" koanf:"name"`
	Colors  map[string]string `yaml:"colors,omitempty" koanf:"colors"`
	Rainbow []string          `yaml:"rainbow,omitempty" koanf:"rainbow"`
}
