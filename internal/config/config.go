package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CODETINT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: CODETINT_SITE_DIR -> site_dir, etc.
	if err := k.Load(env.Provider("CODETINT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CODETINT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validSchemes is the set of recognized tokenizer schemes.
var validSchemes = map[Scheme]bool{
	SchemePandoc: true,
	SchemeChroma: true,
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is a #rgb or #rrggbb color.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.SiteDir == "" {
		return fmt.Errorf("site_dir is required")
	}

	if !validSchemes[c.Scheme] {
		return fmt.Errorf("invalid scheme %q: must be one of pandoc, chroma", c.Scheme)
	}

	if len(c.Languages) == 0 {
		return fmt.Errorf("languages must list at least one language")
	}

	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must be non-negative")
	}

	if c.MaxFileKB < 0 {
		return fmt.Errorf("max_file_kb must be non-negative")
	}

	for name, v := range c.Theme.Colors {
		if !IsHexColor(v) {
			return fmt.Errorf("invalid theme color %s=%q: must be #rgb or #rrggbb", name, v)
		}
	}
	for i, v := range c.Theme.Rainbow {
		if !IsHexColor(v) {
			return fmt.Errorf("invalid rainbow color %d %q: must be #rgb or #rrggbb", i, v)
		}
	}

	return nil
}
