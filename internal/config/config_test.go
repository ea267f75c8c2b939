package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Scheme != SchemePandoc {
		t.Errorf("expected default scheme %q, got %q", SchemePandoc, cfg.Scheme)
	}
	if cfg.SiteDir != "_site" {
		t.Errorf("expected default site_dir %q, got %q", "_site", cfg.SiteDir)
	}
	if cfg.DebounceMS != 500 {
		t.Errorf("expected default debounce_ms 500, got %d", cfg.DebounceMS)
	}
	if !cfg.InlineStyles {
		t.Error("expected inline styles by default")
	}
	if len(cfg.Languages) != 1 || cfg.Languages[0] != "python" {
		t.Errorf("expected default languages [python], got %v", cfg.Languages)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.codetint.yml")

	original := DefaultConfig()
	original.Scheme = SchemeChroma
	original.SiteDir = "public"
	original.Languages = []string{"go", "python"}
	original.InlineStyles = false
	original.Theme.Colors = map[string]string{"red": "#ff0000"}
	original.Theme.Rainbow = []string{"#111111", "#222222", "#333333"}

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Scheme != original.Scheme {
		t.Errorf("scheme: got %q, want %q", loaded.Scheme, original.Scheme)
	}
	if loaded.SiteDir != original.SiteDir {
		t.Errorf("site_dir: got %q, want %q", loaded.SiteDir, original.SiteDir)
	}
	if loaded.InlineStyles {
		t.Error("inline_styles: got true, want false")
	}
	if len(loaded.Languages) != 2 || loaded.Languages[0] != "go" || loaded.Languages[1] != "python" {
		t.Errorf("languages: got %v, want %v", loaded.Languages, original.Languages)
	}
	if got := loaded.Theme.Colors["red"]; got != "#ff0000" {
		t.Errorf("theme.colors.red: got %q, want %q", got, "#ff0000")
	}
	if len(loaded.Theme.Rainbow) != 3 {
		t.Errorf("theme.rainbow length: got %d, want 3", len(loaded.Theme.Rainbow))
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Scheme != SchemePandoc {
		t.Errorf("expected default scheme, got %q", cfg.Scheme)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("CODETINT_SCHEME", "chroma")
	t.Setenv("CODETINT_SITE_DIR", "public")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Scheme != SchemeChroma {
		t.Errorf("env override failed: got %q, want %q", loaded.Scheme, SchemeChroma)
	}
	if loaded.SiteDir != "public" {
		t.Errorf("env override failed: got %q, want %q", loaded.SiteDir, "public")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(path, []byte("site_dir: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty site dir", func(c *Config) { c.SiteDir = "" }, true},
		{"unknown scheme", func(c *Config) { c.Scheme = "prism" }, true},
		{"no languages", func(c *Config) { c.Languages = nil }, true},
		{"negative debounce", func(c *Config) { c.DebounceMS = -1 }, true},
		{"negative max file", func(c *Config) { c.MaxFileKB = -1 }, true},
		{"bad theme color", func(c *Config) { c.Theme.Colors = map[string]string{"red": "red"} }, true},
		{"short hex ok", func(c *Config) { c.Theme.Colors = map[string]string{"red": "#f00"} }, false},
		{"bad rainbow color", func(c *Config) { c.Theme.Rainbow = []string{"#12345"} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDetectSiteGenerator(t *testing.T) {
	dir := t.TempDir()
	name, siteDir, scheme := detectSiteGenerator(dir)
	if name != "" || siteDir != "_site" || scheme != SchemePandoc {
		t.Errorf("empty dir: got (%q, %q, %q)", name, siteDir, scheme)
	}

	if err := os.WriteFile(filepath.Join(dir, "hugo.toml"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	name, siteDir, scheme = detectSiteGenerator(dir)
	if name != "Hugo" || siteDir != "public" || scheme != SchemeChroma {
		t.Errorf("hugo dir: got (%q, %q, %q)", name, siteDir, scheme)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"python", []string{"python"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
