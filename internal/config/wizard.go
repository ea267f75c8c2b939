package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// siteGenerators maps marker files to a static site generator name, the
// directory it renders into, and the tokenizer scheme of its highlighter.
var siteGenerators = map[string]struct {
	Name    string
	SiteDir string
	Scheme  Scheme
}{
	"_quarto.yml":  {Name: "Quarto", SiteDir: "_site", Scheme: SchemePandoc},
	"_quarto.yaml": {Name: "Quarto", SiteDir: "_site", Scheme: SchemePandoc},
	"hugo.toml":    {Name: "Hugo", SiteDir: "public", Scheme: SchemeChroma},
	"config.toml":  {Name: "Hugo", SiteDir: "public", Scheme: SchemeChroma},
	"mkdocs.yml":   {Name: "MkDocs", SiteDir: "site", Scheme: SchemePandoc},
}

// detectSiteGenerator checks dir for well-known site generator markers.
func detectSiteGenerator(dir string) (name, siteDir string, scheme Scheme) {
	for marker, info := range siteGenerators {
		matches, _ := filepath.Glob(filepath.Join(dir, marker))
		if len(matches) > 0 {
			return info.Name, info.SiteDir, info.Scheme
		}
	}
	return "", "_site", SchemePandoc
}

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to codetint! Let's configure your project.")
	fmt.Println()

	genName, defaultSiteDir, defaultScheme := detectSiteGenerator(".")
	if genName != "" {
		fmt.Printf("Detected site generator: %s\n\n", genName)
	}

	// 1. Rendered site directory.
	sitePrompt := promptui.Prompt{
		Label:   "Rendered site directory",
		Default: defaultSiteDir,
	}
	siteDir, err := sitePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site dir: %w", err)
	}

	// 2. Tokenizer scheme.
	schemes := []Scheme{SchemePandoc, SchemeChroma}
	if defaultScheme == SchemeChroma {
		schemes = []Scheme{SchemeChroma, SchemePandoc}
	}
	schemePrompt := promptui.Select{
		Label: "Select highlighter class scheme",
		Items: []string{
			string(schemes[0]) + " (detected)",
			string(schemes[1]),
		},
	}
	schemeIdx, _, err := schemePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("scheme selection: %w", err)
	}

	// 3. Languages.
	langPrompt := promptui.Prompt{
		Label:   "Code block languages (comma-separated)",
		Default: "python",
	}
	langStr, err := langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("languages: %w", err)
	}

	// 4. Inline styles or stylesheet classes.
	inlinePrompt := promptui.Select{
		Label: "How should colors be applied?",
		Items: []string{
			"inline styles (works without a stylesheet)",
			"CSS classes (rainbow-N, needs the generated stylesheet)",
		},
	}
	inlineIdx, _, err := inlinePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("style mode: %w", err)
	}

	cfg := DefaultConfig()
	cfg.SiteDir = siteDir
	cfg.Scheme = schemes[schemeIdx]
	if langs := splitAndTrim(langStr); len(langs) > 0 {
		cfg.Languages = langs
	}
	cfg.InlineStyles = inlineIdx == 0

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
