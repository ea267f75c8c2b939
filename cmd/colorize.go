package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codetint/internal/brackets"
)

var colorizeCmd = &cobra.Command{
	Use:   "colorize [text]",
	Short: "Show the rainbow levels assigned to the brackets of some text",
	Long: `Runs the bracket matcher on the argument (or stdin) and prints each
bracket's palette level, the matched pairs and any unmatched brackets.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runColorize,
}

func init() {
	colorizeCmd.Flags().Int("palette", 0, "palette size (defaults to the theme's rainbow length)")
	colorizeCmd.Flags().Bool("json", false, "print the result as JSON")
	rootCmd.AddCommand(colorizeCmd)
}

// colorizeOutput is the --json form.
type colorizeOutput struct {
	Tokens     string   `json:"tokens"`
	Levels     []int    `json:"levels"`
	Pairs      [][2]int `json:"pairs"`
	Unmatched  []int    `json:"unmatched"`
	Mismatched [][2]int `json:"mismatched"`
}

func runColorize(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) > 0 {
		text = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	size, _ := cmd.Flags().GetInt("palette")
	if size <= 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		th, err := loadTheme(cfg)
		if err != nil {
			return err
		}
		size = th.PaletteSize()
	}

	tokens := brackets.FromString(text)
	res := brackets.Colorize(tokens, size)
	out := colorizeOutput{
		Levels:     res.Levels,
		Pairs:      [][2]int{},
		Unmatched:  res.Unmatched,
		Mismatched: brackets.Mismatched(tokens, res),
	}
	var sb strings.Builder
	for i, tok := range tokens {
		sb.WriteRune(tok.Char)
		if j, ok := res.Pairs[i]; ok && i < j {
			out.Pairs = append(out.Pairs, [2]int{i, j})
		}
	}
	out.Tokens = sb.String()

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(tokens) == 0 {
		fmt.Fprintln(w, "No brackets found.")
		return nil
	}
	fmt.Fprintf(w, "tokens:     %s\n", out.Tokens)
	fmt.Fprintf(w, "levels:     %s\n", joinInts(out.Levels))
	var pairs []string
	for _, p := range out.Pairs {
		pairs = append(pairs, fmt.Sprintf("(%d,%d)", p[0], p[1]))
	}
	fmt.Fprintf(w, "pairs:      %s\n", orNone(strings.Join(pairs, " ")))
	fmt.Fprintf(w, "unmatched:  %s\n", orNone(joinInts(out.Unmatched)))
	for _, m := range out.Mismatched {
		fmt.Fprintf(os.Stderr, "Warning: %q at %d is closed by %q at %d\n",
			tokens[m[0]].Char, m[0], tokens[m[1]].Char, m[1])
	}
	return nil
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, " ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
