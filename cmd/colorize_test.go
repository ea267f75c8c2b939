package cmd

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func executeColorize(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"colorize"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("colorize %v: %v", args, err)
	}
	return out.String()
}

func TestColorizeCommandText(t *testing.T) {
	got := executeColorize(t, "", "--json=false", "--palette", "3", "f([{x}])")
	for _, want := range []string{
		"tokens:     ([{}])",
		"levels:     0 1 2 2 1 0",
		"pairs:      (0,5) (1,4) (2,3)",
		"unmatched:  none",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestColorizeCommandStdinJSON(t *testing.T) {
	got := executeColorize(t, ")(]", "--json", "--palette", "7")

	var out colorizeOutput
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("unmarshal %q: %v", got, err)
	}
	if out.Tokens != ")(]" {
		t.Errorf("tokens = %q", out.Tokens)
	}
	if !reflect.DeepEqual(out.Levels, []int{0, 0, 0}) {
		t.Errorf("levels = %v", out.Levels)
	}
	if !reflect.DeepEqual(out.Pairs, [][2]int{{1, 2}}) {
		t.Errorf("pairs = %v", out.Pairs)
	}
	if !reflect.DeepEqual(out.Unmatched, []int{0}) {
		t.Errorf("unmatched = %v", out.Unmatched)
	}
	if !reflect.DeepEqual(out.Mismatched, [][2]int{{1, 2}}) {
		t.Errorf("mismatched = %v", out.Mismatched)
	}
}

func TestColorizeCommandNoBrackets(t *testing.T) {
	got := executeColorize(t, "", "--json=false", "--palette", "7", "plain text")
	if !strings.Contains(got, "No brackets found.") {
		t.Errorf("output = %q", got)
	}
}
