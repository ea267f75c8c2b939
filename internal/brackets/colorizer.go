// Package brackets assigns rainbow palette levels to bracket characters by
// nesting depth.
package brackets

// Token is a single bracket character taken from a code block.
type Token struct {
	Char rune // One of ( ) [ ] { }.
	Pos  int  // Offset in the flattened character stream of the block.
	Ref  any  // Caller-owned back-reference (e.g. the span holding it). Never dereferenced here.
}

// Result is the palette assignment for a token sequence.
type Result struct {
	// Levels holds the palette index of each token, in token order.
	Levels []int
	// Pairs maps a token index to its partner's index. Both directions are
	// recorded, and only for closers that popped an opener.
	Pairs map[int]int
	// Unmatched lists, in ascending order, closers seen with an empty stack
	// and openers still open at the end of the scan.
	Unmatched []int
}

var partners = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
}

// IsOpen reports whether r is an opening bracket.
func IsOpen(r rune) bool {
	return r == '(' || r == '[' || r == '{'
}

// IsClose reports whether r is a closing bracket.
func IsClose(r rune) bool {
	return r == ')' || r == ']' || r == '}'
}

// IsBracket reports whether r is any of ( ) [ ] { }.
func IsBracket(r rune) bool {
	return IsOpen(r) || IsClose(r)
}

// Extract returns the bracket characters of text as tokens. start is the
// stream offset of text's first character; ref is attached to every token.
func Extract(text string, start int, ref any) []Token {
	var tokens []Token
	for i, r := range []rune(text) {
		if IsBracket(r) {
			tokens = append(tokens, Token{Char: r, Pos: start + i, Ref: ref})
		}
	}
	return tokens
}

type openEntry struct {
	index int
	level int
}

// Colorize scans tokens once, left to right, and assigns each one a palette
// index in [0, paletteSize).
//
// An opener's level is the number of brackets open before it, modulo
// paletteSize, and its closer shares that level. A closer arriving with
// nothing open and an opener never closed both get level 0.
//
// Matching is by position only: a closer pairs with the most recent opener
// whatever its kind, so "(]" is a matched pair. Use Mismatched to find such
// pairs.
func Colorize(tokens []Token, paletteSize int) Result {
	if paletteSize <= 0 {
		paletteSize = 1
	}

	res := Result{
		Levels: make([]int, len(tokens)),
		Pairs:  make(map[int]int),
	}
	matched := make([]bool, len(tokens))

	var stack []openEntry
	for i, tok := range tokens {
		switch {
		case IsOpen(tok.Char):
			stack = append(stack, openEntry{index: i, level: len(stack) % paletteSize})
		case IsClose(tok.Char):
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			res.Levels[open.index] = open.level
			res.Levels[i] = open.level
			res.Pairs[open.index] = i
			res.Pairs[i] = open.index
			matched[open.index] = true
			matched[i] = true
		}
	}

	for i, tok := range tokens {
		if !matched[i] && IsBracket(tok.Char) {
			res.Unmatched = append(res.Unmatched, i)
		}
	}
	return res
}

// Mismatched returns the (opener, closer) index pairs of res whose bracket
// kinds disagree, in opener order.
func Mismatched(tokens []Token, res Result) [][2]int {
	var out [][2]int
	for i, tok := range tokens {
		if !IsOpen(tok.Char) {
			continue
		}
		j, ok := res.Pairs[i]
		if !ok || j <= i || j >= len(tokens) {
			continue
		}
		if partners[tok.Char] != tokens[j].Char {
			out = append(out, [2]int{i, j})
		}
	}
	return out
}

// FromString builds one token per bracket rune of s, using rune offsets as
// positions. Non-bracket runes are skipped.
func FromString(s string) []Token {
	return Extract(s, 0, nil)
}
