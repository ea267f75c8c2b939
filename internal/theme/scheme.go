package theme

import (
	"fmt"
	"sort"

	"github.com/alecthomas/chroma/v2"

	"github.com/ziadkadry99/codetint/internal/config"
)

// Scheme maps a tokenizer's span classes to roles.
type Scheme struct {
	name    config.Scheme
	classes map[Role][]string
	roles   map[string]Role
}

// pandocClasses is the skylighting class set emitted by pandoc and Quarto.
var pandocClasses = map[Role][]string{
	RoleKeyword:  {"kw", "cf", "im"},
	RoleString:   {"st", "ss", "vs", "ch", "sc"},
	RoleComment:  {"co", "do", "an", "cv"},
	RoleBuiltin:  {"bu", "dt"},
	RoleFunction: {"fu"},
	RoleVariable: {"va"},
	RoleConstant: {"cn"},
	RoleNumber:   {"dv", "fl", "bn"},
	RoleOperator: {"op"},
}

// SchemeFor returns the class scheme for the named tokenizer convention.
func SchemeFor(name config.Scheme) (Scheme, error) {
	switch name {
	case config.SchemePandoc, "":
		return newScheme(config.SchemePandoc, pandocClasses), nil
	case config.SchemeChroma:
		return newScheme(config.SchemeChroma, chromaClasses()), nil
	default:
		return Scheme{}, fmt.Errorf("unknown scheme %q", name)
	}
}

func newScheme(name config.Scheme, classes map[Role][]string) Scheme {
	s := Scheme{
		name:    name,
		classes: make(map[Role][]string, len(classes)),
		roles:   make(map[string]Role),
	}
	for role, cs := range classes {
		sorted := append([]string(nil), cs...)
		sort.Strings(sorted)
		s.classes[role] = sorted
		for _, c := range sorted {
			s.roles[c] = role
		}
	}
	return s
}

// chromaClasses groups chroma's standard CSS class names by role.
func chromaClasses() map[Role][]string {
	out := make(map[Role][]string)
	for tt, class := range chroma.StandardTypes {
		if class == "" {
			continue
		}
		if role, ok := chromaRole(tt); ok {
			out[role] = append(out[role], class)
		}
	}
	return out
}

func chromaRole(tt chroma.TokenType) (Role, bool) {
	switch {
	case tt == chroma.LineNumbers || tt == chroma.LineNumbersTable:
		return RoleLineNumber, true
	case tt == chroma.KeywordConstant:
		return RoleConstant, true
	case tt == chroma.KeywordType:
		return RoleBuiltin, true
	case tt.InCategory(chroma.Keyword):
		return RoleKeyword, true
	case tt.InSubCategory(chroma.LiteralString):
		return RoleString, true
	case tt.InSubCategory(chroma.LiteralNumber):
		return RoleNumber, true
	case tt.InCategory(chroma.Comment):
		return RoleComment, true
	case tt == chroma.NameBuiltin, tt == chroma.NameBuiltinPseudo, tt == chroma.NameClass, tt == chroma.NameException:
		return RoleBuiltin, true
	case tt == chroma.NameFunction, tt == chroma.NameFunctionMagic:
		return RoleFunction, true
	case tt == chroma.Name, tt == chroma.NameVariable, tt == chroma.NameVariableClass,
		tt == chroma.NameVariableGlobal, tt == chroma.NameVariableInstance, tt == chroma.NameVariableMagic:
		return RoleVariable, true
	case tt.InCategory(chroma.Operator), tt.InCategory(chroma.Punctuation):
		return RoleOperator, true
	}
	return "", false
}

// Name returns the tokenizer convention.
func (s Scheme) Name() config.Scheme { return s.name }

// Classes returns the sorted span classes carrying role.
func (s Scheme) Classes(role Role) []string {
	return append([]string(nil), s.classes[role]...)
}

// RoleOf returns the role of a span class.
func (s Scheme) RoleOf(class string) (Role, bool) {
	r, ok := s.roles[class]
	return r, ok
}
