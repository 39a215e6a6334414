package languages

import (
	"strings"
	"sync"

	"github.com/npillmayer/hilite"
	"github.com/npillmayer/hilite/grammar"
	"golang.org/x/exp/slices"
)

var gotemplate struct {
	once sync.Once
	g    *grammar.Grammar
}

var (
	goKeywords = []string{
		"break", "default", "func", "interface", "select", "case", "map", "struct",
		"chan", "else", "goto", "package", "switch", "const", "fallthrough", "if",
		"range", "type", "continue", "for", "import", "return", "var", "go", "defer",
		"with", "define", "block", "end", "template",
	}
	goTypes = []string{
		"bool", "byte", "complex64", "complex128", "float32", "float64", "int8",
		"int16", "int32", "int64", "string", "uint8", "uint16", "uint32", "uint64",
		"int", "uint", "uintptr", "rune",
	}
	goBuiltins = []string{
		"append", "cap", "close", "complex", "copy", "imag", "len", "make", "new",
		"panic", "print", "println", "real", "recover", "delete",
	}
	templateFuncs = []string{
		"printf", "fail", "slice", "dict", "list",
		"and", "or", "not", "index", "html", "js", "urlquery", "call",
		"eq", "ne", "lt", "le", "gt", "ge",
	}
)

// GoTemplate returns a grammar for files in Go text/template syntax.
func GoTemplate() *grammar.Grammar {
	gotemplate.once.Do(func() {
		gotemplate.g = grammar.Must(makeGoTemplate())
	})
	return gotemplate.g
}

func makeGoTemplate() (*grammar.Grammar, error) {
	b := grammar.NewBuilder("gotemplate")
	b.Add(hilite.Comment, grammar.Alt(
		grammar.Pattern{Expr: `\{\{-*\s*\/\*[\s\S]*?\*\/\s*-*\}\}`, Greedy: true},
		grammar.Pattern{Expr: `(^|[^\\:])\/\/.*`, Lookbehind: true, Greedy: true},
	))
	b.Add(hilite.String, grammar.Alt(
		grammar.Pattern{Expr: `"(?:\\.|[^\\"\r\n])*"`, Greedy: true},
		grammar.Pattern{Expr: `'(?:\\.|[^\\'\r\n])*'`, Greedy: true},
		grammar.Pattern{Expr: "`[^`]*`", Greedy: true},
	))
	b.Match(hilite.Keyword, wordList(goKeywords, goTypes, []string{"iota", "nil"}))
	b.Match(hilite.Boolean, wordList([]string{"true", "false"}))
	b.Match(hilite.Builtin, wordList(goBuiltins, templateFuncs))
	b.Match(hilite.Variable, `\$\w*`)
	b.Match(hilite.Function, `\b[A-Za-z_]\w*(?=\s*\()`)
	b.Lookbehind(hilite.Property, `(\.)[A-Za-z_]\w*`)
	b.Add(hilite.Number, grammar.Pattern{
		Expr:       `(?:\b0x[a-f\d]+|(?:\b\d+(?:\.\d*)?|\B\.\d+)(?:e[-+]?\d+)?)i?`,
		IgnoreCase: true,
	})
	b.Add(hilite.Punctuation, grammar.Alt(
		grammar.Pattern{Expr: `\{\{-?|-?\}\}`},
		grammar.Pattern{Expr: `[{}\[\]();,.]`},
	))
	b.Match(hilite.Operator, `:=?|[*\/%^!=]=?|\+[=+]?|-[=-]?|\|[=|]?|&(?:=|&|\^=?)?|>(?:>=?|=)?|<(?:<=?|=|-)?`)
	return b.Grammar()
}

// wordList creates a pattern matching any of a list of words. Longer words
// are tried first.
func wordList(lists ...[]string) string {
	var words []string
	for _, l := range lists {
		words = append(words, l...)
	}
	slices.SortFunc(words, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	words = slices.Compact(words)
	return `\b(?:` + strings.Join(words, "|") + `)\b`
}
