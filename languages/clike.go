package languages

import (
	"sync"

	"github.com/npillmayer/hilite"
	"github.com/npillmayer/hilite/grammar"
)

var clike struct {
	once sync.Once
	g    *grammar.Grammar
}

// CLike returns a generic grammar for languages with a C-like syntax. It is
// not meant to be used on its own, but as a base for deriving grammars of
// concrete languages.
func CLike() *grammar.Grammar {
	clike.once.Do(func() {
		clike.g = grammar.Must(makeCLike())
	})
	return clike.g
}

func makeCLike() (*grammar.Grammar, error) {
	punct, err := grammar.NewBuilder("clike/class-name").
		Match(hilite.Punctuation, `[.\\]`).
		Grammar()
	if err != nil {
		return nil, err
	}
	b := grammar.NewBuilder("clike")
	b.Add(hilite.Comment, grammar.Alt(
		grammar.Pattern{Expr: `(^|[^\\])\/\*[\s\S]*?(?:\*\/|$)`, Lookbehind: true, Greedy: true},
		grammar.Pattern{Expr: `(^|[^\\:])\/\/.*`, Lookbehind: true, Greedy: true},
	))
	b.Add(hilite.String, grammar.Pattern{
		Expr:   `(["'])(?:\\(?:\r\n|[\s\S])|(?!\1)[^\\\r\n])*\1`,
		Greedy: true,
	})
	b.Add(hilite.ClassName, grammar.Nested{
		Pattern: grammar.Pattern{
			Expr:       `(\b(?:class|extends|implements|instanceof|interface|new|trait)\s+|\bcatch\s+\()[\w.\\]+`,
			Lookbehind: true,
			IgnoreCase: true,
		},
		Inside: punct,
	})
	b.Match(hilite.Keyword, `\b(?:break|catch|continue|do|else|finally|for|function|if|in|instanceof|new|null|return|throw|try|while)\b`)
	b.Match(hilite.Boolean, `\b(?:false|true)\b`)
	b.Match(hilite.Function, `\b\w+(?=\()`)
	b.Add(hilite.Number, grammar.Pattern{
		Expr:       `\b0x[\da-f]+\b|(?:\b\d+(?:\.\d*)?|\B\.\d+)(?:e[+-]?\d+)?`,
		IgnoreCase: true,
	})
	b.Match(hilite.Operator, `[<>]=?|[!=]=?=?|--?|\+\+?|&&?|\|\|?|[?*/~^%]`)
	b.Match(hilite.Punctuation, `[{}\[\];(),.:]`)
	return b.Grammar()
}
