package highlight

import (
	"sync"

	"github.com/npillmayer/hilite"
	"github.com/npillmayer/hilite/languages"
	"github.com/npillmayer/hilite/lexer"
)

// Source tells which kind of tokenizer produced a token sequence.
type Source int

// Tokenizers, in order of preference.
const (
	Plain  Source = iota // no tokenizer for the language, input is plain text
	Native               // grammar from the language registry
	Chroma               // fallback lexer of the chroma library
)

func (s Source) String() string {
	switch s {
	case Native:
		return "native"
	case Chroma:
		return "chroma"
	}
	return "plain"
}

// Highlighter finds tokenizers for languages. The zero value is not usable;
// create one with New.
type Highlighter struct {
	registry *languages.Registry
	lexopts  []lexer.Option
	noChroma bool
}

// Option configures a highlighter.
type Option func(h *Highlighter)

// LexerOptions sets options for native tokenizers.
func LexerOptions(opts ...lexer.Option) Option {
	return func(h *Highlighter) {
		h.lexopts = append(h.lexopts, opts...)
	}
}

// WithoutChroma disables the fallback to chroma lexers.
func WithoutChroma() Option {
	return func(h *Highlighter) {
		h.noChroma = true
	}
}

// New creates a highlighter for the languages of a registry. If registry is
// nil, the default registry is used.
func New(registry *languages.Registry, opts ...Option) *Highlighter {
	if registry == nil {
		registry = languages.Default()
	}
	h := &Highlighter{registry: registry}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Resolve tells which tokenizer would be used for a language.
func (h *Highlighter) Resolve(lang string) Source {
	if _, ok := h.registry.Lookup(lang); ok {
		return Native
	}
	if !h.noChroma && chromaLexer(lang) != nil {
		return Chroma
	}
	return Plain
}

// Tokens tokenizes src as source code in language lang. It never fails: if
// no tokenizer is able to handle src, it is returned as a single plain-text
// token. Empty input results in an empty token slice.
func (h *Highlighter) Tokens(lang, src string) ([]hilite.Token, Source) {
	if g, ok := h.registry.Lookup(lang); ok {
		opts := append([]lexer.Option{lexer.SourceID(lang)}, h.lexopts...)
		return lexer.Tokenize(g, src, opts...), Native
	}
	if !h.noChroma {
		if l := chromaLexer(lang); l != nil {
			if tokens, ok := chromaTokens(l, src); ok {
				return tokens, Chroma
			}
		}
	}
	tracer().Debugf("no tokenizer for language %q", lang)
	return plain(src), Plain
}

func plain(src string) []hilite.Token {
	if src == "" {
		return nil
	}
	return []hilite.Token{{
		Kind: hilite.PlainText,
		Text: src,
		Span: hilite.Span{0, uint64(len(src))},
	}}
}

// --- Default highlighter ---------------------------------------------------

var defaultHighlighter struct {
	once sync.Once
	h    *Highlighter
}

// Default returns a highlighter for the default language registry.
func Default() *Highlighter {
	defaultHighlighter.once.Do(func() {
		defaultHighlighter.h = New(nil)
	})
	return defaultHighlighter.h
}

// Tokens tokenizes src with the default highlighter.
func Tokens(lang, src string) ([]hilite.Token, Source) {
	return Default().Tokens(lang, src)
}
