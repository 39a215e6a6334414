/*
Package lexer implements a tokenizer for syntax highlighting, driven by the
grammars of package grammar.

The tokenizer scans its input from left to right. At every position it tries
the rules of the grammar in order of declaration; the first rule to match
wins, regardless of the length of matches of later rules. Input not matched by
any rule is collected into plain-text tokens. Tokens for nested rules are
tokenized again with their inside grammar and carry the inner tokens as
children.

The tokenizer is total: it never fails, and the lexemes of the tokens it
produces, concatenated in order, always reproduce the input exactly.

	scan := lexer.New(g, "map<int32, string> labels = 1;")
	for token := scan.NextToken(); !token.IsEOF(); token = scan.NextToken() {
		…
	}

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexer

import (
	"github.com/npillmayer/hilite"
	"github.com/npillmayer/hilite/grammar"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hilite.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.lexer")
}

// DefaultMaxDepth is the default bound for the nesting of inside grammars.
const DefaultMaxDepth = 8

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() hilite.Token
}

// Scanner is a lazy tokenizer for a single input. Create one with New.
// A scanner is not safe for concurrent use, but any number of scanners may
// share a grammar.
type Scanner struct {
	g        *grammar.Grammar
	src      string
	input    []rune
	offsets  []int         // byte offset for every rune position, plus len(src)
	pos      int           // rune position of the cursor
	plain    int           // start of pending plain-text run, or -1
	pending  []hilite.Token // tokens found but not yet delivered
	depth    int           // nesting level of this scanner
	maxDepth int
	sourceID string
}

var _ Tokenizer = (*Scanner)(nil)

// New creates a scanner for input, recognizing tokens with grammar g.
// A nil grammar is treated like a grammar without rules.
func New(g *grammar.Grammar, input string, opts ...Option) *Scanner {
	s := &Scanner{
		g:        g,
		src:      input,
		plain:    -1,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.input, s.offsets = decode(input)
	return s
}

// decode splits input into runes. Invalid UTF-8 bytes count as one rune
// each, so that offsets always address the original bytes.
func decode(input string) ([]rune, []int) {
	runes := make([]rune, 0, len(input))
	offsets := make([]int, 0, len(input)+1)
	for i, r := range input {
		runes = append(runes, r)
		offsets = append(offsets, i)
	}
	return runes, append(offsets, len(input))
}

// NextToken returns the next token of the input. After the last token it
// returns a token of kind hilite.EOF, and will continue to do so.
func (s *Scanner) NextToken() hilite.Token {
	if len(s.pending) > 0 {
		t := s.pending[0]
		s.pending = s.pending[1:]
		return t
	}
	for s.pos < len(s.input) {
		var m grammar.Match
		var ok bool
		if s.g != nil {
			m, ok = s.g.MatchAt(s.input, s.pos)
		}
		if !ok {
			if s.plain < 0 {
				s.plain = s.pos
			}
			s.pos++
			continue
		}
		token := s.token(m)
		s.pos = m.End
		if s.plain >= 0 {
			s.pending = append(s.pending, token)
			return s.flushPlain(m.Start)
		}
		return token
	}
	if s.plain >= 0 {
		return s.flushPlain(s.pos)
	}
	end := uint64(len(s.src))
	return hilite.Token{Kind: hilite.EOF, Span: hilite.Span{end, end}}
}

func (s *Scanner) flushPlain(end int) hilite.Token {
	start := s.plain
	s.plain = -1
	return hilite.Token{
		Kind: hilite.PlainText,
		Text: s.src[s.offsets[start]:s.offsets[end]],
		Span: s.span(start, end),
	}
}

func (s *Scanner) span(from, to int) hilite.Span {
	return hilite.Span{uint64(s.offsets[from]), uint64(s.offsets[to])}
}

func (s *Scanner) token(m grammar.Match) hilite.Token {
	token := hilite.Token{
		Kind:    m.Kind,
		Aliases: m.Aliases,
		Text:    s.src[s.offsets[m.Start]:s.offsets[m.End]],
		Span:    s.span(m.Start, m.End),
	}
	tracer().Debugf("token %s", token)
	if m.Inside == nil {
		return token
	}
	if s.depth+1 > s.maxDepth {
		tracer().Infof("nesting depth %d exceeded for %s, token left flat", s.maxDepth, m.Kind)
		return token
	}
	if m.Start == 0 && m.End == len(s.input) && m.Inside.Fingerprint() == s.g.Fingerprint() {
		tracer().Debugf("inside grammar of %s repeats outer grammar, token left flat", m.Kind)
		return token
	}
	inner := &Scanner{
		g:        m.Inside,
		src:      token.Text,
		plain:    -1,
		depth:    s.depth + 1,
		maxDepth: s.maxDepth,
		sourceID: s.sourceID,
	}
	inner.input, inner.offsets = decode(token.Text)
	token.Children = collect(inner)
	return token
}

// Tokenize scans input completely and returns all tokens.
// Tokenizing an empty input results in an empty slice.
func Tokenize(g *grammar.Grammar, input string, opts ...Option) []hilite.Token {
	return collect(New(g, input, opts...))
}

func collect(s *Scanner) []hilite.Token {
	var tokens []hilite.Token
	for t := s.NextToken(); !t.IsEOF(); t = s.NextToken() {
		tokens = append(tokens, t)
	}
	name := "<none>"
	if s.g != nil {
		name = s.g.Name()
	}
	tracer().Debugf("%s: %d tokens with grammar %s at depth %d", s.sourceID, len(tokens), name, s.depth)
	return tokens
}

// --- Scanner options -------------------------------------------------------

// Option configures a scanner.
type Option func(s *Scanner)

// MaxDepth sets the maximum nesting level for inside grammars. Tokens of
// nested rules beyond this level are emitted without children. Values < 1
// are ignored.
func MaxDepth(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

// SourceID sets a name for the input, used for tracing.
func SourceID(id string) Option {
	return func(s *Scanner) {
		s.sourceID = id
	}
}
