package hilite

import (
	"fmt"
	"strings"
)

// --- Token kinds -----------------------------------------------------------

// Kind is a category for a Token. Kinds double as CSS class names for
// stylesheets, therefore they are strings and not integer constants.
type Kind string

// Kinds used by the built-in grammars. Grammars are free to introduce
// other kinds; renderers will treat them like any other class name.
//
// Variable and Property are produced by the gotemplate grammar only. They are
// not part of the classes a stylesheet for the protobuf and C-like grammars
// has to provide; stylesheets without rules for them show these tokens
// unstyled.
const (
	PlainText           Kind = "plain-text"
	Comment             Kind = "comment"
	String              Kind = "string"
	Boolean             Kind = "boolean"
	Number              Kind = "number"
	Operator            Kind = "operator"
	Builtin             Kind = "builtin"
	Keyword             Kind = "keyword"
	ClassName           Kind = "class-name"
	Function            Kind = "function"
	Map                 Kind = "map"
	Punctuation         Kind = "punctuation"
	Annotation          Kind = "annotation"
	PositionalClassName Kind = "positional-class-name"
	Variable            Kind = "variable"
	Property            Kind = "property"
)

// EOF is returned by lazy scanners after the last token. It never appears
// within a token slice.
const EOF Kind = "#eof"

// --- Tokens ----------------------------------------------------------------

// Token is a labeled, contiguous run of source text.
//
// An example would be a token for a protobuf map type:
//
//    Kind     = "map"                  // name of the rule which matched
//    Aliases  = ["class-name"]         // additional classes
//    Text     = "map<int32,string>"    // lexeme as it appeared in the input
//    Span     = 8…25                   // byte offsets into the input
//    Children = [ plain-text "map", punctuation "<", builtin "int32", … ]
//
// Children are present only for tokens matched by a nested grammar. They
// partition Text in the same way top-level tokens partition the input, but
// their spans are relative to the parent token.
type Token struct {
	Kind     Kind
	Aliases  []Kind
	Text     string
	Span     Span
	Children []Token
}

// IsEOF is true for the end-of-input marker token.
func (t Token) IsEOF() bool {
	return t.Kind == EOF
}

// Classes returns the kind of a token, followed by its aliases.
func (t Token) Classes() []Kind {
	c := make([]Kind, 0, len(t.Aliases)+1)
	c = append(c, t.Kind)
	return append(c, t.Aliases...)
}

// Is checks if a token is of kind k, either directly or by alias.
func (t Token) Is(k Kind) bool {
	if t.Kind == k {
		return true
	}
	for _, a := range t.Aliases {
		if a == k {
			return true
		}
	}
	return false
}

func (t Token) String() string {
	if len(t.Aliases) == 0 {
		return fmt.Sprintf("<%s %q %s>", t.Kind, t.Text, t.Span)
	}
	return fmt.Sprintf("<%s(%v) %q %s>", t.Kind, t.Aliases, t.Text, t.Span)
}

// Text concatenates the lexemes of a token run. For the output of a tokenizer
// this reproduces the original input.
func Text(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Leaf is a token without children, together with the path of kinds from the
// top-level token down to it.
type Leaf struct {
	Path []Kind // outermost kind first, kind of the leaf last
	Text string
	Span Span // absolute byte offsets
}

// Flatten walks a token tree depth-first and returns its leaves with
// absolute spans.
func Flatten(tokens []Token) []Leaf {
	var leaves []Leaf
	flatten(tokens, nil, 0, &leaves)
	return leaves
}

func flatten(tokens []Token, path []Kind, offset uint64, leaves *[]Leaf) {
	for _, t := range tokens {
		p := make([]Kind, len(path), len(path)+1)
		copy(p, path)
		p = append(p, t.Kind)
		if len(t.Children) == 0 {
			*leaves = append(*leaves, Leaf{
				Path: p,
				Text: t.Text,
				Span: Span{offset + t.Span.From(), offset + t.Span.To()},
			})
			continue
		}
		flatten(t.Children, p, offset+t.Span.From(), leaves)
	}
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a run of input bytes. A span denotes
// a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
