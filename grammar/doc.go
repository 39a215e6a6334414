/*
Package grammar defines lexical grammars for syntax highlighting.

A grammar is an ordered table of rules, each rule recognizing one kind of
token. Rule order is significant: it encodes priority, and a tokenizer will
pick the first rule (in declaration order) matching at the current input
position. A rule is one of

    Pattern        a single regular expression
    Alternatives   an ordered list of patterns, the first match wins
    Nested         a pattern whose match is re-tokenized with another grammar

Patterns use the syntax of github.com/dlclark/regexp2, which is close to
what JavaScript-based highlighters use and supports lookahead and back
references.

Building a Grammar

Grammars are specified using a builder object. Clients add rules in order
of priority and finally ask for the grammar, which will compile all patterns.
Compilation errors are reported at this point, never during tokenization.

    b := grammar.NewBuilder("ini")
    b.Match(hilite.Comment, `;.*`)
    b.Lookbehind(hilite.String, `(=\s*)[^\n]+`)   // prefix is not part of the token
    b.Match(hilite.Punctuation, `[\[\]=]`)
    g, err := b.Grammar()

A lookbehind pattern must start with a capturing group. This group has to
match immediately before the current position, i.e. within text which
already has been consumed. It is never part of the token.

Deriving Grammars

Grammars are immutable. Extend and InsertBefore derive new grammars from
existing ones, leaving the base grammar untouched:

    proto, err := grammar.Extend(clike, "protobuf", keywordDef, functionDef)
    proto, err = grammar.InsertBefore(proto, hilite.Operator, mapDef, builtinDef)

All rules not mentioned by an extension keep their relative order.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hilite.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.grammar")
}
