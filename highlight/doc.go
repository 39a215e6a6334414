/*
Package highlight is the entry point for clients which want tokens for a piece
of source code in a named language.

Languages with a native grammar in the registry of package languages are
tokenized with package lexer. For other languages a lexer of the chroma
library is used, if there is one, with its token types mapped onto the same
token kinds. Everything else is returned as plain text.

	tokens, source := highlight.Tokens("protobuf", src)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package highlight

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hilite.highlight'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.highlight")
}
