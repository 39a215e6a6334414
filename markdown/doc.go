/*
Package markdown finds fenced code blocks in Markdown documents and
highlights them.

Fences are recognized the way CommonMark does it: a line starting with at
most three spaces of indentation, followed by at least three backticks or
tildes. The rest of the opening line is the info string; its first word names
the language of the block. A block is closed by a fence of the same character
which is at least as long as the opening one and carries no info string.
Blocks without a closing fence run to the end of the document.

	blocks, err := markdown.Blocks(doc)
	…
	out, err := markdown.Highlight(ctx, doc, func(ctx context.Context, b markdown.Block) (string, error) {
		tokens, _ := highlight.Tokens(b.Lang, b.Code)
		return render.HTMLString(tokens, render.HTMLOptions{Language: b.Lang}), nil
	})

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package markdown

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hilite.markdown'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.markdown")
}
