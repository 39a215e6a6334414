package markdown

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/npillmayer/hilite"
	"golang.org/x/sync/errgroup"
)

// Block is a fenced code block of a Markdown document.
type Block struct {
	Lang   string      // first word of the info string, may be empty
	Info   string      // info string of the opening fence
	Open   string      // opening fence line, including its line terminator
	Code   string      // content of the block
	Close  string      // closing fence line, empty for unclosed blocks
	Span   hilite.Span // byte offsets of the block including fences
	Body   hilite.Span // byte offsets of Code
	Closed bool
}

// Blocks finds all fenced code blocks of a document, in order.
func Blocks(doc string) ([]Block, error) {
	ll, err := lines(doc)
	if err != nil {
		return nil, fmt.Errorf("cannot scan markdown: %w", err)
	}
	var blocks []Block
	var current *Block
	var opening fence
	for _, l := range ll {
		if current == nil {
			if l.typ == textLine {
				continue
			}
			opening = parseFence(l)
			current = &Block{
				Info: opening.info,
				Lang: language(opening.info),
				Open: l.text,
				Span: l.span,
				Body: hilite.Span{l.span.To(), l.span.To()},
			}
			continue
		}
		if l.typ != textLine && parseFence(l).closes(opening) {
			current.Close = l.text
			current.Closed = true
			current.Span = current.Span.Extend(l.span)
			current.Code = doc[current.Body.From():current.Body.To()]
			blocks = append(blocks, *current)
			current = nil
			continue
		}
		current.Body = current.Body.Extend(l.span)
		current.Span = current.Span.Extend(l.span)
	}
	if current != nil {
		tracer().Infof("code block at offset %d is not closed", current.Span.From())
		current.Code = doc[current.Body.From():current.Body.To()]
		blocks = append(blocks, *current)
	}
	tracer().Debugf("found %d code blocks", len(blocks))
	return blocks, nil
}

func language(info string) string {
	if f := strings.Fields(info); len(f) > 0 {
		return f[0]
	}
	return ""
}

// HighlightFunc creates the replacement text for a code block, including
// fences (if any are wanted).
type HighlightFunc func(ctx context.Context, b Block) (string, error)

// Highlight replaces every fenced code block of doc by the output of fn.
// Text outside of code blocks is copied unchanged. Blocks are processed
// concurrently; the first error cancels the context passed to the other
// invocations of fn and is returned.
func Highlight(ctx context.Context, doc string, fn HighlightFunc) (string, error) {
	blocks, err := Blocks(doc)
	if err != nil {
		return "", err
	}
	results := make([]string, len(blocks))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, b := range blocks {
		i, b := i, b
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := fn(ctx, b)
			if err != nil {
				return fmt.Errorf("code block %d (%q): %w", i+1, b.Lang, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return "", err
	}
	var out strings.Builder
	pos := uint64(0)
	for i, b := range blocks {
		out.WriteString(doc[pos:b.Span.From()])
		out.WriteString(results[i])
		pos = b.Span.To()
	}
	out.WriteString(doc[pos:])
	return out.String(), nil
}
