package markdown

import (
	"strings"
	"sync"

	"github.com/npillmayer/hilite"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Line types of Markdown input.
const (
	backtickFence int = iota + 1
	tildeFence
	textLine
)

// line is a line of input, including its line terminator.
type line struct {
	typ  int
	text string
	span hilite.Span
}

var lineLexer struct {
	once  sync.Once
	lexer *lexmachine.Lexer
	err   error
}

// fenceScanner returns a DFA classifying lines as fences or text. Where a
// fence pattern and the text pattern match a line of equal length, the fence
// pattern has priority.
func fenceScanner() (*lexmachine.Lexer, error) {
	lineLexer.once.Do(func() {
		lexer := lexmachine.NewLexer()
		lexer.Add([]byte("( |  |   )?````*[^`\n]*\n?"), makeLine(backtickFence))
		lexer.Add([]byte(`( |  |   )?~~~~*[^\n]*\n?`), makeLine(tildeFence))
		lexer.Add([]byte(`[^\n]+\n?|\n`), makeLine(textLine))
		if err := lexer.Compile(); err != nil {
			tracer().Errorf("error compiling DFA: %v", err)
			lineLexer.err = err
			return
		}
		lineLexer.lexer = lexer
	})
	return lineLexer.lexer, lineLexer.err
}

// makeLine is an action which wraps a scanned match into a token.
func makeLine(typ int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(typ, string(m.Bytes), m), nil
	}
}

// lines splits a document into classified lines.
func lines(doc string) ([]line, error) {
	lexer, err := fenceScanner()
	if err != nil {
		return nil, err
	}
	scan, err := lexer.Scanner([]byte(doc))
	if err != nil {
		return nil, err
	}
	var ll []line
	for tok, err, eof := scan.Next(); !eof; tok, err, eof = scan.Next() {
		if err != nil {
			tracer().Errorf("scanner error: %v", err)
			if ui, is := err.(*machines.UnconsumedInput); is {
				scan.TC = ui.FailTC
			}
			continue
		}
		token := tok.(*lexmachine.Token)
		ll = append(ll, line{
			typ:  token.Type,
			text: token.Value.(string),
			span: hilite.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
		})
	}
	return ll, nil
}

// fence is the decomposition of a fence line.
type fence struct {
	char   byte
	length int
	indent int
	info   string
}

func parseFence(l line) fence {
	s := strings.TrimRight(l.text, "\r\n")
	f := fence{indent: len(s) - len(strings.TrimLeft(s, " "))}
	s = s[f.indent:]
	f.char = s[0]
	for f.length < len(s) && s[f.length] == f.char {
		f.length++
	}
	f.info = strings.TrimSpace(s[f.length:])
	return f
}

// closes is true if f is a closing fence for an opening fence.
func (f fence) closes(opening fence) bool {
	return f.char == opening.char && f.length >= opening.length && f.info == ""
}
