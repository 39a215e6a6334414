package highlight

import (
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/npillmayer/hilite"
)

// chromaLexer finds a chroma lexer by name, alias or file name.
func chromaLexer(lang string) chroma.Lexer {
	if strings.TrimSpace(lang) == "" {
		return nil
	}
	l := lexers.Get(lang)
	if l == nil {
		return nil
	}
	return chroma.Coalesce(l)
}

// ChromaLanguages lists the languages available as fallback.
func ChromaLanguages() []string {
	return lexers.Names(false)
}

// chromaTokens tokenizes src with a chroma lexer. Chroma lexers may normalize
// line endings or append a final newline; as tokens have to reproduce the
// input exactly, surplus newlines at the end are dropped. Any other deviation
// from the input makes chromaTokens fail.
func chromaTokens(l chroma.Lexer, src string) ([]hilite.Token, bool) {
	if src == "" {
		return nil, true
	}
	ctokens, err := chroma.Tokenise(l, &chroma.TokeniseOptions{State: "root"}, src)
	if err != nil {
		tracer().Errorf("chroma lexer %s failed: %v", l.Config().Name, err)
		return nil, false
	}
	var tokens []hilite.Token
	pos := 0
	for _, ct := range ctokens {
		text, rest := ct.Value, src[pos:]
		if !strings.HasPrefix(rest, text) {
			if !strings.HasPrefix(text, rest) || strings.Trim(text[len(rest):], "\n") != "" {
				tracer().Infof("chroma lexer %s does not reproduce input at offset %d", l.Config().Name, pos)
				return nil, false
			}
			text = rest
		}
		if text == "" {
			continue
		}
		kind := kindOf(ct.Type)
		span := hilite.Span{uint64(pos), uint64(pos + len(text))}
		pos += len(text)
		if n := len(tokens); n > 0 && kind == hilite.PlainText && tokens[n-1].Kind == hilite.PlainText {
			tokens[n-1].Text += text
			tokens[n-1].Span = tokens[n-1].Span.Extend(span)
			continue
		}
		tokens = append(tokens, hilite.Token{Kind: kind, Text: text, Span: span})
	}
	if pos != len(src) {
		tracer().Infof("chroma lexer %s stopped at offset %d of %d", l.Config().Name, pos, len(src))
		return nil, false
	}
	return tokens, true
}

// kindOf maps chroma token types onto token kinds.
func kindOf(tt chroma.TokenType) hilite.Kind {
	switch {
	case tt == chroma.KeywordConstant:
		return hilite.Boolean
	case tt == chroma.KeywordType:
		return hilite.Builtin
	case tt.InCategory(chroma.Keyword):
		return hilite.Keyword
	case tt.InCategory(chroma.Comment):
		return hilite.Comment
	case tt.InSubCategory(chroma.LiteralString):
		return hilite.String
	case tt.InSubCategory(chroma.LiteralNumber):
		return hilite.Number
	case tt.InCategory(chroma.Operator):
		return hilite.Operator
	case tt.InCategory(chroma.Punctuation):
		return hilite.Punctuation
	}
	switch tt {
	case chroma.NameBuiltin, chroma.NameBuiltinPseudo:
		return hilite.Builtin
	case chroma.NameFunction, chroma.NameFunctionMagic:
		return hilite.Function
	case chroma.NameClass, chroma.NameException:
		return hilite.ClassName
	case chroma.NameDecorator:
		return hilite.Annotation
	case chroma.NameAttribute, chroma.NameProperty:
		return hilite.Property
	case chroma.NameVariable, chroma.NameVariableClass, chroma.NameVariableGlobal,
		chroma.NameVariableInstance, chroma.NameVariableMagic:
		return hilite.Variable
	}
	return hilite.PlainText
}
