package languages

import (
	"strings"
	"sync"

	"github.com/npillmayer/hilite"
	"github.com/npillmayer/hilite/grammar"
	"golang.org/x/exp/slices"
	"google.golang.org/protobuf/types/descriptorpb"
)

var protobuf struct {
	once sync.Once
	g    *grammar.Grammar
}

// Protobuf returns a grammar for Protocol Buffers definition files
// (proto2 and proto3 syntax). It is derived from CLike.
func Protobuf() *grammar.Grammar {
	protobuf.once.Do(func() {
		protobuf.g = grammar.Must(makeProtobuf())
	})
	return protobuf.g
}

// ScalarTypes returns the names of the protobuf scalar value types, as they
// appear in .proto files.
func ScalarTypes() []string {
	var types []string
	for _, name := range descriptorpb.FieldDescriptorProto_Type_name {
		t := strings.ToLower(strings.TrimPrefix(name, "TYPE_"))
		switch t {
		case "group", "message", "enum":
			continue
		}
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

func makeProtobuf() (*grammar.Grammar, error) {
	builtins := grammar.Pattern{Expr: `\b(?:` + strings.Join(ScalarTypes(), "|") + `)\b`}
	proto, err := grammar.Extend(CLike(), "protobuf",
		grammar.D(hilite.ClassName, grammar.Alt(
			grammar.Pattern{
				Expr:       `(\b(?:enum|extend|message|service)\s+)[A-Za-z_]\w*(?=\s*\{)`,
				Lookbehind: true,
			},
			grammar.Pattern{
				Expr:       `(\b(?:rpc\s+\w+|returns)\s*\(\s*(?:stream\s+)?)\.?[A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*(?=\s*\))`,
				Lookbehind: true,
			},
		)),
		grammar.D(hilite.Keyword, grammar.Pattern{
			Expr: `\b(?:enum|extend|extensions|import|message|oneof|option|optional|package|public|repeated|required|reserved|returns|rpc(?=\s+\w)|service|stream|syntax|to)\b(?!\s*=\s*\d)`,
		}),
		grammar.D(hilite.Function, grammar.Pattern{
			Expr:       `\b[a-z_]\w*(?=\s*\()`,
			IgnoreCase: true,
		}),
	)
	if err != nil {
		return nil, err
	}
	mapType, err := grammar.NewBuilder("protobuf/map").
		Match(hilite.Punctuation, `[<>.,]`).
		Add(hilite.Builtin, builtins).
		Grammar()
	if err != nil {
		return nil, err
	}
	qualified, err := grammar.NewBuilder("protobuf/positional-class-name").
		Match(hilite.Punctuation, `\.`).
		Grammar()
	if err != nil {
		return nil, err
	}
	return grammar.InsertBefore(proto, hilite.Operator,
		grammar.D(hilite.Map, grammar.Nested{
			Pattern: grammar.Pattern{
				Expr:       `\bmap<\s*[\w.]+\s*,\s*[\w.]+\s*>(?=\s+[a-z_]\w*\s*[=;])`,
				IgnoreCase: true,
				Alias:      []hilite.Kind{hilite.ClassName},
			},
			Inside: mapType,
		}),
		grammar.D(hilite.Builtin, builtins),
		grammar.D(hilite.PositionalClassName, grammar.Nested{
			Pattern: grammar.Pattern{
				Expr:       `(?:\b|\B\.)[a-z_]\w*(?:\.[a-z_]\w*)*(?=\s+[a-z_]\w*\s*[=;])`,
				IgnoreCase: true,
				Alias:      []hilite.Kind{hilite.ClassName},
			},
			Inside: qualified,
		}),
		grammar.D(hilite.Annotation, grammar.Pattern{
			Expr:       `(\[\s*)[a-z_]\w*(?=\s*=)`,
			Lookbehind: true,
			IgnoreCase: true,
		}),
	)
}
