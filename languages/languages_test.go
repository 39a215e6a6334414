package languages

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/hilite"
	"github.com/npillmayer/hilite/grammar"
	"github.com/npillmayer/hilite/lexer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/sync/errgroup"
)

type lexeme struct {
	kind hilite.Kind
	text string
}

// significant drops plain-text tokens.
func significant(tokens []hilite.Token) []lexeme {
	var l []lexeme
	for _, t := range tokens {
		if t.Kind != hilite.PlainText {
			l = append(l, lexeme{t.Kind, t.Text})
		}
	}
	return l
}

func expectLexemes(t *testing.T, tokens []hilite.Token, expected []lexeme) {
	t.Helper()
	have := significant(tokens)
	if len(have) != len(expected) {
		t.Fatalf("expected %d significant tokens, have %d: %v", len(expected), len(have), have)
	}
	for i := range expected {
		if have[i] != expected[i] {
			t.Errorf("token #%d: expected %v, have %v", i, expected[i], have[i])
		}
	}
}

func find(tokens []hilite.Token, text string) (hilite.Token, bool) {
	for _, t := range tokens {
		if t.Text == text {
			return t, true
		}
	}
	return hilite.Token{}, false
}

func TestScalarTypes(t *testing.T) {
	types := ScalarTypes()
	if len(types) != 15 {
		t.Errorf("expected 15 scalar types, have %d: %v", len(types), types)
	}
	joined := " " + strings.Join(types, " ") + " "
	for _, s := range []string{"int32", "sfixed64", "bytes", "bool", "double"} {
		if !strings.Contains(joined, " "+s+" ") {
			t.Errorf("expected scalar type %q to be present", s)
		}
	}
	for _, s := range []string{"message", "enum", "group"} {
		if strings.Contains(joined, " "+s+" ") {
			t.Errorf("expected %q not to be a scalar type", s)
		}
	}
}

func TestProtobufKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	expected := []hilite.Kind{hilite.Comment, hilite.String, hilite.ClassName, hilite.Keyword,
		hilite.Boolean, hilite.Function, hilite.Number, hilite.Map, hilite.Builtin,
		hilite.PositionalClassName, hilite.Annotation, hilite.Operator, hilite.Punctuation}
	kinds := Protobuf().Kinds()
	if len(kinds) != len(expected) {
		t.Fatalf("expected protobuf kinds %v, have %v", expected, kinds)
	}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("rule #%d: expected %s, have %s", i, expected[i], kinds[i])
		}
	}
	if Protobuf().Name() != "protobuf" {
		t.Errorf("expected grammar name 'protobuf', have %q", Protobuf().Name())
	}
	if CLike().Len() != 9 {
		t.Errorf("clike grammar has been modified by deriving protobuf")
	}
}

func TestProtobufMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	src := "map<int32,string> foo = 1;"
	tokens := lexer.Tokenize(Protobuf(), src)
	if hilite.Text(tokens) != src {
		t.Fatalf("tokens do not reproduce input")
	}
	m := tokens[0]
	if m.Kind != hilite.Map || m.Text != "map<int32,string>" || !m.Is(hilite.ClassName) {
		t.Fatalf("expected map token aliased class-name, have %v", m)
	}
	expected := []lexeme{
		{hilite.PlainText, "map"},
		{hilite.Punctuation, "<"},
		{hilite.Builtin, "int32"},
		{hilite.Punctuation, ","},
		{hilite.Builtin, "string"},
		{hilite.Punctuation, ">"},
	}
	if len(m.Children) != len(expected) {
		t.Fatalf("expected %d children of map token, have %v", len(expected), m.Children)
	}
	for i, c := range m.Children {
		if c.Kind != expected[i].kind || c.Text != expected[i].text {
			t.Errorf("child #%d: expected %v, have %s %q", i, expected[i], c.Kind, c.Text)
		}
	}
	expectLexemes(t, tokens[1:], []lexeme{
		{hilite.Operator, "="},
		{hilite.Number, "1"},
		{hilite.Punctuation, ";"},
	})
}

func TestProtobufMessage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	src := `syntax = "proto3";
// A person.
message Person {
  string name = 1;
  repeated Phone phones = 2 [deprecated = true];
  map<string, Project> projects = 3;
}
`
	tokens := lexer.Tokenize(Protobuf(), src)
	if hilite.Text(tokens) != src {
		t.Fatalf("tokens do not reproduce input")
	}
	expectLexemes(t, tokens, []lexeme{
		{hilite.Keyword, "syntax"},
		{hilite.Operator, "="},
		{hilite.String, `"proto3"`},
		{hilite.Punctuation, ";"},
		{hilite.Comment, "// A person."},
		{hilite.Keyword, "message"},
		{hilite.ClassName, "Person"},
		{hilite.Punctuation, "{"},
		{hilite.Builtin, "string"},
		{hilite.Operator, "="},
		{hilite.Number, "1"},
		{hilite.Punctuation, ";"},
		{hilite.Keyword, "repeated"},
		{hilite.PositionalClassName, "Phone"},
		{hilite.Operator, "="},
		{hilite.Number, "2"},
		{hilite.Punctuation, "["},
		{hilite.Annotation, "deprecated"},
		{hilite.Operator, "="},
		{hilite.Boolean, "true"},
		{hilite.Punctuation, "]"},
		{hilite.Punctuation, ";"},
		{hilite.Map, "map<string, Project>"},
		{hilite.Operator, "="},
		{hilite.Number, "3"},
		{hilite.Punctuation, ";"},
		{hilite.Punctuation, "}"},
	})
	phone, _ := find(tokens, "Phone")
	if !phone.Is(hilite.ClassName) {
		t.Errorf("expected positional class name to be aliased class-name")
	}
}

func TestProtobufQualifiedNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	tokens := lexer.Tokenize(Protobuf(), "google.protobuf.Timestamp created = 4;")
	ts := tokens[0]
	if ts.Kind != hilite.PositionalClassName || ts.Text != "google.protobuf.Timestamp" {
		t.Fatalf("expected qualified positional class name, have %v", ts)
	}
	dots := 0
	for _, c := range ts.Children {
		if c.Kind == hilite.Punctuation && c.Text == "." {
			dots++
		}
	}
	if dots != 2 || len(ts.Children) != 5 {
		t.Errorf("expected 5 children with 2 dots, have %v", ts.Children)
	}
}

func TestProtobufService(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	src := "service Greeter {\n  rpc SayHello (HelloRequest) returns (stream HelloReply);\n}"
	tokens := lexer.Tokenize(Protobuf(), src)
	expectLexemes(t, tokens, []lexeme{
		{hilite.Keyword, "service"},
		{hilite.ClassName, "Greeter"},
		{hilite.Punctuation, "{"},
		{hilite.Keyword, "rpc"},
		{hilite.Function, "SayHello"},
		{hilite.Punctuation, "("},
		{hilite.ClassName, "HelloRequest"},
		{hilite.Punctuation, ")"},
		{hilite.Keyword, "returns"},
		{hilite.Punctuation, "("},
		{hilite.Keyword, "stream"},
		{hilite.ClassName, "HelloReply"},
		{hilite.Punctuation, ")"},
		{hilite.Punctuation, ";"},
		{hilite.Punctuation, "}"},
	})
}

func TestCLike(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	src := `/* c */ if (x) { return new Foo.Bar("a\"b"); } // done`
	tokens := lexer.Tokenize(CLike(), src)
	if hilite.Text(tokens) != src {
		t.Fatalf("tokens do not reproduce input")
	}
	expectLexemes(t, tokens, []lexeme{
		{hilite.Comment, "/* c */"},
		{hilite.Keyword, "if"},
		{hilite.Punctuation, "("},
		{hilite.Punctuation, ")"},
		{hilite.Punctuation, "{"},
		{hilite.Keyword, "return"},
		{hilite.Keyword, "new"},
		{hilite.ClassName, "Foo.Bar"},
		{hilite.Punctuation, "("},
		{hilite.String, `"a\"b"`},
		{hilite.Punctuation, ")"},
		{hilite.Punctuation, ";"},
		{hilite.Punctuation, "}"},
		{hilite.Comment, "// done"},
	})
	cn, _ := find(tokens, "Foo.Bar")
	if len(cn.Children) != 3 || cn.Children[1].Kind != hilite.Punctuation {
		t.Errorf("expected class name to be split at '.', have %v", cn.Children)
	}
}

func TestCLikeUnterminatedComment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	tokens := lexer.Tokenize(CLike(), "x = 1; /* open\nend")
	last := tokens[len(tokens)-1]
	if last.Kind != hilite.Comment || last.Text != "/* open\nend" {
		t.Errorf("expected unterminated block comment to run to end of input, have %v", last)
	}
}

func TestGoTemplate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	src := `{{- /* note */ -}}{{ range $i, $e := .Items }}{{ printf "%d" $i }}{{ end }}`
	tokens := lexer.Tokenize(GoTemplate(), src)
	if hilite.Text(tokens) != src {
		t.Fatalf("tokens do not reproduce input")
	}
	expectLexemes(t, tokens, []lexeme{
		{hilite.Comment, "{{- /* note */ -}}"},
		{hilite.Punctuation, "{{"},
		{hilite.Keyword, "range"},
		{hilite.Variable, "$i"},
		{hilite.Punctuation, ","},
		{hilite.Variable, "$e"},
		{hilite.Operator, ":="},
		{hilite.Punctuation, "."},
		{hilite.Property, "Items"},
		{hilite.Punctuation, "}}"},
		{hilite.Punctuation, "{{"},
		{hilite.Builtin, "printf"},
		{hilite.String, `"%d"`},
		{hilite.Variable, "$i"},
		{hilite.Punctuation, "}}"},
		{hilite.Punctuation, "{{"},
		{hilite.Keyword, "end"},
		{hilite.Punctuation, "}}"},
	})
}

func TestGoTemplateLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	tokens := lexer.Tokenize(GoTemplate(), "{{ if eq .X nil }}{{ true }}{{- end -}}")
	expectLexemes(t, tokens, []lexeme{
		{hilite.Punctuation, "{{"},
		{hilite.Keyword, "if"},
		{hilite.Builtin, "eq"},
		{hilite.Punctuation, "."},
		{hilite.Property, "X"},
		{hilite.Keyword, "nil"},
		{hilite.Punctuation, "}}"},
		{hilite.Punctuation, "{{"},
		{hilite.Boolean, "true"},
		{hilite.Punctuation, "}}"},
		{hilite.Punctuation, "{{-"},
		{hilite.Keyword, "end"},
		{hilite.Punctuation, "-}}"},
	})
}

func TestWordList(t *testing.T) {
	re := wordList([]string{"in", "int", "if"}, []string{"int"})
	if re != `\b(?:int|if|in)\b` {
		t.Errorf("unexpected word list pattern %s", re)
	}
}

// --- Registry --------------------------------------------------------------

func TestDefaultRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	names := Names()
	if strings.Join(names, ",") != "clike,gotemplate,protobuf" {
		t.Errorf("unexpected built-in languages: %v", names)
	}
	for alias, g := range map[string]*grammar.Grammar{
		"proto":       Protobuf(),
		"PROTOBUF":    Protobuf(),
		"gotmpl":      GoTemplate(),
		"Go-Template": GoTemplate(),
		"c-like":      CLike(),
	} {
		if found, ok := Lookup(alias); !ok || found != g {
			t.Errorf("expected %q to resolve to %s", alias, g)
		}
	}
	if _, ok := Lookup("cobol"); ok {
		t.Errorf("did not expect to find a grammar for cobol")
	}
	if a := Default().Aliases("gotemplate"); strings.Join(a, ",") != "go-template,gotmpl" {
		t.Errorf("unexpected aliases for gotemplate: %v", a)
	}
}

func TestRegistryRegister(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	r := NewRegistry()
	if err := r.Register("clike", CLike(), "c"); err != nil {
		t.Fatal(err)
	}
	if err := r.Register("", CLike()); err == nil {
		t.Errorf("expected error for empty language identifier")
	}
	if err := r.Register("x", nil); err == nil {
		t.Errorf("expected error for nil grammar")
	}
	if err := r.Register("c", Protobuf()); err == nil {
		t.Errorf("expected error for identifier shadowing an alias")
	}
	if err := r.Register("protobuf", Protobuf(), "clike"); err == nil {
		t.Errorf("expected error for alias shadowing a language")
	}
	if err := r.Register("CLike", Protobuf(), "c"); err != nil {
		t.Fatal(err)
	}
	if g, _ := r.Lookup("c"); g != Protobuf() {
		t.Errorf("expected re-registration to replace the grammar")
	}
	if id, ok := r.Canonical("C"); !ok || id != "clike" {
		t.Errorf("expected alias C to resolve to clike, is %q", id)
	}
}

func TestRegistryAliasOwnership(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	r := NewRegistry()
	if err := r.Register("protobuf", Protobuf(), "proto"); err != nil {
		t.Fatal(err)
	}
	if err := r.Register("other", CLike(), "proto"); err == nil {
		t.Errorf("expected error for alias taken by another language")
	}
	if g, _ := r.Lookup("proto"); g != Protobuf() {
		t.Errorf("expected alias proto to still resolve to protobuf")
	}
	if _, ok := r.Lookup("other"); ok {
		t.Errorf("did not expect failed registration to register a language")
	}
	if a := r.Aliases("protobuf"); len(a) != 1 || a[0] != "proto" {
		t.Errorf("expected aliases of protobuf to be [proto], have %v", a)
	}
	// re-registration replaces the aliases of a language
	if err := r.Register("protobuf", Protobuf(), "pb"); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Lookup("proto"); ok {
		t.Errorf("expected old alias proto to be removed")
	}
	if id, ok := r.Canonical("PB"); !ok || id != "protobuf" {
		t.Errorf("expected alias pb to resolve to protobuf, is %q", id)
	}
	if err := r.Register("other", CLike(), "proto"); err != nil {
		t.Errorf("expected released alias to be available, have %v", err)
	}
}

func TestJavaScriptRegexSemantics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	tokens := lexer.Tokenize(CLike(), "// c\r\nx")
	expectLexemes(t, tokens, []lexeme{{hilite.Comment, "// c"}})
	//
	tokens = lexer.Tokenize(CLike(), "/* open\n")
	expectLexemes(t, tokens, []lexeme{{hilite.Comment, "/* open\n"}})
	//
	tokens = lexer.Tokenize(Protobuf(), "x = \u0661\u0662;")
	expectLexemes(t, tokens, []lexeme{
		{hilite.Operator, "="},
		{hilite.Punctuation, ";"},
	})
	//
	tokens = lexer.Tokenize(Protobuf(), "\u00e9int32 x = 1;")
	if hilite.Text(tokens) != "\u00e9int32 x = 1;" {
		t.Fatalf("tokens do not reproduce input")
	}
	expectLexemes(t, tokens, []lexeme{
		{hilite.Builtin, "int32"},
		{hilite.Operator, "="},
		{hilite.Number, "1"},
		{hilite.Punctuation, ";"},
	})
}

func TestConcurrentTokenize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.languages")
	defer teardown()
	//
	g := Protobuf()
	var group errgroup.Group
	for i := 0; i < 16; i++ {
		i := i
		group.Go(func() error {
			for j := 0; j < 50; j++ {
				src := fmt.Sprintf("message M%d {\n  map<string, int32> m%d = %d; // n\n}\n", i, j, j+1)
				tokens := lexer.Tokenize(g, src)
				if hilite.Text(tokens) != src {
					return fmt.Errorf("goroutine %d: tokens do not reproduce %q", i, src)
				}
				if _, ok := find(tokens, "map<string, int32>"); !ok {
					return fmt.Errorf("goroutine %d: no map token for %q", i, src)
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		t.Error(err)
	}
}
