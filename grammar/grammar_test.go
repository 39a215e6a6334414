package grammar

import (
	"errors"
	"testing"

	"github.com/npillmayer/hilite"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func makeBase(t *testing.T) *Grammar {
	b := NewBuilder("base")
	b.Add(hilite.Comment, Alt(
		Pattern{Expr: `(^|[^\\])\/\*[\s\S]*?(?:\*\/|$)`, Lookbehind: true, Greedy: true},
		Pattern{Expr: `(^|[^\\:])\/\/.*`, Lookbehind: true, Greedy: true},
	))
	b.Add(hilite.String, Pattern{Expr: `(["'])(?:\\(?:\r\n|[\s\S])|(?!\1)[^\\\r\n])*\1`, Greedy: true})
	b.Match(hilite.Keyword, `\b(?:if|else|return)\b`)
	b.Match(hilite.Number, `\b\d+\b`)
	b.Match(hilite.Operator, `[-+*/=<>!]=?`)
	b.Match(hilite.Punctuation, `[{}[\];(),.:]`)
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.grammar")
	defer teardown()
	//
	g := makeBase(t)
	g.Dump()
	if g.Len() != 6 {
		t.Errorf("expected grammar to have 6 rules, has %d", g.Len())
	}
	kinds := g.Kinds()
	expected := []hilite.Kind{hilite.Comment, hilite.String, hilite.Keyword,
		hilite.Number, hilite.Operator, hilite.Punctuation}
	for i, k := range expected {
		if kinds[i] != k {
			t.Errorf("expected rule #%d to be %q, is %q", i, k, kinds[i])
		}
	}
	if r, ok := g.Rule(hilite.Comment); !ok {
		t.Errorf("expected to find comment rule")
	} else if alts, ok := r.(Alternatives); !ok || len(alts) != 2 {
		t.Errorf("expected comment rule to have 2 alternatives, is %v", r)
	}
	if g.Fingerprint() == "" {
		t.Errorf("expected grammar to have a fingerprint")
	}
}

func TestBuilderErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.grammar")
	defer teardown()
	//
	inside, _ := NewBuilder("inside").Match(hilite.Punctuation, `\.`).Grammar()
	for i, test := range []struct {
		name string
		defs []Def
	}{
		{"invalid regex", []Def{D(hilite.Keyword, Pattern{Expr: `(unclosed`})}},
		{"empty pattern", []Def{D(hilite.Keyword, Pattern{})}},
		{"empty kind", []Def{D("", Pattern{Expr: `x`})}},
		{"duplicate kind", []Def{D(hilite.Keyword, Pattern{Expr: `x`}), D(hilite.Keyword, Pattern{Expr: `y`})}},
		{"nested alternatives", []Def{D(hilite.Keyword, Alt(Alt(Pattern{Expr: `x`})))}},
		{"no alternatives", []Def{D(hilite.Keyword, Alt())}},
		{"nil rule", []Def{D(hilite.Keyword, nil)}},
		{"nil inside", []Def{D(hilite.Map, Nested{Pattern: Pattern{Expr: `x`}})}},
		{"lookbehind without group", []Def{D(hilite.Keyword, Pattern{Expr: `x`, Lookbehind: true})}},
		{"lookbehind with prefix only", []Def{D(hilite.Keyword, Pattern{Expr: `(x)`, Lookbehind: true})}},
		{"reserved kind", []Def{D(hilite.EOF, Pattern{Expr: `x`})}},
		{"valid followed by invalid", []Def{
			D(hilite.Map, Nested{Pattern: Pattern{Expr: `m`}, Inside: inside}),
			D(hilite.Number, Pattern{Expr: `[0-9`}),
		}},
	} {
		_, err := NewBuilder("errors").Append(test.defs...).Grammar()
		if err == nil {
			t.Errorf("test %d (%s): expected error, got none", i, test.name)
			continue
		}
		if !errors.Is(err, ErrGrammar) {
			t.Errorf("test %d (%s): expected error to be a grammar error, is %v", i, test.name, err)
		}
		t.Logf("test %d: %v", i, err)
	}
}

func TestEmptyGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.grammar")
	defer teardown()
	//
	g, err := NewBuilder("empty").Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 0 || len(g.Kinds()) != 0 {
		t.Errorf("expected empty grammar")
	}
	if _, ok := g.MatchAt([]rune("abc"), 0); ok {
		t.Errorf("empty grammar should not match anything")
	}
}

func TestSplitLookbehind(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.grammar")
	defer teardown()
	//
	for i, test := range []struct {
		expr, prefix, rest string
	}{
		{`(^|[^\\])\/\/.*`, `^|[^\\]`, `\/\/.*`},
		{`(\b(?:enum|message)\s+)[A-Za-z_]\w*`, `\b(?:enum|message)\s+`, `[A-Za-z_]\w*`},
		{`([)(])x`, `[)(]`, `x`},
		{`(\(\s*)y`, `\(\s*`, `y`},
		{`([^]])z`, `[^]]`, `z`},
	} {
		prefix, rest, err := splitLookbehind(test.expr)
		if err != nil {
			t.Errorf("test %d: unexpected error %v", i, err)
			continue
		}
		if prefix != test.prefix || rest != test.rest {
			t.Errorf("test %d: expected %q|%q, have %q|%q", i, test.prefix, test.rest, prefix, rest)
		}
	}
}

func TestMatchAt(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.grammar")
	defer teardown()
	//
	g := makeBase(t)
	for i, test := range []struct {
		input string
		pos   int
		kind  hilite.Kind
		end   int
	}{
		{"// x", 0, hilite.Comment, 4},
		{"a//b", 1, hilite.Comment, 4},
		{`"a\"b" + 1`, 0, hilite.String, 6},
		{"return 1", 0, hilite.Keyword, 6},
		{"x <= 1", 2, hilite.Operator, 4},
		{"x /* y */", 2, hilite.Comment, 9},
		{"x /* open", 2, hilite.Comment, 9},
	} {
		m, ok := g.MatchAt([]rune(test.input), test.pos)
		if !ok {
			t.Errorf("test %d: expected a match at %d in %q", i, test.pos, test.input)
			continue
		}
		if m.Kind != test.kind || m.End != test.end {
			t.Errorf("test %d: expected %s…%d, have %s…%d", i, test.kind, test.end, m.Kind, m.End)
		}
	}
}

func TestMatchIsAnchored(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.grammar")
	defer teardown()
	//
	g := makeBase(t)
	if m, ok := g.MatchAt([]rune("abc 12"), 0); ok {
		t.Errorf("expected no match at position 0, have %v", m)
	}
	if m, _ := g.MatchAt([]rune(`\// x`), 1); m.Kind == hilite.Comment {
		t.Errorf("escaped slash should prevent comment")
	}
}

func TestZeroLengthMatchIgnored(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.grammar")
	defer teardown()
	//
	g, err := NewBuilder("zero").Match(hilite.Keyword, `x*`).Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g.MatchAt([]rune("abc"), 0); ok {
		t.Errorf("expected zero-length match to be ignored")
	}
	if m, ok := g.MatchAt([]rune("xxa"), 0); !ok || m.End != 2 {
		t.Errorf("expected match of length 2, have %v", m)
	}
}

func TestGreedyAlternatives(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.grammar")
	defer teardown()
	//
	b := NewBuilder("greedy")
	b.Add(hilite.Keyword, Alt(
		Pattern{Expr: `in`, Greedy: true},
		Pattern{Expr: `int`},
		Pattern{Expr: `int32`, Greedy: true},
	))
	b.Add(hilite.Builtin, Alt(
		Pattern{Expr: `in`},
		Pattern{Expr: `int32`, Greedy: true},
	))
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	m, _ := g.MatchAt([]rune("int32"), 0)
	if m.Kind != hilite.Keyword || m.End != 5 {
		t.Errorf("expected greedy alternatives to select longest match, have %v", m)
	}
	g, _ = NewBuilder("lazy").Add(hilite.Builtin, Alt(
		Pattern{Expr: `in`},
		Pattern{Expr: `int32`, Greedy: true},
	)).Grammar()
	m, _ = g.MatchAt([]rune("int32"), 0)
	if m.End != 2 {
		t.Errorf("expected non-greedy first alternative to win, have %v", m)
	}
}

func TestFingerprint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.grammar")
	defer teardown()
	//
	g1 := makeBase(t)
	g2 := makeBase(t)
	if g1.Fingerprint() != g2.Fingerprint() {
		t.Errorf("expected structurally equal grammars to share a fingerprint")
	}
	g3, err := Extend(g1, "other", D(hilite.Keyword, Pattern{Expr: `\bfor\b`}))
	if err != nil {
		t.Fatal(err)
	}
	if g3.Fingerprint() == g1.Fingerprint() {
		t.Errorf("expected different grammars to have different fingerprints")
	}
}

func TestECMAAnchors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.grammar")
	defer teardown()
	//
	for i, test := range []struct {
		expr, expected string
	}{
		{`\bfoo\b`, asciiBoundary + `foo` + asciiBoundary},
		{`\B\.\d`, asciiNonBoundary + `\.\d`},
		{`a(?:b|$)`, `a(?:b|` + endOfInput + `)`},
		{`[\b$]`, `[\b$]`},
		{`[^]$]x`, `[^]$]x`},
		{`\\b\$`, `\\b\$`},
	} {
		have, err := ecmaAnchors(test.expr)
		if err != nil {
			t.Errorf("test %d: unexpected error %v", i, err)
			continue
		}
		if have != test.expected {
			t.Errorf("test %d: expected %q, have %q", i, test.expected, have)
		}
	}
	if _, err := ecmaAnchors(`abc\`); err == nil {
		t.Errorf("expected error for trailing backslash")
	}
}

func TestASCIIClasses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.grammar")
	defer teardown()
	//
	g, err := NewBuilder("ascii").
		Match(hilite.Keyword, `\bint\b`).
		Match(hilite.Number, `\d+`).
		Match(hilite.Comment, `#.*`).
		Grammar()
	if err != nil {
		t.Fatal(err)
	}
	for i, test := range []struct {
		input string
		pos   int
		kind  hilite.Kind
		end   int
	}{
		{"éint x", 1, hilite.Keyword, 4},
		{"intö", 0, hilite.Keyword, 3},
		{"١٢", 0, "", -1},
		{"12", 0, hilite.Number, 2},
		{"# c\r\n", 0, hilite.Comment, 3},
	} {
		m, ok := g.MatchAt([]rune(test.input), test.pos)
		if test.end < 0 {
			if ok {
				t.Errorf("test %d: expected no match, have %v", i, m.Kind)
			}
			continue
		}
		if !ok || m.Kind != test.kind || m.End != test.end {
			t.Errorf("test %d: expected %s up to %d, have %v (%v)", i, test.kind, test.end, m, ok)
		}
	}
}
