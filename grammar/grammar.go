package grammar

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/hilite"
)

// Grammar is an immutable, ordered table of rules. Create one with a Builder,
// or derive one from an existing grammar with Extend or InsertBefore.
//
// Grammars are safe for concurrent use by multiple tokenizers.
type Grammar struct {
	name        string
	rules       *linkedhashmap.Map // hilite.Kind → *entry, in order of priority
	seq         []*entry           // rules in order, for the matching loop
	fingerprint string
}

// Self may be used as the inside grammar of a nested rule. It stands for the
// grammar the rule is part of, which allows for recursive grammars. For derived
// grammars, Self denotes the derived grammar.
var Self = &Grammar{name: "self"}

// newGrammar is the single place where grammars come into existence.
// entries have to be compiled already.
func newGrammar(name string, entries []*entry) (*Grammar, error) {
	g := &Grammar{
		name:  name,
		rules: linkedhashmap.New(),
		seq:   make([]*entry, 0, len(entries)),
	}
	for _, e := range entries {
		if _, dup := g.rules.Get(e.kind); dup {
			return nil, &RuleError{Grammar: name, Kind: e.kind, Err: fmt.Errorf("duplicate rule")}
		}
		g.rules.Put(e.kind, e)
		g.seq = append(g.seq, e)
	}
	fp, err := structhash.Hash(g.digest(), 1)
	if err != nil {
		return nil, fmt.Errorf("grammar %s: cannot compute fingerprint: %w", name, err)
	}
	g.fingerprint = fp
	return g, nil
}

// Name returns the name of the grammar.
func (g *Grammar) Name() string {
	return g.name
}

// Len returns the number of rules.
func (g *Grammar) Len() int {
	if g == nil {
		return 0
	}
	return len(g.seq)
}

// Kinds returns the token kinds of all rules, in order of priority.
func (g *Grammar) Kinds() []hilite.Kind {
	kinds := make([]hilite.Kind, 0, g.Len())
	for _, k := range g.rules.Keys() {
		kinds = append(kinds, k.(hilite.Kind))
	}
	return kinds
}

// Rule returns the rule for a token kind.
func (g *Grammar) Rule(kind hilite.Kind) (Rule, bool) {
	e, ok := g.rules.Get(kind)
	if !ok {
		return nil, false
	}
	return e.(*entry).rule, true
}

// Defs returns the rule definitions of g in order. The result may be freely
// modified by clients and used to build other grammars.
func (g *Grammar) Defs() []Def {
	defs := make([]Def, len(g.seq))
	for i, e := range g.seq {
		defs[i] = Def{Kind: e.kind, Rule: e.rule}
	}
	return defs
}

// Fingerprint is a hash over the structure of a grammar. Grammars with
// identical rules (including inside grammars) share a fingerprint,
// independent of their names.
func (g *Grammar) Fingerprint() string {
	return g.fingerprint
}

func (g *Grammar) String() string {
	return fmt.Sprintf("<grammar %s|%d>", g.name, g.Len())
}

// Dump is a debugging helper, writing the rules to the trace.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s ------------", g.name)
	for i, e := range g.seq {
		tracer().Debugf("%3d: %s", i, Def{Kind: e.kind, Rule: e.rule})
	}
	tracer().Debugf("-------------------------")
}

// --- Fingerprinting --------------------------------------------------------

type grammarDigest struct {
	Rules []ruleDigest
}

type ruleDigest struct {
	Kind string
	Alts []altDigest
}

type altDigest struct {
	Expr       string
	Lookbehind bool
	Greedy     bool
	IgnoreCase bool
	Alias      []string
	Inside     string
}

func (g *Grammar) digest() grammarDigest {
	d := make([]ruleDigest, len(g.seq))
	for i, e := range g.seq {
		d[i].Kind = string(e.kind)
		for _, m := range e.alts {
			a := altDigest{
				Expr:       m.pattern.Expr,
				Lookbehind: m.pattern.Lookbehind,
				Greedy:     m.pattern.Greedy,
				IgnoreCase: m.pattern.IgnoreCase,
			}
			for _, k := range m.pattern.Alias {
				a.Alias = append(a.Alias, string(k))
			}
			if m.inside == Self {
				a.Inside = "self"
			} else if m.inside != nil {
				a.Inside = m.inside.fingerprint
			}
			d[i].Alts = append(d[i].Alts, a)
		}
	}
	return grammarDigest{Rules: d}
}

// --- Builder ---------------------------------------------------------------

// Builder collects rule definitions for a new grammar.
//
//    b := grammar.NewBuilder("G")
//    b.Match(hilite.Comment, `#.*`)
//    b.Add(hilite.String, grammar.Pattern{Expr: `"[^"]*"`, Greedy: true})
//    g, err := b.Grammar()
//
type Builder struct {
	name string
	defs []Def
}

// NewBuilder gets a new grammar builder, given the name of the grammar to build.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Add appends a rule, with lowest priority so far.
func (b *Builder) Add(kind hilite.Kind, rule Rule) *Builder {
	b.defs = append(b.defs, Def{Kind: kind, Rule: rule})
	return b
}

// Append appends a list of rule definitions.
func (b *Builder) Append(defs ...Def) *Builder {
	b.defs = append(b.defs, defs...)
	return b
}

// Match appends a simple pattern rule.
func (b *Builder) Match(kind hilite.Kind, expr string) *Builder {
	return b.Add(kind, Pattern{Expr: expr})
}

// Lookbehind appends a pattern rule whose first capture group is a
// lookbehind prefix.
func (b *Builder) Lookbehind(kind hilite.Kind, expr string) *Builder {
	return b.Add(kind, Pattern{Expr: expr, Lookbehind: true})
}

// Grammar compiles the rules and returns the grammar. It is an error to
// define a token kind more than once. Every pattern has to be a valid
// regular expression.
func (b *Builder) Grammar() (*Grammar, error) {
	entries, err := compileDefs(b.name, b.defs)
	if err != nil {
		return nil, err
	}
	g, err := newGrammar(b.name, entries)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("grammar %s built with %d rules", g.name, g.Len())
	return g, nil
}

func compileDefs(gname string, defs []Def) ([]*entry, error) {
	entries := make([]*entry, 0, len(defs))
	for _, d := range defs {
		e, err := compileRule(gname, d.Kind, d.Rule)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Must is a helper for grammars which have to compile, such as built-in ones.
// It panics if err is non-nil.
func Must(g *Grammar, err error) *Grammar {
	if err != nil {
		panic(fmt.Errorf("error creating grammar: %w", err))
	}
	return g
}
