package grammar

import (
	"fmt"
	"strings"

	"github.com/npillmayer/hilite"
)

// Rule is the type of grammar rules. It is implemented by Pattern,
// Alternatives and Nested only.
type Rule interface {
	isRule()
}

// Pattern is a rule consisting of a single regular expression.
type Pattern struct {
	Expr       string        // regular expression, matched at the current position
	Lookbehind bool          // first capture group is a prefix behind the position
	Greedy     bool          // competes for length with other greedy alternatives
	IgnoreCase bool          // case-insensitive matching
	Alias      []hilite.Kind // additional kinds for tokens produced by this pattern
}

// Alternatives is an ordered list of rules for the same token kind.
// Elements may be of type Pattern or Nested, but not Alternatives.
//
// The first alternative to match wins. If this alternative is greedy, all
// subsequent greedy alternatives are tried as well and the longest match
// is selected.
type Alternatives []Rule

// Nested is a pattern whose matched text is tokenized again, using an inner
// grammar. Tokens for nested rules carry the inner tokens as children.
type Nested struct {
	Pattern
	Inside *Grammar
}

func (Pattern) isRule()      {}
func (Alternatives) isRule() {}
func (Nested) isRule()       {}

// Alt is a small helper to create alternatives.
func Alt(rules ...Rule) Alternatives {
	return Alternatives(rules)
}

// Def is a rule definition: a token kind together with the rule to recognize it.
// Ordered lists of Defs are the input for grammar construction and extension.
type Def struct {
	Kind hilite.Kind
	Rule Rule
}

// D creates a rule definition.
func D(kind hilite.Kind, rule Rule) Def {
	return Def{Kind: kind, Rule: rule}
}

func (d Def) String() string {
	return fmt.Sprintf("%s ::= %s", d.Kind, ruleString(d.Rule))
}

func ruleString(r Rule) string {
	switch x := r.(type) {
	case Pattern:
		return patternString(x)
	case Nested:
		name := "<nil>"
		if x.Inside != nil {
			name = x.Inside.Name()
		}
		return fmt.Sprintf("%s inside %s", patternString(x.Pattern), name)
	case Alternatives:
		s := make([]string, len(x))
		for i, a := range x {
			s[i] = ruleString(a)
		}
		return "[ " + strings.Join(s, " | ") + " ]"
	}
	return fmt.Sprintf("%v", r)
}

func patternString(p Pattern) string {
	var flags []string
	if p.Lookbehind {
		flags = append(flags, "lookbehind")
	}
	if p.Greedy {
		flags = append(flags, "greedy")
	}
	if p.IgnoreCase {
		flags = append(flags, "i")
	}
	for _, a := range p.Alias {
		flags = append(flags, "alias="+string(a))
	}
	if len(flags) == 0 {
		return "/" + p.Expr + "/"
	}
	return "/" + p.Expr + "/ {" + strings.Join(flags, ",") + "}"
}
