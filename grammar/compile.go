package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/npillmayer/hilite"
)

// ErrGrammar is the base error for malformed grammar definitions.
var ErrGrammar = errors.New("malformed grammar")

// RuleError reports a rule which could not be compiled.
type RuleError struct {
	Grammar string
	Kind    hilite.Kind
	Expr    string
	Err     error
}

func (e *RuleError) Error() string {
	if e.Expr == "" {
		return fmt.Sprintf("grammar %s, rule %q: %v", e.Grammar, e.Kind, e.Err)
	}
	return fmt.Sprintf("grammar %s, rule %q, pattern /%s/: %v", e.Grammar, e.Kind, e.Expr, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Is makes every RuleError match ErrGrammar.
func (e *RuleError) Is(target error) bool {
	return target == ErrGrammar
}

// --- Compiled rules --------------------------------------------------------

// matcher is a compiled pattern.
type matcher struct {
	pattern Pattern
	inside  *Grammar
	re      *regexp2.Regexp
}

// entry is a compiled rule for a token kind.
type entry struct {
	kind hilite.Kind
	rule Rule
	alts []*matcher
}

func compileRule(gname string, kind hilite.Kind, r Rule) (*entry, error) {
	if kind == "" {
		return nil, &RuleError{Grammar: gname, Err: errors.New("empty token kind")}
	}
	if kind == hilite.EOF {
		return nil, &RuleError{Grammar: gname, Kind: kind, Err: errors.New("reserved token kind")}
	}
	e := &entry{kind: kind, rule: r}
	var alts []Rule
	switch x := r.(type) {
	case Alternatives:
		if len(x) == 0 {
			return nil, &RuleError{Grammar: gname, Kind: kind, Err: errors.New("no alternatives")}
		}
		alts = x
	case nil:
		return nil, &RuleError{Grammar: gname, Kind: kind, Err: errors.New("missing rule")}
	default:
		alts = []Rule{x}
	}
	for _, a := range alts {
		var m *matcher
		switch x := a.(type) {
		case Pattern:
			m = &matcher{pattern: x}
		case Nested:
			if x.Inside == nil {
				return nil, &RuleError{Grammar: gname, Kind: kind, Expr: x.Expr,
					Err: errors.New("nested rule without inside grammar")}
			}
			m = &matcher{pattern: x.Pattern, inside: x.Inside}
		case Alternatives:
			return nil, &RuleError{Grammar: gname, Kind: kind, Err: errors.New("alternatives may not be nested")}
		default:
			return nil, &RuleError{Grammar: gname, Kind: kind, Err: fmt.Errorf("unknown rule type %T", a)}
		}
		re, err := compilePattern(m.pattern)
		if err != nil {
			return nil, &RuleError{Grammar: gname, Kind: kind, Expr: m.pattern.Expr, Err: err}
		}
		m.re = re
		e.alts = append(e.alts, m)
	}
	return e, nil
}

// compilePattern anchors a pattern at the start position of a match attempt.
// For lookbehind patterns the leading group is turned into a lookbehind
// assertion, keeping it a capture group to preserve group numbering for
// back references.
//
// Patterns follow JavaScript regular expression semantics: \d, \w and \b
// are ASCII-only, '.' matches neither '\r' nor '\n', and '$' matches at the
// end of input only.
func compilePattern(p Pattern) (*regexp2.Regexp, error) {
	if p.Expr == "" {
		return nil, errors.New("empty pattern")
	}
	src, err := ecmaAnchors(p.Expr)
	if err != nil {
		return nil, err
	}
	expr := `\G(?:` + src + `)`
	if p.Lookbehind {
		prefix, rest, err := splitLookbehind(src)
		if err != nil {
			return nil, err
		}
		expr = `\G(?<=(` + prefix + `))(?:` + rest + `)`
	}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if p.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}
	tracer().Debugf("compiling %s", expr)
	return regexp2.Compile(expr, opts)
}

// Replacements for anchors which differ between the regexp2 engine and
// JavaScript.
const (
	asciiBoundary    = `(?:(?<=[A-Za-z0-9_])(?![A-Za-z0-9_])|(?<![A-Za-z0-9_])(?=[A-Za-z0-9_]))`
	asciiNonBoundary = `(?:(?<=[A-Za-z0-9_])(?=[A-Za-z0-9_])|(?<![A-Za-z0-9_])(?![A-Za-z0-9_]))`
	endOfInput       = `(?![\s\S])`
)

// ecmaAnchors rewrites \b, \B and $ outside of character classes to their
// JavaScript meaning.
func ecmaAnchors(expr string) (string, error) {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '\\':
			if i+1 == len(expr) {
				return "", errors.New("pattern ends with a backslash")
			}
			i++
			switch {
			case !inClass && expr[i] == 'b':
				b.WriteString(asciiBoundary)
			case !inClass && expr[i] == 'B':
				b.WriteString(asciiNonBoundary)
			default:
				b.WriteByte(c)
				b.WriteByte(expr[i])
			}
			continue
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			b.WriteByte(c)
			if i+1 < len(expr) && expr[i+1] == '^' {
				i++
				b.WriteByte('^')
			}
			if i+1 < len(expr) && expr[i+1] == ']' {
				i++
				b.WriteByte(']')
			}
			continue
		case c == '$':
			b.WriteString(endOfInput)
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// splitLookbehind separates the leading capture group of an expression
// from the rest of it.
func splitLookbehind(expr string) (prefix, rest string, err error) {
	if len(expr) < 2 || expr[0] != '(' || expr[1] == '?' {
		return "", "", errors.New("lookbehind pattern must start with a capture group")
	}
	depth, inClass := 0, false
	for i := 0; i < len(expr); i++ {
		switch c := expr[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			if i+1 < len(expr) && expr[i+1] == '^' {
				i++
			}
			if i+1 < len(expr) && expr[i+1] == ']' {
				i++
			}
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				if i+1 == len(expr) {
					return "", "", errors.New("lookbehind pattern consists of prefix only")
				}
				return expr[1:i], expr[i+1:], nil
			}
		}
	}
	return "", "", errors.New("unbalanced parentheses")
}

// --- Matching --------------------------------------------------------------

// matchAt returns the end position of a match starting exactly at pos,
// or -1. Zero-length matches do not count.
func (m *matcher) matchAt(input []rune, pos int) int {
	match, err := m.re.FindRunesMatchStartingAt(input, pos)
	if err != nil {
		tracer().Errorf("pattern /%s/ failed at %d: %v", m.pattern.Expr, pos, err)
		return -1
	}
	if match == nil || match.Index != pos || match.Length == 0 {
		return -1
	}
	return pos + match.Length
}

func (e *entry) match(input []rune, pos int) (*matcher, int) {
	for i, a := range e.alts {
		end := a.matchAt(input, pos)
		if end < 0 {
			continue
		}
		if !a.pattern.Greedy {
			return a, end
		}
		best, bestEnd := a, end
		for _, b := range e.alts[i+1:] {
			if !b.pattern.Greedy {
				continue
			}
			if x := b.matchAt(input, pos); x > bestEnd {
				best, bestEnd = b, x
			}
		}
		return best, bestEnd
	}
	return nil, -1
}

// Match is the outcome of a successful match attempt of a grammar.
type Match struct {
	Kind    hilite.Kind   // kind of the rule which matched
	Aliases []hilite.Kind // aliases of the matching pattern
	Inside  *Grammar      // grammar for the matched text, if the rule is nested
	Start   int           // rune offset where the token starts
	End     int           // rune offset just behind the token
}

// MatchAt tries all rules of g in order at rune position pos of input and
// returns the first match. Patterns are anchored at pos; lookbehind prefixes
// are matched against input before pos.
func (g *Grammar) MatchAt(input []rune, pos int) (Match, bool) {
	if pos < 0 || pos >= len(input) {
		return Match{}, false
	}
	for _, e := range g.seq {
		if m, end := e.match(input, pos); m != nil {
			inside := m.inside
			if inside == Self {
				inside = g
			}
			return Match{
				Kind:    e.kind,
				Aliases: m.pattern.Alias,
				Inside:  inside,
				Start:   pos,
				End:     end,
			}, true
		}
	}
	return Match{}, false
}
