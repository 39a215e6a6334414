package grammar

import (
	"errors"
	"fmt"

	"github.com/npillmayer/hilite"
	"golang.org/x/exp/slices"
)

// Extend derives a new grammar from base. Rules for kinds already present in
// base are replaced in place, keeping their priority. Rules for new kinds are
// appended. base is not modified.
//
// This corresponds to deriving a language from a more generic one, e.g. a
// C-like base grammar, redefining some of its rules.
func Extend(base *Grammar, name string, defs ...Def) (*Grammar, error) {
	if base == nil {
		return nil, fmt.Errorf("cannot extend nil grammar: %w", ErrGrammar)
	}
	if err := checkUnique(name, defs); err != nil {
		return nil, err
	}
	entries := slices.Clone(base.seq)
	for _, d := range defs {
		e, err := compileRule(name, d.Kind, d.Rule)
		if err != nil {
			return nil, err
		}
		if i := slices.IndexFunc(entries, isKind(d.Kind)); i >= 0 {
			entries[i] = e
		} else {
			entries = append(entries, e)
		}
	}
	g, err := newGrammar(name, entries)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("grammar %s extends %s with %d rules", name, base.name, len(defs))
	return g, nil
}

// InsertBefore derives a new grammar from base, inserting rules immediately
// before the rule for kind anchor. If anchor is empty, the new rules are
// appended. A kind already present in base is removed from its old position
// and re-appears at the point of insertion. All other rules keep their
// relative order. base is not modified; the new grammar carries the name of
// base.
//
// It is an error if anchor is not empty and base has no rule for it, or if
// anchor is one of the kinds to insert.
func InsertBefore(base *Grammar, anchor hilite.Kind, defs ...Def) (*Grammar, error) {
	if base == nil {
		return nil, fmt.Errorf("cannot insert into nil grammar: %w", ErrGrammar)
	}
	if err := checkUnique(base.name, defs); err != nil {
		return nil, err
	}
	inserted := make([]*entry, 0, len(defs))
	for _, d := range defs {
		if anchor != "" && d.Kind == anchor {
			return nil, &RuleError{Grammar: base.name, Kind: d.Kind,
				Err: errors.New("cannot insert rule before itself")}
		}
		e, err := compileRule(base.name, d.Kind, d.Rule)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, e)
	}
	entries := slices.DeleteFunc(slices.Clone(base.seq), func(e *entry) bool {
		return slices.ContainsFunc(defs, func(d Def) bool { return d.Kind == e.kind })
	})
	at := len(entries)
	if anchor != "" {
		if at = slices.IndexFunc(entries, isKind(anchor)); at < 0 {
			return nil, &RuleError{Grammar: base.name, Kind: anchor,
				Err: errors.New("anchor rule not found")}
		}
	}
	entries = slices.Insert(entries, at, inserted...)
	g, err := newGrammar(base.name, entries)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("grammar %s: inserted %d rules before %q", base.name, len(defs), anchor)
	return g, nil
}

func isKind(k hilite.Kind) func(*entry) bool {
	return func(e *entry) bool {
		return e.kind == k
	}
}

func checkUnique(gname string, defs []Def) error {
	seen := make(map[hilite.Kind]bool, len(defs))
	for _, d := range defs {
		if seen[d.Kind] {
			return &RuleError{Grammar: gname, Kind: d.Kind, Err: errors.New("duplicate rule")}
		}
		seen[d.Kind] = true
	}
	return nil
}
