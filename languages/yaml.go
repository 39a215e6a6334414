package languages

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/hilite"
	"github.com/npillmayer/hilite/grammar"
	"github.com/npillmayer/schuko/gconf"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// ErrUnknownLanguage is returned if a grammar file refers to a language
// which is not registered.
var ErrUnknownLanguage = errors.New("unknown language")

// Language is a grammar together with the identifiers to find it by.
type Language struct {
	ID      string
	Aliases []string
	Grammar *grammar.Grammar
}

// grammarFile is the top-level structure of a YAML grammar definition.
// Rules are kept as YAML nodes to preserve their order.
type grammarFile struct {
	Name    string    `yaml:"name"`
	Aliases []string  `yaml:"aliases"`
	Extends string    `yaml:"extends"`
	Rules   yaml.Node `yaml:"rules"`
	Insert  struct {
		Before string    `yaml:"before"`
		Rules  yaml.Node `yaml:"rules"`
	} `yaml:"insert"`
}

type patternSpec struct {
	Pattern    string    `yaml:"pattern"`
	Lookbehind bool      `yaml:"lookbehind"`
	Greedy     bool      `yaml:"greedy"`
	IgnoreCase bool      `yaml:"ignore-case"`
	Alias      kindList  `yaml:"alias"`
	Inside     yaml.Node `yaml:"inside"`
}

// kindList accepts a single kind as well as a list of kinds.
type kindList []hilite.Kind

func (l *kindList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = kindList{hilite.Kind(node.Value)}
		return nil
	case yaml.SequenceNode:
		var kinds []string
		if err := node.Decode(&kinds); err != nil {
			return err
		}
		for _, k := range kinds {
			*l = append(*l, hilite.Kind(k))
		}
		return nil
	}
	return fmt.Errorf("line %d: alias must be a kind or a list of kinds", node.Line)
}

// LoadYAML reads a grammar definition from r. Languages referred to by
// 'extends' or by inside grammars are resolved with the registry. The
// grammar is not registered.
//
// A grammar without a name in its definition will be named 'anonymous'.
func (r *Registry) LoadYAML(rd io.Reader) (Language, error) {
	return r.loadYAML(rd, "anonymous")
}

func (r *Registry) loadYAML(rd io.Reader, defaultName string) (Language, error) {
	var f grammarFile
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Language{}, fmt.Errorf("cannot read grammar definition: %w", err)
	}
	id := normalize(f.Name)
	if id == "" {
		id = defaultName
	}
	lang := Language{ID: id, Aliases: f.Aliases}
	l := loader{r: r}
	defs, err := l.defs(id, &f.Rules)
	if err != nil {
		return lang, err
	}
	var g *grammar.Grammar
	if f.Extends != "" {
		base, ok := r.Lookup(f.Extends)
		if !ok {
			return lang, fmt.Errorf("grammar %s extends %q: %w", id, f.Extends, ErrUnknownLanguage)
		}
		g, err = grammar.Extend(base, id, defs...)
	} else {
		g, err = grammar.NewBuilder(id).Append(defs...).Grammar()
	}
	if err != nil {
		return lang, err
	}
	if f.Insert.Rules.Kind != 0 {
		idefs, err := l.defs(id, &f.Insert.Rules)
		if err != nil {
			return lang, err
		}
		if g, err = grammar.InsertBefore(g, hilite.Kind(f.Insert.Before), idefs...); err != nil {
			return lang, err
		}
	}
	tracer().Debugf("loaded grammar %s with %d rules", id, g.Len())
	lang.Grammar = g
	return lang, nil
}

// LoadFile reads a grammar definition file and registers the grammar. If the
// definition does not name the language, the file name (without extension)
// is used.
func (r *Registry) LoadFile(path string) (Language, error) {
	f, err := os.Open(path)
	if err != nil {
		return Language{}, err
	}
	defer f.Close()
	base := filepath.Base(path)
	lang, err := r.loadYAML(f, normalize(strings.TrimSuffix(base, filepath.Ext(base))))
	if err != nil {
		return lang, fmt.Errorf("%s: %w", path, err)
	}
	if err = r.Register(lang.ID, lang.Grammar, lang.Aliases...); err != nil {
		return lang, fmt.Errorf("%s: %w", path, err)
	}
	return lang, nil
}

// LoadDir loads and registers all grammar files (*.yaml, *.yml) of a
// directory. Files may extend each other, independent of their order in the
// directory.
//
// If global configuration flag 'strict-grammars' is set, the first malformed
// file aborts loading. Otherwise malformed files are traced and skipped.
func (r *Registry) LoadDir(dir string) ([]Language, error) {
	return r.LoadDirStrict(dir, gconf.GetBool("strict-grammars"))
}

// LoadDirStrict is like LoadDir, with strictness set by the caller.
func (r *Registry) LoadDirStrict(dir string, strict bool) ([]Language, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, m...)
	}
	slices.Sort(files)
	var langs []Language
	// retry files referring to languages defined later on, as long as there
	// is progress
	for len(files) > 0 {
		var deferred []string
		var lastErr error
		for _, path := range files {
			lang, err := r.LoadFile(path)
			if err == nil {
				langs = append(langs, lang)
				continue
			}
			if errors.Is(err, ErrUnknownLanguage) {
				deferred, lastErr = append(deferred, path), err
				continue
			}
			if strict {
				return langs, err
			}
			tracer().Errorf("skipping grammar file: %v", err)
		}
		if len(deferred) == len(files) {
			if strict {
				return langs, lastErr
			}
			for _, path := range deferred {
				tracer().Errorf("skipping grammar file %s: unresolved language reference", path)
			}
			break
		}
		files = deferred
	}
	return langs, nil
}

// --- Rule definitions ------------------------------------------------------

type loader struct {
	r *Registry
}

func (l loader) defs(gname string, node *yaml.Node) ([]grammar.Def, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("grammar %s, line %d: rules must be a mapping of kinds to rules",
			gname, node.Line)
	}
	defs := make([]grammar.Def, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		rule, err := l.rule(gname, key.Value, value, true)
		if err != nil {
			return nil, err
		}
		defs = append(defs, grammar.D(hilite.Kind(key.Value), rule))
	}
	return defs, nil
}

func (l loader) rule(gname, kind string, node *yaml.Node, top bool) (grammar.Rule, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return grammar.Pattern{Expr: node.Value}, nil
	case yaml.MappingNode:
		return l.pattern(gname, kind, node)
	case yaml.SequenceNode:
		if !top {
			return nil, fmt.Errorf("grammar %s, rule %s, line %d: alternatives may not be nested",
				gname, kind, node.Line)
		}
		alts := make(grammar.Alternatives, 0, len(node.Content))
		for _, n := range node.Content {
			r, err := l.rule(gname, kind, n, false)
			if err != nil {
				return nil, err
			}
			alts = append(alts, r)
		}
		return alts, nil
	case yaml.AliasNode:
		return l.rule(gname, kind, node.Alias, top)
	}
	return nil, fmt.Errorf("grammar %s, rule %s, line %d: unexpected YAML node", gname, kind, node.Line)
}

var patternKeys = []string{"pattern", "lookbehind", "greedy", "ignore-case", "alias", "inside"}

func (l loader) pattern(gname, kind string, node *yaml.Node) (grammar.Rule, error) {
	for i := 0; i < len(node.Content); i += 2 {
		if key := node.Content[i]; !slices.Contains(patternKeys, key.Value) {
			return nil, fmt.Errorf("grammar %s, rule %s, line %d: unknown field %q",
				gname, kind, key.Line, key.Value)
		}
	}
	var spec patternSpec
	if err := node.Decode(&spec); err != nil {
		return nil, fmt.Errorf("grammar %s, rule %s: %w", gname, kind, err)
	}
	p := grammar.Pattern{
		Expr:       spec.Pattern,
		Lookbehind: spec.Lookbehind,
		Greedy:     spec.Greedy,
		IgnoreCase: spec.IgnoreCase,
		Alias:      spec.Alias,
	}
	if spec.Inside.Kind == 0 {
		return p, nil
	}
	inside, err := l.inside(gname+"/"+kind, &spec.Inside)
	if err != nil {
		return nil, err
	}
	return grammar.Nested{Pattern: p, Inside: inside}, nil
}

// inside resolves an inside grammar, which is either given inline as a
// mapping of rules, or by name. The name 'self' denotes the grammar the
// rule is part of.
func (l loader) inside(name string, node *yaml.Node) (*grammar.Grammar, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if normalize(node.Value) == "self" {
			return grammar.Self, nil
		}
		g, ok := l.r.Lookup(node.Value)
		if !ok {
			return nil, fmt.Errorf("grammar %s, line %d: inside grammar %q: %w",
				name, node.Line, node.Value, ErrUnknownLanguage)
		}
		return g, nil
	case yaml.MappingNode:
		defs, err := l.defs(name, node)
		if err != nil {
			return nil, err
		}
		return grammar.NewBuilder(name).Append(defs...).Grammar()
	}
	return nil, fmt.Errorf("grammar %s, line %d: inside must be a language name or a mapping of rules",
		name, node.Line)
}

// --- Default registry ------------------------------------------------------

// LoadYAML reads a grammar definition, resolving references with the default
// registry.
func LoadYAML(rd io.Reader) (Language, error) {
	return Default().LoadYAML(rd)
}

// LoadFile loads a grammar file into the default registry.
func LoadFile(path string) (Language, error) {
	return Default().LoadFile(path)
}

// LoadDir loads all grammar files of a directory into the default registry.
func LoadDir(dir string) ([]Language, error) {
	return Default().LoadDir(dir)
}
