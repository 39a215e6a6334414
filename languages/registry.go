package languages

import (
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/hilite/grammar"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Registry maps language identifiers to grammars. Identifiers and aliases are
// case-insensitive. A registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	grammars map[string]*grammar.Grammar // canonical id → grammar
	aliases  map[string]string           // alias → canonical id
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		grammars: make(map[string]*grammar.Grammar),
		aliases:  make(map[string]string),
	}
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Register puts a grammar into the registry under a language identifier and
// optional aliases. Registering an identifier again replaces the grammar
// together with its aliases. An alias may neither shadow the identifier of
// another language nor be an alias of another language already.
func (r *Registry) Register(id string, g *grammar.Grammar, aliases ...string) error {
	id = normalize(id)
	if id == "" {
		return fmt.Errorf("cannot register grammar without language identifier")
	}
	if g == nil {
		return fmt.Errorf("cannot register nil grammar for language %q", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if other, ok := r.aliases[id]; ok && other != id {
		return fmt.Errorf("language identifier %q is already an alias for %q", id, other)
	}
	for _, a := range aliases {
		a = normalize(a)
		if a == "" || a == id {
			continue
		}
		if _, ok := r.grammars[a]; ok {
			return fmt.Errorf("alias %q for %q collides with language %q", a, id, a)
		}
		if other, ok := r.aliases[a]; ok && other != id {
			return fmt.Errorf("alias %q for %q is already an alias for %q", a, id, other)
		}
	}
	if old, ok := r.grammars[id]; ok {
		if old.Fingerprint() == g.Fingerprint() {
			tracer().Debugf("grammar for %q registered again, unchanged", id)
		} else {
			tracer().Infof("replacing grammar for language %q", id)
		}
	}
	for a, target := range r.aliases {
		if target == id {
			delete(r.aliases, a)
		}
	}
	r.grammars[id] = g
	r.aliases[id] = id
	for _, a := range aliases {
		if a = normalize(a); a != "" {
			r.aliases[a] = id
		}
	}
	return nil
}

// Lookup finds the grammar for a language identifier or alias.
func (r *Registry) Lookup(id string) (*grammar.Grammar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	canonical, ok := r.aliases[normalize(id)]
	if !ok {
		return nil, false
	}
	g, ok := r.grammars[canonical]
	return g, ok
}

// Canonical returns the language identifier an alias resolves to.
func (r *Registry) Canonical(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	canonical, ok := r.aliases[normalize(id)]
	return canonical, ok
}

// Names returns the identifiers of all registered languages, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := maps.Keys(r.grammars)
	slices.Sort(names)
	return names
}

// Aliases returns the aliases of a language, sorted, excluding its identifier.
func (r *Registry) Aliases(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	canonical, ok := r.aliases[normalize(id)]
	if !ok {
		return nil
	}
	var aliases []string
	for a, c := range r.aliases {
		if c == canonical && a != canonical {
			aliases = append(aliases, a)
		}
	}
	slices.Sort(aliases)
	return aliases
}

// --- Default registry ------------------------------------------------------

var defaultRegistry struct {
	once sync.Once
	r    *Registry
}

// Default returns the global registry, pre-populated with the built-in
// grammars.
func Default() *Registry {
	defaultRegistry.once.Do(func() {
		r := NewRegistry()
		mustRegister(r, "clike", CLike(), "c-like")
		mustRegister(r, "protobuf", Protobuf(), "proto")
		mustRegister(r, "gotemplate", GoTemplate(), "gotmpl", "go-template")
		defaultRegistry.r = r
	})
	return defaultRegistry.r
}

func mustRegister(r *Registry, id string, g *grammar.Grammar, aliases ...string) {
	if err := r.Register(id, g, aliases...); err != nil {
		panic(err)
	}
}

// Register puts a grammar into the default registry.
func Register(id string, g *grammar.Grammar, aliases ...string) error {
	return Default().Register(id, g, aliases...)
}

// Lookup finds a grammar in the default registry.
func Lookup(id string) (*grammar.Grammar, bool) {
	return Default().Lookup(id)
}

// Names lists the languages of the default registry.
func Names() []string {
	return Default().Names()
}
