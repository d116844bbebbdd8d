// Package grammars holds the built-in derivations and the registry the
// CLI and conformance harness resolve them from.
//
// Built-in grammars self-register from init functions. External callers
// may Register additional definitions before deriving.
package grammars

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tropism/lsys"
)

var (
	ErrGrammarExists   = errors.New("grammar already registered")
	ErrGrammarNotFound = errors.New("grammar not found")
)

// Definition bundles everything needed to derive a registered grammar.
type Definition struct {
	Name        string
	Description string
	Axiom       []lsys.Module
	Grammar     lsys.Grammar

	// DefaultParam seeds the derivation parameter. Nil when the grammar
	// reads no parameter.
	DefaultParam lsys.Value
}

var grammarRegistry = struct {
	mu sync.RWMutex
	m  map[string]Definition
}{
	m: make(map[string]Definition),
}

// Register adds a definition to the registry.
func Register(def Definition) error {
	if def.Name == "" {
		return errors.New("grammar name is required")
	}
	if len(def.Axiom) == 0 {
		return errors.New("grammar axiom is required")
	}

	grammarRegistry.mu.Lock()
	defer grammarRegistry.mu.Unlock()

	if _, exists := grammarRegistry.m[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrGrammarExists, def.Name)
	}

	grammarRegistry.m[def.Name] = def
	return nil
}

// MustRegister registers a definition or panics.
// Used by built-in grammar init functions, where failure is a
// programming error.
func MustRegister(def Definition) {
	if err := Register(def); err != nil {
		panic(err)
	}
}

// Lookup resolves a registered definition by name.
func Lookup(name string) (Definition, error) {
	grammarRegistry.mu.RLock()
	def, ok := grammarRegistry.m[name]
	grammarRegistry.mu.RUnlock()

	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrGrammarNotFound, name)
	}
	return def, nil
}

// Names lists registered grammar names in sorted order.
func Names() []string {
	grammarRegistry.mu.RLock()
	defer grammarRegistry.mu.RUnlock()

	names := make([]string, 0, len(grammarRegistry.m))
	for name := range grammarRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSystem builds a derivation from the definition's axiom with the
// default parameter applied first, so caller options can override it.
func (d Definition) NewSystem(opts ...lsys.SystemOption) lsys.System {
	if d.DefaultParam != nil {
		opts = append([]lsys.SystemOption{lsys.WithParameter(d.DefaultParam)}, opts...)
	}
	return lsys.NewSystem(d.Axiom, d.Grammar, opts...)
}
