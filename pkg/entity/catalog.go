package entity

import (
	"fmt"
	"strings"
)

// Catalog indexes entity definitions by kind and by plural path segment.
type Catalog struct {
	order    []Kind
	byKind   map[Kind]Definition
	byPlural map[string]Kind
}

// NewCatalog registers defs in order. Duplicate kinds or plurals are rejected.
func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{
		byKind:   make(map[Kind]Definition, len(defs)),
		byPlural: make(map[string]Kind, len(defs)),
	}
	for _, def := range defs {
		if err := c.register(def); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Default returns a catalog holding the built-in store entities.
func Default() *Catalog {
	c, err := NewCatalog(builtins()...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) register(def Definition) error {
	if strings.TrimSpace(string(def.Kind)) == "" {
		return fmt.Errorf("entity: definition without kind")
	}
	if _, exists := c.byKind[def.Kind]; exists {
		return fmt.Errorf("entity: duplicate kind %q", def.Kind)
	}
	if def.Plural != "" {
		if _, exists := c.byPlural[def.Plural]; exists {
			return fmt.Errorf("entity: duplicate plural %q", def.Plural)
		}
		c.byPlural[def.Plural] = def.Kind
	}
	c.byKind[def.Kind] = def.Clone()
	c.order = append(c.order, def.Kind)
	return nil
}

// Get returns a copy of the definition for kind.
func (c *Catalog) Get(kind Kind) (Definition, error) {
	def, ok := c.byKind[kind]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return def.Clone(), nil
}

// LookupPlural resolves a path segment such as "billboards".
func (c *Catalog) LookupPlural(plural string) (Definition, bool) {
	kind, ok := c.byPlural[plural]
	if !ok {
		return Definition{}, false
	}
	return c.byKind[kind].Clone(), true
}

// Resolve accepts either a kind ("billboard") or a plural ("billboards").
func (c *Catalog) Resolve(name string) (Definition, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if def, ok := c.byKind[Kind(name)]; ok {
		return def.Clone(), nil
	}
	if def, ok := c.LookupPlural(name); ok {
		return def, nil
	}
	return Definition{}, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Kinds lists registered kinds in registration order.
func (c *Catalog) Kinds() []Kind {
	return append([]Kind(nil), c.order...)
}

// Scoped lists the definitions that live under a store, in registration
// order. The dashboard navigation is built from it.
func (c *Catalog) Scoped() []Definition {
	out := make([]Definition, 0, len(c.order))
	for _, kind := range c.order {
		if def := c.byKind[kind]; def.Scoped {
			out = append(out, def.Clone())
		}
	}
	return out
}
