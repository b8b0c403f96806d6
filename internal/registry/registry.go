// Package registry provides the fixed set of molecular properties an upload
// may be mapped to.
package registry

import (
	"fmt"
	"strings"

	"moleculehub/internal/domain"
)

var _ domain.PropertyRegistry = (*Registry)(nil)

// Registry is an immutable, ordered set of property definitions.
type Registry struct {
	defs         []domain.PropertyDefinition
	byKey        map[string]int
	structureKey string
}

// New validates defs and builds a Registry that preserves their order.
//
// Keys must be unique and non-empty, every property needs a display name
// and a supported type, and exactly one property must be of type smiles and
// required: it identifies the molecule on commit.
func New(defs []domain.PropertyDefinition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, domain.ErrValidation("registry must define at least one property")
	}
	r := &Registry{
		defs:  make([]domain.PropertyDefinition, len(defs)),
		byKey: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		d.Key = strings.TrimSpace(d.Key)
		d.DisplayName = strings.TrimSpace(d.DisplayName)
		if d.Type == "" {
			d.Type = domain.PropertyTypeString
		}
		switch {
		case d.Key == "":
			return nil, domain.ErrValidation("property %d: key is required", i+1)
		case d.DisplayName == "":
			return nil, domain.ErrValidation("property %q: display_name is required", d.Key)
		case !d.Type.Valid():
			return nil, domain.ErrValidation("property %q: unsupported type %q", d.Key, d.Type)
		case d.Min != nil && d.Max != nil && *d.Min > *d.Max:
			return nil, domain.ErrValidation("property %q: min is greater than max", d.Key)
		}
		if _, dup := r.byKey[d.Key]; dup {
			return nil, domain.ErrValidation("duplicate property key %q", d.Key)
		}
		if d.Type == domain.PropertyTypeSMILES {
			if r.structureKey != "" {
				return nil, domain.ErrValidation("properties %q and %q are both of type smiles", r.structureKey, d.Key)
			}
			if !d.Required {
				return nil, domain.ErrValidation("smiles property %q must be required", d.Key)
			}
			r.structureKey = d.Key
		}
		d.Aliases = append([]string(nil), d.Aliases...)
		r.defs[i] = d
		r.byKey[d.Key] = i
	}
	if r.structureKey == "" {
		return nil, domain.ErrValidation("registry must define a property of type smiles")
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for package-level defaults.
func MustNew(defs []domain.PropertyDefinition) *Registry {
	r, err := New(defs)
	if err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	return r
}

// Properties returns a copy of the definitions in registry order.
func (r *Registry) Properties() []domain.PropertyDefinition {
	out := make([]domain.PropertyDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Lookup returns the definition for key.
func (r *Registry) Lookup(key string) (domain.PropertyDefinition, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return domain.PropertyDefinition{}, false
	}
	return r.defs[i], true
}

// StructureKey returns the key of the smiles-typed property.
func (r *Registry) StructureKey() string { return r.structureKey }

// Required returns the keys of all required properties in registry order.
func (r *Registry) Required() []string {
	var keys []string
	for _, d := range r.defs {
		if d.Required {
			keys = append(keys, d.Key)
		}
	}
	return keys
}
