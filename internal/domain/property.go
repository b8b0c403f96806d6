package domain

// PropertyType is the value type a recognized property accepts.
type PropertyType string

const (
	PropertyTypeString  PropertyType = "string"
	PropertyTypeNumber  PropertyType = "number"
	PropertyTypeInteger PropertyType = "integer"
	// PropertyTypeSMILES marks the structure property that identifies a molecule.
	PropertyTypeSMILES PropertyType = "smiles"
)

// Valid reports whether t is one of the supported property types.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeString, PropertyTypeNumber, PropertyTypeInteger, PropertyTypeSMILES:
		return true
	}
	return false
}

// PropertyDefinition describes one recognized molecular property that an
// uploaded column may be mapped to.
type PropertyDefinition struct {
	Key         string
	DisplayName string
	Required    bool
	Type        PropertyType
	Unit        string
	Min         *float64
	Max         *float64
	Aliases     []string // alternative header spellings used for suggestions
}

// PropertyRegistry is the read-only, process-wide set of recognized
// properties. Properties returns them in registry order.
type PropertyRegistry interface {
	Properties() []PropertyDefinition
	Lookup(key string) (PropertyDefinition, bool)
	// StructureKey returns the key of the SMILES property.
	StructureKey() string
}
