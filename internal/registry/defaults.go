package registry

import "moleculehub/internal/domain"

func f64(v float64) *float64 { return &v }

// Default returns the built-in molecular property registry.
func Default() *Registry {
	return MustNew(defaultProperties())
}

func defaultProperties() []domain.PropertyDefinition {
	return []domain.PropertyDefinition{
		{
			Key: "smiles", DisplayName: "SMILES", Required: true, Type: domain.PropertyTypeSMILES,
			Aliases: []string{"structure", "canonical_smiles", "smiles_string"},
		},
		{
			Key: "name", DisplayName: "Compound Name", Type: domain.PropertyTypeString,
			Aliases: []string{"compound", "compound_id", "molecule_name", "id"},
		},
		{
			Key: "molecular_weight", DisplayName: "Molecular Weight", Type: domain.PropertyTypeNumber,
			Unit: "g/mol", Min: f64(0), Aliases: []string{"mw", "mol_weight", "weight"},
		},
		{
			Key: "logp", DisplayName: "LogP", Type: domain.PropertyTypeNumber,
			Min: f64(-20), Max: f64(20), Aliases: []string{"clogp", "log_p"},
		},
		{
			Key: "tpsa", DisplayName: "TPSA", Type: domain.PropertyTypeNumber,
			Unit: "Å²", Min: f64(0), Aliases: []string{"polar_surface_area", "psa"},
		},
		{
			Key: "h_bond_donors", DisplayName: "H-Bond Donors", Type: domain.PropertyTypeInteger,
			Min: f64(0), Aliases: []string{"hbd", "donors"},
		},
		{
			Key: "h_bond_acceptors", DisplayName: "H-Bond Acceptors", Type: domain.PropertyTypeInteger,
			Min: f64(0), Aliases: []string{"hba", "acceptors"},
		},
		{
			Key: "rotatable_bonds", DisplayName: "Rotatable Bonds", Type: domain.PropertyTypeInteger,
			Min: f64(0), Aliases: []string{"rotb", "num_rotatable_bonds"},
		},
		{
			Key: "heavy_atom_count", DisplayName: "Heavy Atom Count", Type: domain.PropertyTypeInteger,
			Min: f64(0), Aliases: []string{"heavy_atoms", "hac"},
		},
		{
			Key: "ring_count", DisplayName: "Ring Count", Type: domain.PropertyTypeInteger,
			Min: f64(0), Aliases: []string{"rings"},
		},
		{
			Key: "solubility", DisplayName: "Solubility", Type: domain.PropertyTypeNumber,
			Unit: "mg/mL", Min: f64(0), Aliases: []string{"aqueous_solubility"},
		},
		{
			Key: "ic50", DisplayName: "IC50", Type: domain.PropertyTypeNumber,
			Unit: "nM", Min: f64(0), Aliases: []string{"ic_50"},
		},
		{
			Key: "inchi_key", DisplayName: "InChIKey", Type: domain.PropertyTypeString,
			Aliases: []string{"inchikey"},
		},
	}
}
