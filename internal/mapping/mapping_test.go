package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moleculehub/internal/domain"
	"moleculehub/internal/mapping"
	"moleculehub/internal/registry"
)

// smallRegistry mirrors the two-property registry used throughout the
// mapping scenarios: a required structure and an optional LOGP.
func smallRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]domain.PropertyDefinition{
		{Key: "SMILES", DisplayName: "SMILES", Required: true, Type: domain.PropertyTypeSMILES},
		{Key: "LOGP", DisplayName: "LogP", Type: domain.PropertyTypeNumber},
	})
	require.NoError(t, err)
	return reg
}

func mustInit(t *testing.T, headers ...string) domain.MappingSet {
	t.Helper()
	set, err := mapping.Initialize(headers)
	require.NoError(t, err)
	return set
}

func mustSet(t *testing.T, set domain.MappingSet, reg domain.PropertyRegistry, col, target string) domain.MappingSet {
	t.Helper()
	out, err := mapping.SetMapping(set, reg, col, target)
	require.NoError(t, err)
	return out
}

func TestInitialize(t *testing.T) {
	set := mustInit(t, "Structure", "Weight", "Notes")
	require.Len(t, set, 3)
	assert.Equal(t, "Structure", set[0].SourceColumn)
	assert.Equal(t, "Weight", set[1].SourceColumn)
	assert.Equal(t, "Notes", set[2].SourceColumn)
	for _, m := range set {
		assert.False(t, m.IsMapped(), "column %s should start unmapped", m.SourceColumn)
	}
}

func TestInitialize_RejectsMalformedHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		wantMsg string
	}{
		{"empty list", nil, "at least one column header is required"},
		{"blank header", []string{"A", " "}, "column header 2 is empty"},
		{"duplicate header", []string{"A", "B", "A"}, `duplicate column header "A"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mapping.Initialize(tc.headers)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.wantMsg, ve.Message)
		})
	}
}

func TestScenarioA_RequiredMappedIsValid(t *testing.T) {
	reg := smallRegistry(t)
	set := mustInit(t, "Structure", "Weight")
	set = mustSet(t, set, reg, "Structure", "SMILES")
	set = mustSet(t, set, reg, "Weight", domain.Unmapped)

	res := mapping.Validate(set, reg)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.NotNil(t, res.Errors)
}

func TestScenarioB_MissingRequired(t *testing.T) {
	reg := smallRegistry(t)
	set := mustInit(t, "A", "B")
	set = mustSet(t, set, reg, "A", "LOGP")
	set = mustSet(t, set, reg, "B", domain.Unmapped)

	res := mapping.Validate(set, reg)
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{`Required property "SMILES" is not mapped.`}, res.Errors)
}

func TestScenarioC_DuplicateTarget(t *testing.T) {
	reg := smallRegistry(t)
	set := mustInit(t, "A", "B")
	set = mustSet(t, set, reg, "A", "SMILES")
	set = mustSet(t, set, reg, "B", "SMILES")

	res := mapping.Validate(set, reg)
	assert.False(t, res.IsValid)
	// Required and duplicated yields only the duplicate message.
	assert.Equal(t, []string{`Property "SMILES" is mapped multiple times.`}, res.Errors)
}

func TestScenarioD_UnknownColumn(t *testing.T) {
	reg := smallRegistry(t)
	set := mustInit(t, "A", "B")

	_, err := mapping.SetMapping(set, reg, "Nonexistent", "SMILES")
	var uc *domain.UnknownColumnError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, "Nonexistent", uc.Column)
}

func TestSetMapping_UnknownProperty(t *testing.T) {
	reg := smallRegistry(t)
	set := mustInit(t, "A")

	_, err := mapping.SetMapping(set, reg, "A", "MW")
	var up *domain.UnknownPropertyError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, "MW", up.Key)
}

func TestSetMapping_ColumnCheckedBeforeProperty(t *testing.T) {
	reg := smallRegistry(t)
	set := mustInit(t, "A")

	_, err := mapping.SetMapping(set, reg, "Nope", "MW")
	var uc *domain.UnknownColumnError
	assert.ErrorAs(t, err, &uc)
}

func TestSetMapping_DoesNotMutateInput(t *testing.T) {
	reg := smallRegistry(t)
	set := mustInit(t, "A", "B", "C")
	before := set.Clone()

	out := mustSet(t, set, reg, "B", "LOGP")
	assert.Equal(t, before, set)

	assert.Equal(t, "A", out[0].SourceColumn)
	assert.Equal(t, domain.Unmapped, out[0].TargetField)
	assert.Equal(t, "B", out[1].SourceColumn)
	assert.Equal(t, "LOGP", out[1].TargetField)
	assert.Equal(t, "C", out[2].SourceColumn)
	assert.Equal(t, domain.Unmapped, out[2].TargetField)
}

func TestSetMapping_Idempotent(t *testing.T) {
	reg := smallRegistry(t)
	set := mustInit(t, "A", "B")
	once := mustSet(t, set, reg, "A", "SMILES")
	twice := mustSet(t, once, reg, "A", "SMILES")
	assert.Equal(t, once, twice)
	assert.Equal(t, mapping.Validate(once, reg), mapping.Validate(twice, reg))
}

func TestSetMapping_ClearRestoresUnmapped(t *testing.T) {
	reg := smallRegistry(t)
	set := mustInit(t, "A")
	set = mustSet(t, set, reg, "A", "SMILES")
	set = mustSet(t, set, reg, "A", domain.Unmapped)
	assert.Equal(t, mustInit(t, "A"), set)
}

func TestApply(t *testing.T) {
	reg := smallRegistry(t)
	set := mustInit(t, "A", "B")

	out, err := mapping.Apply(set, reg, []domain.ColumnMapping{
		{SourceColumn: "A", TargetField: "SMILES"},
		{SourceColumn: "B", TargetField: "LOGP"},
	})
	require.NoError(t, err)
	assert.True(t, mapping.Validate(out, reg).IsValid)

	_, err = mapping.Apply(set, reg, []domain.ColumnMapping{
		{SourceColumn: "A", TargetField: "SMILES"},
		{SourceColumn: "Z", TargetField: "LOGP"},
	})
	var uc *domain.UnknownColumnError
	assert.ErrorAs(t, err, &uc)
}

func TestValidate_FreshSetReportsOnlyRequired(t *testing.T) {
	reg := registry.Default()
	set := mustInit(t, "c1", "c2", "c3")

	res := mapping.Validate(set, reg)
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{`Required property "SMILES" is not mapped.`}, res.Errors)
}

// optionalOnly is a registry with nothing required. registry.New always
// insists on a required structure property, so it is stubbed here.
type optionalOnly []domain.PropertyDefinition

func (r optionalOnly) Properties() []domain.PropertyDefinition { return r }

func (r optionalOnly) Lookup(key string) (domain.PropertyDefinition, bool) {
	for _, def := range r {
		if def.Key == key {
			return def, true
		}
	}
	return domain.PropertyDefinition{}, false
}

func (r optionalOnly) StructureKey() string { return "" }

func TestValidate_FreshSetValidWithoutRequired(t *testing.T) {
	reg := optionalOnly{
		{Key: "LOGP", DisplayName: "LogP", Type: domain.PropertyTypeNumber},
		{Key: "name", DisplayName: "Name", Type: domain.PropertyTypeString},
	}
	set := mustInit(t, "a", "b")

	res := mapping.Validate(set, reg)
	assert.True(t, res.IsValid)
	require.NotNil(t, res.Errors)
	assert.Empty(t, res.Errors)

	// Duplicates still fail when nothing is required.
	set, err := mapping.SetMapping(set, reg, "a", "LOGP")
	require.NoError(t, err)
	set, err = mapping.SetMapping(set, reg, "b", "LOGP")
	require.NoError(t, err)
	res = mapping.Validate(set, reg)
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{`Property "LogP" is mapped multiple times.`}, res.Errors)
}

func TestValidate_RequiredOrderFollowsRegistry(t *testing.T) {
	reg, err := registry.New([]domain.PropertyDefinition{
		{Key: "zeta", DisplayName: "Zeta", Required: true},
		{Key: "smiles", DisplayName: "SMILES", Required: true, Type: domain.PropertyTypeSMILES},
		{Key: "alpha", DisplayName: "Alpha", Required: true},
	})
	require.NoError(t, err)

	for _, headers := range [][]string{{"x", "y"}, {"y", "x"}} {
		res := mapping.Validate(mustInit(t, headers...), reg)
		assert.Equal(t, []string{
			`Required property "Zeta" is not mapped.`,
			`Required property "SMILES" is not mapped.`,
			`Required property "Alpha" is not mapped.`,
		}, res.Errors)
	}
}

func TestValidate_MissingThenDuplicates(t *testing.T) {
	reg, err := registry.New([]domain.PropertyDefinition{
		{Key: "smiles", DisplayName: "SMILES", Required: true, Type: domain.PropertyTypeSMILES},
		{Key: "mw", DisplayName: "Molecular Weight", Type: domain.PropertyTypeNumber},
		{Key: "logp", DisplayName: "LogP", Type: domain.PropertyTypeNumber},
	})
	require.NoError(t, err)

	set := mustInit(t, "a", "b", "c", "d", "e")
	set = mustSet(t, set, reg, "a", "logp")
	set = mustSet(t, set, reg, "b", "mw")
	set = mustSet(t, set, reg, "c", "mw")
	set = mustSet(t, set, reg, "d", "logp")

	res := mapping.Validate(set, reg)
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{
		`Required property "SMILES" is not mapped.`,
		`Property "LogP" is mapped multiple times.`,
		`Property "Molecular Weight" is mapped multiple times.`,
	}, res.Errors)
}

func TestValidate_DuplicateReportedOnce(t *testing.T) {
	reg := smallRegistry(t)
	set := mustInit(t, "a", "b", "c")
	for _, col := range []string{"a", "b", "c"} {
		set = mustSet(t, set, reg, col, "SMILES")
	}
	res := mapping.Validate(set, reg)
	assert.Equal(t, []string{`Property "SMILES" is mapped multiple times.`}, res.Errors)
}

func TestValidate_PermutationIndependentForRequired(t *testing.T) {
	reg := smallRegistry(t)

	set1 := mustSet(t, mustInit(t, "A", "B"), reg, "A", "LOGP")
	set2 := mustSet(t, mustInit(t, "B", "A"), reg, "A", "LOGP")

	assert.Equal(t, mapping.Validate(set1, reg), mapping.Validate(set2, reg))
}

func TestValidate_UnmappedColumnsNeverContribute(t *testing.T) {
	reg := smallRegistry(t)
	base := mustSet(t, mustInit(t, "A"), reg, "A", "SMILES")
	wide := mustSet(t, mustInit(t, "A", "B", "C", "D"), reg, "A", "SMILES")

	assert.Equal(t, mapping.Validate(base, reg), mapping.Validate(wide, reg))
}

func TestSuggest(t *testing.T) {
	reg := registry.Default()
	headers := []string{"Structure", "MW (g/mol)", "cLogP", "Notes", "Canonical SMILES", "IC50 [nM]"}

	set := mapping.Suggest(headers, reg)
	require.Len(t, set, len(headers))

	got := make(map[string]string)
	for _, m := range set {
		got[m.SourceColumn] = m.TargetField
	}
	assert.Equal(t, "smiles", got["Structure"])
	assert.Equal(t, "molecular_weight", got["MW (g/mol)"])
	assert.Equal(t, "logp", got["cLogP"])
	assert.Equal(t, domain.Unmapped, got["Notes"])
	// smiles was already taken by "Structure".
	assert.Equal(t, domain.Unmapped, got["Canonical SMILES"])
	assert.Equal(t, "ic50", got["IC50 [nM]"])

	assert.True(t, mapping.Validate(set, reg).IsValid)
}

func TestSuggest_NeverDuplicates(t *testing.T) {
	reg := registry.Default()
	set := mapping.Suggest([]string{"smiles", "SMILES ", "Smiles"}, reg)
	res := mapping.Validate(set, reg)
	assert.True(t, res.IsValid, "errors: %v", res.Errors)
}
