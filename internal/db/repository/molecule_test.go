package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moleculehub/internal/db"
	"moleculehub/internal/domain"
)

func TestMoleculeRepo_CommittedThroughSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pool := db.OpenTestSQLite(t)
	sessions := NewImportSessionRepo(pool.Write)
	repo := NewMoleculeRepo(pool.Write)

	first, err := sessions.Create(ctx, newTestSession())
	require.NoError(t, err)
	result, err := sessions.Commit(ctx, first.ID, first.Version, []domain.Molecule{
		{SMILES: "CCO", Properties: map[string]any{"molecular_weight": 46.07, "h_bond_donors": int64(1)}, ImportSessionID: first.ID, CreatedBy: "alice"},
		{SMILES: "c1ccccc1", ImportSessionID: first.ID, CreatedBy: "alice"},
		{SMILES: "CCO", ImportSessionID: first.ID, CreatedBy: "alice"},
	}, domain.ImportResult{RowsTotal: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Duplicates)

	second, err := sessions.Create(ctx, newTestSession())
	require.NoError(t, err)
	result, err = sessions.Commit(ctx, second.ID, second.Version,
		[]domain.Molecule{{SMILES: "c1ccccc1", ImportSessionID: second.ID, CreatedBy: "bob"}},
		domain.ImportResult{RowsTotal: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Duplicates)

	list, total, err := repo.List(ctx, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)

	var ethanol *domain.Molecule
	for i := range list {
		if list[i].SMILES == "CCO" {
			ethanol = &list[i]
		}
	}
	require.NotNil(t, ethanol)
	assert.Equal(t, first.ID, ethanol.ImportSessionID)
	// JSON round trip turns every number into float64.
	assert.InDelta(t, 46.07, ethanol.Properties["molecular_weight"], 1e-9)
	assert.InDelta(t, 1, ethanol.Properties["h_bond_donors"], 0)

	got, err := repo.GetByID(ctx, ethanol.ID)
	require.NoError(t, err)
	assert.Equal(t, "CCO", got.SMILES)
}

func TestMoleculeRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo := NewMoleculeRepo(db.OpenTestSQLite(t).Write)

	_, err := repo.GetByID(context.Background(), "nope")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, `molecule "nope" not found`, nf.Message)
}
