package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moleculehub/internal/db"
	"moleculehub/internal/domain"
)

func newTestSession() *domain.ImportSession {
	return &domain.ImportSession{
		Filename: "batch.csv",
		Headers:  []string{"Structure", "MW"},
		Rows: []domain.Row{
			{"Structure": "CCO", "MW": "46.07"},
			{"Structure": "c1ccccc1", "MW": "78.11"},
		},
		Mappings: domain.MappingSet{
			{SourceColumn: "Structure"},
			{SourceColumn: "MW"},
		},
		Suggestions: domain.MappingSet{
			{SourceColumn: "Structure", TargetField: "smiles"},
			{SourceColumn: "MW", TargetField: "molecular_weight"},
		},
		ArchiveKey: "imports/x/batch.csv",
		CreatedBy:  "alice",
	}
}

func TestImportSessionRepo_CreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewImportSessionRepo(db.OpenTestSQLite(t).Write)

	created, err := repo.Create(ctx, newTestSession())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	assert.Equal(t, domain.ImportStatusPending, created.Status)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, 2, created.RowCount)
	assert.Equal(t, []string{"Structure", "MW"}, created.Headers)
	assert.Equal(t, "78.11", created.Rows[1]["MW"])
	assert.Equal(t, domain.MappingSet{{SourceColumn: "Structure"}, {SourceColumn: "MW"}}, created.Mappings)
	assert.Equal(t, "smiles", created.Suggestions[0].TargetField)
	assert.Equal(t, "imports/x/batch.csv", created.ArchiveKey)
	assert.Nil(t, created.Result)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.GetByID(ctx, "missing")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Message, "missing")
}

func TestImportSessionRepo_UpdateMappingsVersioning(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewImportSessionRepo(db.OpenTestSQLite(t).Write)

	s, err := repo.Create(ctx, newTestSession())
	require.NoError(t, err)

	next := s.Mappings.Clone()
	next[0].TargetField = "smiles"
	updated, err := repo.UpdateMappings(ctx, s.ID, s.Version, next)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "smiles", updated.Mappings[0].TargetField)

	// Writing against the old version is a conflict.
	_, err = repo.UpdateMappings(ctx, s.ID, s.Version, s.Mappings)
	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "modified concurrently")

	_, err = repo.UpdateMappings(ctx, "missing", 1, s.Mappings)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestImportSessionRepo_Commit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pool := db.OpenTestSQLite(t)
	repo := NewImportSessionRepo(pool.Write)

	s, err := repo.Create(ctx, newTestSession())
	require.NoError(t, err)

	result := domain.ImportResult{
		RowsTotal: 2, Skipped: 1,
		RowIssues: []domain.RowIssue{{Row: 2, Column: "MW", Property: "molecular_weight", Message: "bad"}},
	}
	got, err := repo.Commit(ctx, s.ID, s.Version, []domain.Molecule{
		{SMILES: "CCO", ImportSessionID: s.ID, CreatedBy: "alice"},
	}, result)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Imported)
	assert.Zero(t, got.Duplicates)

	loaded, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStatusCommitted, loaded.Status)
	assert.Equal(t, s.Version+1, loaded.Version)
	assert.Empty(t, loaded.Rows)
	assert.Equal(t, 2, loaded.RowCount)
	require.NotNil(t, loaded.Result)
	assert.Equal(t, *got, *loaded.Result)

	_, err = repo.UpdateMappings(ctx, s.ID, loaded.Version, loaded.Mappings)
	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "already committed")

	_, err = repo.Commit(ctx, s.ID, loaded.Version, nil, domain.ImportResult{})
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "already committed")
}

func TestImportSessionRepo_CommitStaleVersionWritesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pool := db.OpenTestSQLite(t)
	repo := NewImportSessionRepo(pool.Write)
	molecules := NewMoleculeRepo(pool.Write)

	s, err := repo.Create(ctx, newTestSession())
	require.NoError(t, err)
	updated, err := repo.UpdateMappings(ctx, s.ID, s.Version, s.Suggestions)
	require.NoError(t, err)

	_, err = repo.Commit(ctx, s.ID, s.Version, []domain.Molecule{
		{SMILES: "CCO", ImportSessionID: s.ID, CreatedBy: "alice"},
		{SMILES: "c1ccccc1", ImportSessionID: s.ID, CreatedBy: "alice"},
	}, domain.ImportResult{RowsTotal: 2})
	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "modified concurrently")

	_, total, err := molecules.List(ctx, domain.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, total)

	loaded, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStatusPending, loaded.Status)
	assert.Equal(t, updated.Version, loaded.Version)
	assert.Len(t, loaded.Rows, 2)
	assert.Nil(t, loaded.Result)

	_, err = repo.Commit(ctx, "missing", 1, nil, domain.ImportResult{})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestImportSessionRepo_ListAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewImportSessionRepo(db.OpenTestSQLite(t).Write)

	for range 3 {
		_, err := repo.Create(ctx, newTestSession())
		require.NoError(t, err)
	}

	page, total, err := repo.List(ctx, domain.PageRequest{MaxResults: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Nil(t, page[0].Rows, "list does not load rows")
	assert.Equal(t, 2, page[0].RowCount)

	require.NoError(t, repo.Delete(ctx, page[0].ID))
	var nf *domain.NotFoundError
	require.ErrorAs(t, repo.Delete(ctx, page[0].ID), &nf)
}

func TestImportSessionRepo_DeleteStale(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pool := db.OpenTestSQLite(t)
	repo := NewImportSessionRepo(pool.Write)

	old, err := repo.Create(ctx, newTestSession())
	require.NoError(t, err)
	fresh, err := repo.Create(ctx, newTestSession())
	require.NoError(t, err)
	committed, err := repo.Create(ctx, newTestSession())
	require.NoError(t, err)
	_, err = repo.Commit(ctx, committed.ID, committed.Version, nil, domain.ImportResult{})
	require.NoError(t, err)

	_, err = pool.Write.ExecContext(ctx,
		`UPDATE import_sessions SET updated_at = datetime('now', '-2 days') WHERE id IN (?, ?)`,
		old.ID, committed.ID)
	require.NoError(t, err)

	n, err := repo.DeleteStale(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByID(ctx, old.ID)
	require.Error(t, err)
	_, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, committed.ID)
	require.NoError(t, err, "committed sessions are kept")
}
