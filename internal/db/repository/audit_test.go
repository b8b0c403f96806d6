package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moleculehub/internal/db"
	"moleculehub/internal/domain"
)

func strp(s string) *string { return &s }

func TestAuditRepo_InsertAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewAuditRepo(db.OpenTestSQLite(t).Write)

	entries := []domain.AuditEntry{
		{PrincipalName: "alice", Action: "IMPORT_CREATE", SessionID: strp("s1")},
		{PrincipalName: "alice", Action: "IMPORT_MAP", SessionID: strp("s1"), Detail: strp("Structure -> smiles")},
		{PrincipalName: "bob", Action: "IMPORT_COMMIT_REFUSED", Status: domain.AuditDenied, SessionID: strp("s2")},
	}
	for i := range entries {
		require.NoError(t, repo.Insert(ctx, &entries[i]))
		assert.NotEmpty(t, entries[i].ID)
	}

	all, total, err := repo.List(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, "IMPORT_COMMIT_REFUSED", all[0].Action, "newest first")
	assert.Equal(t, domain.AuditDenied, all[0].Status)

	alice, total, err := repo.List(ctx, domain.AuditFilter{PrincipalName: strp("alice")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, e := range alice {
		assert.Equal(t, "alice", e.PrincipalName)
		assert.Equal(t, domain.AuditAllowed, e.Status)
	}

	mapped, _, err := repo.List(ctx, domain.AuditFilter{Action: strp("IMPORT_MAP"), SessionID: strp("s1")})
	require.NoError(t, err)
	require.Len(t, mapped, 1)
	require.NotNil(t, mapped[0].Detail)
	assert.Equal(t, "Structure -> smiles", *mapped[0].Detail)

	page, total, err := repo.List(ctx, domain.AuditFilter{Page: domain.PageRequest{MaxResults: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)
}
