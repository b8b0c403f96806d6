package molecule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moleculehub/internal/domain"
	"moleculehub/internal/testutil"
)

func TestService_List(t *testing.T) {
	repo := &testutil.MockMoleculeRepo{
		ListFn: func(_ context.Context, page domain.PageRequest) ([]domain.Molecule, int64, error) {
			assert.Equal(t, 10, page.Limit())
			return []domain.Molecule{{ID: "m-1", SMILES: "CCO"}}, 1, nil
		},
	}
	svc := NewService(repo)

	mols, total, err := svc.List(context.Background(), domain.PageRequest{MaxResults: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, mols, 1)
	assert.Equal(t, "CCO", mols[0].SMILES)
}

func TestService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := &testutil.MockMoleculeRepo{
			GetByIDFn: func(_ context.Context, id string) (*domain.Molecule, error) {
				return &domain.Molecule{ID: id, SMILES: "c1ccccc1"}, nil
			},
		}
		m, err := NewService(repo).Get(context.Background(), "m-2")
		require.NoError(t, err)
		assert.Equal(t, "m-2", m.ID)
	})

	t.Run("not_found", func(t *testing.T) {
		repo := &testutil.MockMoleculeRepo{
			GetByIDFn: func(_ context.Context, id string) (*domain.Molecule, error) {
				return nil, domain.ErrNotFound("molecule %q not found", id)
			},
		}
		_, err := NewService(repo).Get(context.Background(), "nope")
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("empty_id", func(t *testing.T) {
		_, err := NewService(&testutil.MockMoleculeRepo{}).Get(context.Background(), "")
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
	})
}
