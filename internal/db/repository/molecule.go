package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"moleculehub/internal/domain"
)

var _ domain.MoleculeRepository = (*MoleculeRepo)(nil)

// MoleculeRepo reads committed molecules. SMILES is unique across the table;
// rows are written by ImportSessionRepo.Commit.
type MoleculeRepo struct {
	db *sql.DB
}

// NewMoleculeRepo creates a new MoleculeRepo.
func NewMoleculeRepo(db *sql.DB) *MoleculeRepo {
	return &MoleculeRepo{db: db}
}

// insertMolecules inserts molecules inside tx. A molecule whose SMILES is
// already stored, or repeated earlier in the batch, is skipped and reported
// in duplicates.
func insertMolecules(ctx context.Context, tx *sql.Tx, molecules []domain.Molecule) (inserted int, duplicates []string, err error) {
	if len(molecules) == 0 {
		return 0, nil, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO molecules (id, smiles, properties_json, import_session_id, created_by)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (smiles) DO NOTHING
	`)
	if err != nil {
		return 0, nil, mapDBError(err)
	}
	defer stmt.Close() //nolint:errcheck

	for i := range molecules {
		m := &molecules[i]
		if m.ID == "" {
			m.ID = domain.NewID()
		}
		props := m.Properties
		if props == nil {
			props = map[string]any{}
		}
		propsJSON, err := marshalJSON("properties", props)
		if err != nil {
			return 0, nil, err
		}
		res, err := stmt.ExecContext(ctx, m.ID, m.SMILES, propsJSON, nullString(m.ImportSessionID), m.CreatedBy)
		if err != nil {
			return 0, nil, mapDBError(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, nil, fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			duplicates = append(duplicates, m.SMILES)
			continue
		}
		inserted++
	}
	return inserted, duplicates, nil
}

// GetByID returns a molecule by ID.
func (r *MoleculeRepo) GetByID(ctx context.Context, id string) (*domain.Molecule, error) {
	m, err := scanMolecule(r.db.QueryRowContext(ctx, `
		SELECT id, smiles, properties_json, import_session_id, created_by, created_at
		FROM molecules WHERE id = ?
	`, id))
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, domain.ErrNotFound("molecule %q not found", id)
		}
		return nil, err
	}
	return m, nil
}

// List returns molecules newest first.
func (r *MoleculeRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Molecule, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM molecules`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, smiles, properties_json, import_session_id, created_by, created_at
		FROM molecules
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Molecule
	for rows.Next() {
		m, err := scanMolecule(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err)
	}
	return out, total, nil
}

func scanMolecule(row scanner) (*domain.Molecule, error) {
	var (
		m         domain.Molecule
		propsJSON sql.NullString
		sessionID sql.NullString
	)
	if err := row.Scan(&m.ID, &m.SMILES, &propsJSON, &sessionID, &m.CreatedBy, &m.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	m.ImportSessionID = sessionID.String
	m.Properties = map[string]any{}
	if err := unmarshalJSON("properties", propsJSON, &m.Properties); err != nil {
		return nil, err
	}
	return &m, nil
}
