package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"moleculehub/internal/domain"
)

var _ domain.ImportSessionRepository = (*ImportSessionRepo)(nil)

// ImportSessionRepo stores pending and committed import sessions in SQLite.
// Headers, rows and mapping sets are kept as JSON documents.
type ImportSessionRepo struct {
	db *sql.DB
}

// NewImportSessionRepo creates a new ImportSessionRepo.
func NewImportSessionRepo(db *sql.DB) *ImportSessionRepo {
	return &ImportSessionRepo{db: db}
}

const sessionColumns = `id, filename, headers_json, row_count, mappings_json, suggestions_json,
	status, version, archive_key, result_json, created_by, created_at, updated_at`

// Create inserts a new pending session at version 1.
func (r *ImportSessionRepo) Create(ctx context.Context, s *domain.ImportSession) (*domain.ImportSession, error) {
	if s == nil {
		return nil, domain.ErrValidation("import session is required")
	}
	if s.ID == "" {
		s.ID = domain.NewID()
	}

	headersJSON, err := marshalJSON("headers", s.Headers)
	if err != nil {
		return nil, err
	}
	rows := s.Rows
	if rows == nil {
		rows = []domain.Row{}
	}
	rowsJSON, err := marshalJSON("rows", rows)
	if err != nil {
		return nil, err
	}
	mappingsJSON, err := encodeMappings(s.Mappings)
	if err != nil {
		return nil, err
	}
	suggestionsJSON, err := encodeMappings(s.Suggestions)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO import_sessions (id, filename, headers_json, rows_json, row_count, mappings_json,
		                             suggestions_json, status, version, archive_key, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, s.ID, s.Filename, headersJSON, rowsJSON, len(rows), mappingsJSON, suggestionsJSON,
		string(domain.ImportStatusPending), nullString(s.ArchiveKey), s.CreatedBy)
	if err != nil {
		return nil, mapDBError(err)
	}

	return r.GetByID(ctx, s.ID)
}

// GetByID returns a session including its data rows.
func (r *ImportSessionRepo) GetByID(ctx context.Context, id string) (*domain.ImportSession, error) {
	var rowsJSON sql.NullString
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`, rows_json
		FROM import_sessions WHERE id = ?
	`, id)

	s, err := scanSession(row, &rowsJSON)
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, domain.ErrNotFound("import session %q not found", id)
		}
		return nil, err
	}
	if err := unmarshalJSON("rows", rowsJSON, &s.Rows); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns sessions newest first, without their data rows.
func (r *ImportSessionRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.ImportSession, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM import_sessions`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM import_sessions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.ImportSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err)
	}
	return out, total, nil
}

// UpdateMappings replaces the mapping set if the session is still pending
// and unchanged since expectedVersion.
func (r *ImportSessionRepo) UpdateMappings(ctx context.Context, id string, expectedVersion int64, mappings domain.MappingSet) (*domain.ImportSession, error) {
	mappingsJSON, err := encodeMappings(mappings)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE import_sessions
		SET mappings_json = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ? AND status = ?
	`, mappingsJSON, id, expectedVersion, string(domain.ImportStatusPending))
	if err := checkVersionedWrite(ctx, r.db, res, err, id, expectedVersion); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Commit claims the session with a versioned status change, inserts the
// molecules and records the result, all in one transaction. A stale
// expectedVersion rolls everything back with a ConflictError.
func (r *ImportSessionRepo) Commit(ctx context.Context, id string, expectedVersion int64, molecules []domain.Molecule, result domain.ImportResult) (*domain.ImportResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin commit tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE import_sessions
		SET status = ?, rows_json = '[]', version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ? AND status = ?
	`, string(domain.ImportStatusCommitted), id, expectedVersion, string(domain.ImportStatusPending))
	if err := checkVersionedWrite(ctx, tx, res, err, id, expectedVersion); err != nil {
		return nil, err
	}

	inserted, duplicates, err := insertMolecules(ctx, tx, molecules)
	if err != nil {
		return nil, fmt.Errorf("insert molecules: %w", err)
	}
	result.Imported = inserted
	result.Duplicates = len(duplicates)

	resultJSON, err := encodeResult(result)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE import_sessions SET result_json = ? WHERE id = ?`, resultJSON, id); err != nil {
		return nil, mapDBError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return &result, nil
}

// Delete removes a session.
func (r *ImportSessionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM import_sessions WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound("import session %q not found", id)
	}
	return nil
}

// DeleteStale removes pending sessions whose last update is before cutoff.
func (r *ImportSessionRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM import_sessions WHERE status = ? AND updated_at < ?
	`, string(domain.ImportStatusPending), sqliteTime(cutoff))
	if err != nil {
		return 0, mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// rowQuerier is satisfied by *sql.DB and *sql.Tx. The write pool holds a
// single connection, so lookups inside a transaction must go through it.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// checkVersionedWrite turns a zero-row conditional update into NotFound or
// Conflict depending on the row's current state.
func checkVersionedWrite(ctx context.Context, q rowQuerier, res sql.Result, execErr error, id string, expectedVersion int64) error {
	if execErr != nil {
		return mapDBError(execErr)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var (
		status  string
		version int64
	)
	err = q.QueryRowContext(ctx, `SELECT status, version FROM import_sessions WHERE id = ?`, id).Scan(&status, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound("import session %q not found", id)
		}
		return mapDBError(err)
	}
	if domain.ImportStatus(status) == domain.ImportStatusCommitted {
		return domain.ErrConflict("import session %q is already committed", id)
	}
	return domain.ErrConflict("import session %q was modified concurrently (version %d, expected %d)", id, version, expectedVersion)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner, extra ...any) (*domain.ImportSession, error) {
	var (
		s                                       domain.ImportSession
		status                                  string
		headersJSON, mappingsJSON, suggestsJSON sql.NullString
		archiveKey, resultJSON                  sql.NullString
	)
	dest := []any{
		&s.ID, &s.Filename, &headersJSON, &s.RowCount, &mappingsJSON, &suggestsJSON,
		&status, &s.Version, &archiveKey, &resultJSON, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, mapDBError(err)
	}

	s.Status = domain.ImportStatus(status)
	s.ArchiveKey = archiveKey.String
	if err := unmarshalJSON("headers", headersJSON, &s.Headers); err != nil {
		return nil, err
	}
	var err error
	if s.Mappings, err = decodeMappings(mappingsJSON); err != nil {
		return nil, err
	}
	if s.Suggestions, err = decodeMappings(suggestsJSON); err != nil {
		return nil, err
	}
	if s.Result, err = decodeResult(resultJSON); err != nil {
		return nil, err
	}
	return &s, nil
}
