package repository

import (
	"context"
	"database/sql"
	"strings"

	"moleculehub/internal/domain"
)

var _ domain.AuditRepository = (*AuditRepo)(nil)

// AuditRepo stores audit log entries.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert appends an entry. ID and Status are defaulted when empty.
func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if e.ID == "" {
		e.ID = domain.NewID()
	}
	if e.Status == "" {
		e.Status = domain.AuditAllowed
	}
	var detail, sessionID sql.NullString
	if e.Detail != nil {
		detail = sql.NullString{String: *e.Detail, Valid: true}
	}
	if e.SessionID != nil {
		sessionID = sql.NullString{String: *e.SessionID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, principal_name, action, status, detail, session_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.PrincipalName, e.Action, e.Status, detail, sessionID)
	return mapDBError(err)
}

// List returns entries newest first. Nil filter fields match everything.
func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	var (
		where []string
		args  []any
	)
	if filter.PrincipalName != nil {
		where = append(where, "principal_name = ?")
		args = append(args, *filter.PrincipalName)
	}
	if filter.Action != nil {
		where = append(where, "action = ?")
		args = append(args, *filter.Action)
	}
	if filter.SessionID != nil {
		where = append(where, "session_id = ?")
		args = append(args, *filter.SessionID)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`+clause, args...).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	listArgs := append(append([]any{}, args...), filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, principal_name, action, status, detail, session_id, created_at
		FROM audit_log`+clause+`
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, listArgs...)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			e                 domain.AuditEntry
			detail, sessionID sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.PrincipalName, &e.Action, &e.Status, &detail, &sessionID, &e.CreatedAt); err != nil {
			return nil, 0, mapDBError(err)
		}
		e.Detail = strPtr(detail)
		e.SessionID = strPtr(sessionID)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err)
	}
	return entries, total, nil
}
