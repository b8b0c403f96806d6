// Package audit records and lists audit log entries.
package audit

import (
	"context"
	"log/slog"

	"moleculehub/internal/domain"
)

// Actions recorded by the import workflow.
const (
	ActionImportCreate        = "IMPORT_CREATE"
	ActionImportMap           = "IMPORT_MAP"
	ActionImportSuggest       = "IMPORT_SUGGEST"
	ActionImportCommit        = "IMPORT_COMMIT"
	ActionImportCommitRefused = "IMPORT_COMMIT_REFUSED"
	ActionImportAbandon       = "IMPORT_ABANDON"
	ActionImportExpire        = "IMPORT_EXPIRE"
)

// Service lists audit entries and writes them on behalf of other services.
type Service struct {
	repo   domain.AuditRepository
	logger *slog.Logger
}

// NewService creates a Service. A nil repo makes every Log call a no-op.
func NewService(repo domain.AuditRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns entries matching filter.
func (s *Service) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	return s.repo.List(ctx, filter)
}

// LogAllowed records a completed action. Failures are logged, not returned.
func (s *Service) LogAllowed(ctx context.Context, principal, action, sessionID, detail string) {
	s.log(ctx, principal, action, domain.AuditAllowed, sessionID, detail)
}

// LogDenied records a refused action. Failures are logged, not returned.
func (s *Service) LogDenied(ctx context.Context, principal, action, sessionID, detail string) {
	s.log(ctx, principal, action, domain.AuditDenied, sessionID, detail)
}

func (s *Service) log(ctx context.Context, principal, action, status, sessionID, detail string) {
	if s == nil || s.repo == nil {
		return
	}
	e := &domain.AuditEntry{
		PrincipalName: principal,
		Action:        action,
		Status:        status,
	}
	if sessionID != "" {
		e.SessionID = &sessionID
	}
	if detail != "" {
		e.Detail = &detail
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "audit insert failed", "action", action, "session_id", sessionID, "error", err)
	}
}
