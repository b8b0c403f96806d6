// Package importer drives one upload from parsed file to committed molecules:
// it keeps the session's mapping set, re-validates it after every change and
// refuses to commit an invalid set.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"moleculehub/internal/domain"
	"moleculehub/internal/ingest"
	"moleculehub/internal/mapping"
	"moleculehub/internal/service/audit"
	"moleculehub/internal/storage"
)

// SystemPrincipal is recorded for actions the server takes on its own.
const SystemPrincipal = "system"

// Options tunes a Service. Zero values select defaults.
type Options struct {
	PreviewRows   int           // default 5
	MaxRows       int           // default ingest.DefaultMaxRows
	SessionTTL    time.Duration // default 24h
	ArchivePrefix string        // default "imports"
}

func (o Options) withDefaults() Options {
	if o.PreviewRows <= 0 {
		o.PreviewRows = 5
	}
	if o.MaxRows <= 0 {
		o.MaxRows = ingest.DefaultMaxRows
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 24 * time.Hour
	}
	if o.ArchivePrefix == "" {
		o.ArchivePrefix = "imports"
	}
	return o
}

// Service manages import sessions.
type Service struct {
	sessions domain.ImportSessionRepository
	registry domain.PropertyRegistry
	archiver domain.UploadArchiver // nil disables archiving
	audit    *audit.Service
	logger   *slog.Logger
	opts     Options
}

// NewService creates a new Service.
func NewService(
	sessions domain.ImportSessionRepository,
	registry domain.PropertyRegistry,
	archiver domain.UploadArchiver,
	auditSvc *audit.Service,
	logger *slog.Logger,
	opts Options,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions: sessions,
		registry: registry,
		archiver: archiver,
		audit:    auditSvc,
		logger:   logger.With("component", "importer"),
		opts:     opts.withDefaults(),
	}
}

// Registry returns the property registry sessions are validated against.
func (s *Service) Registry() domain.PropertyRegistry { return s.registry }

// CreateSession parses an uploaded file and starts a pending session with
// every column unmapped. Suggestions are computed and stored alongside but
// not applied.
func (s *Service) CreateSession(ctx context.Context, principal, filename string, data []byte) (*domain.ImportSessionView, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = "upload.csv"
	}

	upload, err := ingest.Parse(bytes.NewReader(data), ingest.Options{Filename: filename, MaxRows: s.opts.MaxRows})
	if err != nil {
		return nil, err
	}
	mappings, err := mapping.Initialize(upload.Headers)
	if err != nil {
		return nil, err
	}

	session := &domain.ImportSession{
		ID:          domain.NewID(),
		Filename:    filename,
		Headers:     upload.Headers,
		Rows:        upload.Rows,
		Mappings:    mappings,
		Suggestions: mapping.Suggest(upload.Headers, s.registry),
		CreatedBy:   principal,
	}
	session.ArchiveKey = s.archive(ctx, session.ID, filename, data)

	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("create import session: %w", err)
	}

	s.audit.LogAllowed(ctx, principal, audit.ActionImportCreate, created.ID,
		fmt.Sprintf("Uploaded %q (%d rows, %d columns)", filename, len(upload.Rows), len(upload.Headers)))
	s.logger.InfoContext(ctx, "import session created",
		"session_id", created.ID, "rows", len(upload.Rows), "columns", len(upload.Headers))
	return s.view(created), nil
}

// archive stores the raw upload. Failure only costs the archive copy, so it
// is logged and the session proceeds without an archive key.
func (s *Service) archive(ctx context.Context, sessionID, filename string, data []byte) string {
	if s.archiver == nil {
		return ""
	}
	key := storage.ObjectKey(s.opts.ArchivePrefix, sessionID, filename)
	contentType := "text/csv"
	if ingest.DelimiterFor(filename) == '\t' {
		contentType = "text/tab-separated-values"
	}
	if err := s.archiver.Put(ctx, key, data, contentType); err != nil {
		s.logger.WarnContext(ctx, "archive upload failed", "session_id", sessionID, "error", err)
		return ""
	}
	return key
}

// ArchiveLocation returns where a session's raw upload is stored, or "".
func (s *Service) ArchiveLocation(session *domain.ImportSession) string {
	if s.archiver == nil || session.ArchiveKey == "" {
		return ""
	}
	return s.archiver.Location(session.ArchiveKey)
}

// GetSession returns a session with its preview rows and current validation.
func (s *Service) GetSession(ctx context.Context, id string) (*domain.ImportSessionView, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// ListSessions returns a page of sessions without their rows.
func (s *Service) ListSessions(ctx context.Context, page domain.PageRequest) ([]domain.ImportSession, int64, error) {
	return s.sessions.List(ctx, page)
}

// SetMapping assigns target to column (domain.Unmapped clears it) and
// returns the session with the re-computed validation result.
//
// UnknownColumnError and UnknownPropertyError are returned unchanged. A
// concurrent change to the same session yields a ConflictError.
func (s *Service) SetMapping(ctx context.Context, principal, id, column, target string) (*domain.ImportSessionView, error) {
	session, err := s.pending(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := mapping.SetMapping(session.Mappings, s.registry, column, target)
	if err != nil {
		return nil, err
	}
	updated, err := s.sessions.UpdateMappings(ctx, id, session.Version, next)
	if err != nil {
		return nil, err
	}

	shown := target
	if shown == domain.Unmapped {
		shown = "(unmapped)"
	}
	s.audit.LogAllowed(ctx, principal, audit.ActionImportMap, id, fmt.Sprintf("%s -> %s", column, shown))
	return s.view(updated), nil
}

// ApplySuggestions replaces the session's mapping set with the suggestions
// computed at upload time.
func (s *Service) ApplySuggestions(ctx context.Context, principal, id string) (*domain.ImportSessionView, error) {
	session, err := s.pending(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := mapping.Apply(session.Mappings, s.registry, session.Suggestions)
	if err != nil {
		return nil, err
	}
	updated, err := s.sessions.UpdateMappings(ctx, id, session.Version, next)
	if err != nil {
		return nil, err
	}

	s.audit.LogAllowed(ctx, principal, audit.ActionImportSuggest, id, "")
	return s.view(updated), nil
}

// Validate returns the mapping-level result together with the per-row
// findings for the current mapping set.
func (s *Service) Validate(ctx context.Context, id string) (*domain.ValidationReport, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	report := &domain.ValidationReport{
		Result:    mapping.Validate(session.Mappings, s.registry),
		RowsTotal: session.RowCount,
	}
	if session.Status == domain.ImportStatusCommitted && session.Result != nil {
		report.RowIssues = session.Result.RowIssues
	} else {
		report.RowIssues = mapping.CheckRows(session.Mappings, s.registry, session.Rows)
	}
	if report.RowIssues == nil {
		report.RowIssues = []domain.RowIssue{}
	}
	return report, nil
}

// Commit imports the session's rows as molecules. It refuses with a
// MappingInvalidError carrying every finding when the mapping set does not
// validate. Rows with value problems are skipped and reported; molecules
// whose SMILES is already stored count as duplicates. The inserts and the
// status change land together or not at all: if the session changed since it
// was read, Commit returns a ConflictError and stores nothing.
func (s *Service) Commit(ctx context.Context, principal, id string) (*domain.ImportResult, error) {
	session, err := s.pending(ctx, id)
	if err != nil {
		return nil, err
	}

	validation := mapping.Validate(session.Mappings, s.registry)
	if !validation.IsValid {
		s.audit.LogDenied(ctx, principal, audit.ActionImportCommitRefused, id, strings.Join(validation.Errors, " "))
		return nil, &domain.MappingInvalidError{Result: validation}
	}

	structureKey := s.registry.StructureKey()
	result := domain.ImportResult{RowsTotal: len(session.Rows), RowIssues: []domain.RowIssue{}}
	molecules := make([]domain.Molecule, 0, len(session.Rows))
	for i, row := range session.Rows {
		values, issues := mapping.Values(session.Mappings, s.registry, i+1, row)
		if len(issues) > 0 {
			result.Skipped++
			result.RowIssues = append(result.RowIssues, issues...)
			continue
		}
		smiles, _ := values[structureKey].(string)
		delete(values, structureKey)
		molecules = append(molecules, domain.Molecule{
			SMILES:          smiles,
			Properties:      values,
			ImportSessionID: id,
			CreatedBy:       principal,
		})
	}

	committed, err := s.sessions.Commit(ctx, id, session.Version, molecules, result)
	if err != nil {
		return nil, err
	}
	result = *committed

	s.audit.LogAllowed(ctx, principal, audit.ActionImportCommit, id,
		fmt.Sprintf("Imported %d of %d rows (%d duplicates, %d skipped)", result.Imported, result.RowsTotal, result.Duplicates, result.Skipped))
	s.logger.InfoContext(ctx, "import committed",
		"session_id", id, "imported", result.Imported, "duplicates", result.Duplicates, "skipped", result.Skipped)
	return &result, nil
}

// Abandon discards a pending session.
func (s *Service) Abandon(ctx context.Context, principal, id string) error {
	if _, err := s.pending(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.LogAllowed(ctx, principal, audit.ActionImportAbandon, id, "")
	return nil
}

// SweepExpired deletes pending sessions idle for longer than the session TTL.
func (s *Service) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.sessions.DeleteStale(ctx, now.Add(-s.opts.SessionTTL))
	if err != nil {
		return 0, fmt.Errorf("sweep import sessions: %w", err)
	}
	if n > 0 {
		s.audit.LogAllowed(ctx, SystemPrincipal, audit.ActionImportExpire, "", fmt.Sprintf("Expired %d idle import sessions", n))
		s.logger.InfoContext(ctx, "expired idle import sessions", "count", n)
	}
	return n, nil
}

func (s *Service) pending(ctx context.Context, id string) (*domain.ImportSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.ImportStatusPending {
		return nil, domain.ErrConflict("import session %q is already committed", id)
	}
	return session, nil
}

func (s *Service) view(session *domain.ImportSession) *domain.ImportSessionView {
	return &domain.ImportSessionView{
		Session:    session,
		SampleRows: session.SampleRows(s.opts.PreviewRows),
		Validation: mapping.Validate(session.Mappings, s.registry),
	}
}
