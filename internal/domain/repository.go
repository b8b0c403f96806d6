package domain

import (
	"context"
	"time"
)

// ImportSessionRepository persists import sessions between requests.
type ImportSessionRepository interface {
	Create(ctx context.Context, s *ImportSession) (*ImportSession, error)
	GetByID(ctx context.Context, id string) (*ImportSession, error)
	List(ctx context.Context, page PageRequest) ([]ImportSession, int64, error)
	// UpdateMappings stores a new mapping set if the stored version still
	// equals expectedVersion, otherwise it returns a ConflictError.
	UpdateMappings(ctx context.Context, id string, expectedVersion int64, mappings MappingSet) (*ImportSession, error)
	// Commit inserts molecules and marks the session committed in one
	// transaction, provided the session is still pending at
	// expectedVersion. Molecules whose SMILES already exists are skipped.
	// The returned result is result with Imported and Duplicates filled in.
	// On any error nothing is written.
	Commit(ctx context.Context, id string, expectedVersion int64, molecules []Molecule, result ImportResult) (*ImportResult, error)
	Delete(ctx context.Context, id string) error
	// DeleteStale removes pending sessions last updated before cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// MoleculeRepository reads committed molecules.
type MoleculeRepository interface {
	GetByID(ctx context.Context, id string) (*Molecule, error)
	List(ctx context.Context, page PageRequest) ([]Molecule, int64, error)
}

// AuditFilter holds filter parameters for querying audit logs.
type AuditFilter struct {
	PrincipalName *string
	Action        *string
	SessionID     *string
	Page          PageRequest
}

// AuditRepository provides operations for audit log entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}

// UploadArchiver stores the raw bytes of an upload for later reference.
type UploadArchiver interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Location returns a human-readable URI for key (e.g. s3://bucket/key).
	Location(key string) string
}
