// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase.
package testutil

import (
	"context"
	"sync"
	"time"

	"moleculehub/internal/domain"
)

// === Audit Repository Mock ===

// MockAuditRepo implements domain.AuditRepository for testing.
type MockAuditRepo struct {
	InsertFn func(ctx context.Context, e *domain.AuditEntry) error
	ListFn   func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error)

	mu      sync.Mutex
	Entries []*domain.AuditEntry // collected entries for assertions
}

// Insert implements the interface method for testing.
func (m *MockAuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, e); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Entries = append(m.Entries, e)
	m.mu.Unlock()
	return nil
}

// List implements the interface method for testing.
func (m *MockAuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	panic("unexpected call to MockAuditRepo.List")
}

// LastEntry returns the last collected audit entry, or nil if none.
func (m *MockAuditRepo) LastEntry() *domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Entries) == 0 {
		return nil
	}
	return m.Entries[len(m.Entries)-1]
}

// HasAction returns true if any collected entry has the given action.
func (m *MockAuditRepo) HasAction(action string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

var _ domain.AuditRepository = (*MockAuditRepo)(nil)

// === Import Session Repository Mock ===

// MockImportSessionRepo implements domain.ImportSessionRepository for testing.
type MockImportSessionRepo struct {
	CreateFn         func(ctx context.Context, s *domain.ImportSession) (*domain.ImportSession, error)
	GetByIDFn        func(ctx context.Context, id string) (*domain.ImportSession, error)
	ListFn           func(ctx context.Context, page domain.PageRequest) ([]domain.ImportSession, int64, error)
	UpdateMappingsFn func(ctx context.Context, id string, expectedVersion int64, mappings domain.MappingSet) (*domain.ImportSession, error)
	CommitFn         func(ctx context.Context, id string, expectedVersion int64, molecules []domain.Molecule, result domain.ImportResult) (*domain.ImportResult, error)
	DeleteFn         func(ctx context.Context, id string) error
	DeleteStaleFn    func(ctx context.Context, cutoff time.Time) (int64, error)
}

// Create implements the interface method for testing.
func (m *MockImportSessionRepo) Create(ctx context.Context, s *domain.ImportSession) (*domain.ImportSession, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	panic("unexpected call to MockImportSessionRepo.Create")
}

// GetByID implements the interface method for testing.
func (m *MockImportSessionRepo) GetByID(ctx context.Context, id string) (*domain.ImportSession, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockImportSessionRepo.GetByID")
}

// List implements the interface method for testing.
func (m *MockImportSessionRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.ImportSession, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	panic("unexpected call to MockImportSessionRepo.List")
}

// UpdateMappings implements the interface method for testing.
func (m *MockImportSessionRepo) UpdateMappings(ctx context.Context, id string, expectedVersion int64, mappings domain.MappingSet) (*domain.ImportSession, error) {
	if m.UpdateMappingsFn != nil {
		return m.UpdateMappingsFn(ctx, id, expectedVersion, mappings)
	}
	panic("unexpected call to MockImportSessionRepo.UpdateMappings")
}

// Commit implements the interface method for testing.
func (m *MockImportSessionRepo) Commit(ctx context.Context, id string, expectedVersion int64, molecules []domain.Molecule, result domain.ImportResult) (*domain.ImportResult, error) {
	if m.CommitFn != nil {
		return m.CommitFn(ctx, id, expectedVersion, molecules, result)
	}
	panic("unexpected call to MockImportSessionRepo.Commit")
}

// Delete implements the interface method for testing.
func (m *MockImportSessionRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	panic("unexpected call to MockImportSessionRepo.Delete")
}

// DeleteStale implements the interface method for testing.
func (m *MockImportSessionRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteStaleFn != nil {
		return m.DeleteStaleFn(ctx, cutoff)
	}
	panic("unexpected call to MockImportSessionRepo.DeleteStale")
}

var _ domain.ImportSessionRepository = (*MockImportSessionRepo)(nil)

// === Molecule Repository Mock ===

// MockMoleculeRepo implements domain.MoleculeRepository for testing.
type MockMoleculeRepo struct {
	GetByIDFn func(ctx context.Context, id string) (*domain.Molecule, error)
	ListFn    func(ctx context.Context, page domain.PageRequest) ([]domain.Molecule, int64, error)
}

// GetByID implements the interface method for testing.
func (m *MockMoleculeRepo) GetByID(ctx context.Context, id string) (*domain.Molecule, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockMoleculeRepo.GetByID")
}

// List implements the interface method for testing.
func (m *MockMoleculeRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Molecule, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	panic("unexpected call to MockMoleculeRepo.List")
}

var _ domain.MoleculeRepository = (*MockMoleculeRepo)(nil)

// === Upload Archiver Mock ===

// MockArchiver implements domain.UploadArchiver, keeping objects in memory.
type MockArchiver struct {
	PutFn func(ctx context.Context, key string, data []byte, contentType string) error

	mu      sync.Mutex
	Objects map[string][]byte
}

// Put implements the interface method for testing.
func (m *MockArchiver) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if m.PutFn != nil {
		if err := m.PutFn(ctx, key, data, contentType); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Objects == nil {
		m.Objects = make(map[string][]byte)
	}
	m.Objects[key] = append([]byte(nil), data...)
	return nil
}

// Location implements the interface method for testing.
func (m *MockArchiver) Location(key string) string { return "mem://" + key }

var _ domain.UploadArchiver = (*MockArchiver)(nil)
