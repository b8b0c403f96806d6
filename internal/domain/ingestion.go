package domain

import "time"

// Row is one data record of an upload, keyed by header.
type Row map[string]string

// Upload is the parsed form of an uploaded spreadsheet.
type Upload struct {
	Headers []string
	Rows    []Row
}

// ImportStatus is the lifecycle state of an import session.
type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "PENDING"
	ImportStatusCommitted ImportStatus = "COMMITTED"
)

// ImportSession is one in-flight upload: the parsed data, the caller-owned
// mapping set and the suggestions computed when the upload was received.
type ImportSession struct {
	ID          string
	Filename    string
	Headers     []string
	Rows        []Row // not loaded by list queries, cleared on commit
	RowCount    int
	Mappings    MappingSet
	Suggestions MappingSet
	Status      ImportStatus
	Version     int64 // optimistic concurrency token, bumped on every write
	ArchiveKey  string
	Result      *ImportResult
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SampleRows returns at most n leading rows for preview.
func (s *ImportSession) SampleRows(n int) []Row {
	if n < 0 || n >= len(s.Rows) {
		return s.Rows
	}
	return s.Rows[:n]
}

// ImportSessionView is what the presentation boundary receives: the
// session, its preview rows and the validation result of the current set.
type ImportSessionView struct {
	Session    *ImportSession
	SampleRows []Row
	Validation ValidationResult
}

// ImportResult describes the outcome of committing an import session.
type ImportResult struct {
	RowsTotal  int
	Imported   int
	Duplicates int
	Skipped    int
	RowIssues  []RowIssue
}

// Molecule is a committed molecule record.
type Molecule struct {
	ID              string
	SMILES          string
	Properties      map[string]any
	ImportSessionID string
	CreatedBy       string
	CreatedAt       time.Time
}
