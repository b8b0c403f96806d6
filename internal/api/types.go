package api

import (
	"time"

	"moleculehub/internal/domain"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// Page wraps a list response.
type Page[T any] struct {
	Data          []T    `json:"data"`
	Total         int64  `json:"total"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

func newPage[T any](data []T, page domain.PageRequest, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:          data,
		Total:         total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	}
}

// PropertyDefinition is one entry of the property registry.
type PropertyDefinition struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	Required    bool     `json:"required"`
	Type        string   `json:"type"`
	Unit        string   `json:"unit,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
}

// ColumnMapping assigns a source column to a target field ("" = unmapped).
type ColumnMapping struct {
	SourceColumn string `json:"source_column"`
	TargetField  string `json:"target_field"`
}

// ValidationResult mirrors domain.ValidationResult.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// RowIssue is one value problem in one data row.
type RowIssue struct {
	Row      int    `json:"row"`
	Column   string `json:"column"`
	Property string `json:"property"`
	Message  string `json:"message"`
}

// ImportResult is the outcome of a commit.
type ImportResult struct {
	RowsTotal  int        `json:"rows_total"`
	Imported   int        `json:"imported"`
	Duplicates int        `json:"duplicates"`
	Skipped    int        `json:"skipped"`
	RowIssues  []RowIssue `json:"row_issues"`
}

// ImportSummary is a session as listed, without preview data.
type ImportSummary struct {
	ID        string        `json:"id"`
	Filename  string        `json:"filename"`
	Status    string        `json:"status"`
	Version   int64         `json:"version"`
	Headers   []string      `json:"headers"`
	RowCount  int           `json:"row_count"`
	Result    *ImportResult `json:"result,omitempty"`
	CreatedBy string        `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ImportSession is the preview of one session: sample rows, the current
// mapping set, the stored suggestions and the validation result.
type ImportSession struct {
	ImportSummary
	SampleRows      []map[string]string `json:"sample_rows"`
	Mappings        []ColumnMapping     `json:"mappings"`
	Suggestions     []ColumnMapping     `json:"suggestions"`
	Validation      ValidationResult    `json:"validation"`
	ArchiveLocation string              `json:"archive_location,omitempty"`
}

// ValidationReport is the mapping result plus per-row findings.
type ValidationReport struct {
	ValidationResult
	RowsTotal int        `json:"rows_total"`
	RowIssues []RowIssue `json:"row_issues"`
}

// SetMappingRequest is the body of PUT /imports/{id}/mappings.
type SetMappingRequest struct {
	SourceColumn string `json:"source_column"`
	TargetField  string `json:"target_field"`
}

// Molecule is a committed molecule.
type Molecule struct {
	ID              string         `json:"id"`
	SMILES          string         `json:"smiles"`
	Properties      map[string]any `json:"properties"`
	ImportSessionID string         `json:"import_session_id,omitempty"`
	CreatedBy       string         `json:"created_by"`
	CreatedAt       time.Time      `json:"created_at"`
}

// AuditEntry is one audit log record.
type AuditEntry struct {
	ID            string    `json:"id"`
	PrincipalName string    `json:"principal_name"`
	Action        string    `json:"action"`
	Status        string    `json:"status"`
	Detail        *string   `json:"detail,omitempty"`
	SessionID     *string   `json:"session_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// === Mapping helpers ===

func propertyToAPI(d domain.PropertyDefinition) PropertyDefinition {
	return PropertyDefinition{
		Key:         d.Key,
		DisplayName: d.DisplayName,
		Required:    d.Required,
		Type:        string(d.Type),
		Unit:        d.Unit,
		Min:         d.Min,
		Max:         d.Max,
		Aliases:     d.Aliases,
	}
}

func mappingsToAPI(set domain.MappingSet) []ColumnMapping {
	out := make([]ColumnMapping, 0, len(set))
	for _, m := range set {
		out = append(out, ColumnMapping{SourceColumn: m.SourceColumn, TargetField: m.TargetField})
	}
	return out
}

func validationToAPI(v domain.ValidationResult) ValidationResult {
	errs := v.Errors
	if errs == nil {
		errs = []string{}
	}
	return ValidationResult{IsValid: v.IsValid, Errors: errs}
}

func rowIssuesToAPI(issues []domain.RowIssue) []RowIssue {
	out := make([]RowIssue, 0, len(issues))
	for _, i := range issues {
		out = append(out, RowIssue{Row: i.Row, Column: i.Column, Property: i.Property, Message: i.Message})
	}
	return out
}

func resultToAPI(r *domain.ImportResult) *ImportResult {
	if r == nil {
		return nil
	}
	return &ImportResult{
		RowsTotal:  r.RowsTotal,
		Imported:   r.Imported,
		Duplicates: r.Duplicates,
		Skipped:    r.Skipped,
		RowIssues:  rowIssuesToAPI(r.RowIssues),
	}
}

func summaryToAPI(s *domain.ImportSession) ImportSummary {
	headers := s.Headers
	if headers == nil {
		headers = []string{}
	}
	return ImportSummary{
		ID:        s.ID,
		Filename:  s.Filename,
		Status:    string(s.Status),
		Version:   s.Version,
		Headers:   headers,
		RowCount:  s.RowCount,
		Result:    resultToAPI(s.Result),
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func moleculeToAPI(m domain.Molecule) Molecule {
	props := m.Properties
	if props == nil {
		props = map[string]any{}
	}
	return Molecule{
		ID:              m.ID,
		SMILES:          m.SMILES,
		Properties:      props,
		ImportSessionID: m.ImportSessionID,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}

func auditEntryToAPI(e domain.AuditEntry) AuditEntry {
	return AuditEntry{
		ID:            e.ID,
		PrincipalName: e.PrincipalName,
		Action:        e.Action,
		Status:        e.Status,
		Detail:        e.Detail,
		SessionID:     e.SessionID,
		CreatedAt:     e.CreatedAt,
	}
}
