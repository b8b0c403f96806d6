// Package repository implements domain repository interfaces using SQLite.
package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"moleculehub/internal/domain"
)

// sqliteTimeLayout matches the text SQLite writes for CURRENT_TIMESTAMP.
const sqliteTimeLayout = "2006-01-02 15:04:05"

func sqliteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "resource already exists"}
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func marshalJSON(what string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", what, err)
	}
	return string(b), nil
}

func unmarshalJSON(what string, data sql.NullString, v any) error {
	if !data.Valid || data.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data.String), v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return nil
}

// mappingRecord is the stored form of a domain.ColumnMapping.
type mappingRecord struct {
	Source string `json:"source_column"`
	Target string `json:"target_field,omitempty"`
}

func encodeMappings(set domain.MappingSet) (string, error) {
	recs := make([]mappingRecord, len(set))
	for i, m := range set {
		recs[i] = mappingRecord{Source: m.SourceColumn, Target: m.TargetField}
	}
	return marshalJSON("mappings", recs)
}

func decodeMappings(data sql.NullString) (domain.MappingSet, error) {
	var recs []mappingRecord
	if err := unmarshalJSON("mappings", data, &recs); err != nil {
		return nil, err
	}
	set := make(domain.MappingSet, len(recs))
	for i, r := range recs {
		set[i] = domain.ColumnMapping{SourceColumn: r.Source, TargetField: r.Target}
	}
	return set, nil
}

// resultRecord is the stored form of a domain.ImportResult.
type resultRecord struct {
	RowsTotal  int              `json:"rows_total"`
	Imported   int              `json:"imported"`
	Duplicates int              `json:"duplicates"`
	Skipped    int              `json:"skipped"`
	RowIssues  []rowIssueRecord `json:"row_issues,omitempty"`
}

type rowIssueRecord struct {
	Row      int    `json:"row"`
	Column   string `json:"column"`
	Property string `json:"property"`
	Message  string `json:"message"`
}

func encodeResult(r domain.ImportResult) (string, error) {
	rec := resultRecord{
		RowsTotal:  r.RowsTotal,
		Imported:   r.Imported,
		Duplicates: r.Duplicates,
		Skipped:    r.Skipped,
	}
	for _, ri := range r.RowIssues {
		rec.RowIssues = append(rec.RowIssues, rowIssueRecord(ri))
	}
	return marshalJSON("import result", rec)
}

func decodeResult(data sql.NullString) (*domain.ImportResult, error) {
	if !data.Valid || data.String == "" {
		return nil, nil
	}
	var rec resultRecord
	if err := unmarshalJSON("import result", data, &rec); err != nil {
		return nil, err
	}
	res := &domain.ImportResult{
		RowsTotal:  rec.RowsTotal,
		Imported:   rec.Imported,
		Duplicates: rec.Duplicates,
		Skipped:    rec.Skipped,
	}
	for _, ri := range rec.RowIssues {
		res.RowIssues = append(res.RowIssues, domain.RowIssue(ri))
	}
	return res, nil
}
