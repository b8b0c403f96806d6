package domain

// Unmapped is the TargetField sentinel for a column assigned to no property.
const Unmapped = ""

// ColumnMapping assigns one uploaded source column to zero or one property.
type ColumnMapping struct {
	SourceColumn string
	TargetField  string
}

// IsMapped reports whether the column is assigned to a property.
func (m ColumnMapping) IsMapped() bool { return m.TargetField != Unmapped }

// MappingSet holds one ColumnMapping per uploaded header, in header order.
// SourceColumn values are unique within a set.
type MappingSet []ColumnMapping

// Clone returns an independent copy of the set.
func (s MappingSet) Clone() MappingSet {
	if s == nil {
		return nil
	}
	out := make(MappingSet, len(s))
	copy(out, s)
	return out
}

// Index returns the position of column in the set, or -1.
func (s MappingSet) Index(column string) int {
	for i, m := range s {
		if m.SourceColumn == column {
			return i
		}
	}
	return -1
}

// Target returns the target field assigned to column.
func (s MappingSet) Target(column string) (string, bool) {
	i := s.Index(column)
	if i < 0 {
		return Unmapped, false
	}
	return s[i].TargetField, true
}

// ValidationResult is derived from a mapping set and the property registry.
// It is recomputed on every change and never stored as the source of truth.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// RowIssue describes one value in one data row that cannot be imported.
type RowIssue struct {
	Row      int // 1-based data row number (header excluded)
	Column   string
	Property string
	Message  string
}

// ValidationReport combines the mapping-level result with per-row findings.
type ValidationReport struct {
	Result    ValidationResult
	RowIssues []RowIssue
	RowsTotal int
}
