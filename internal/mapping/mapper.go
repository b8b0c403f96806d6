// Package mapping reconciles the columns of an uploaded spreadsheet with the
// recognized molecular properties of a registry.
//
// Every function in this package is pure: mapping sets are values owned by
// the caller, and each mutation returns a new set. The registry is read only.
package mapping

import (
	"strings"

	"moleculehub/internal/domain"
)

// Initialize returns one unmapped ColumnMapping per header, in header order.
//
// Headers are expected to be de-duplicated by the ingestion boundary; an
// empty list, a blank header or a repeated header is still rejected with a
// ValidationError so that a set can never hold two entries for one column.
func Initialize(headers []string) (domain.MappingSet, error) {
	if len(headers) == 0 {
		return nil, domain.ErrValidation("at least one column header is required")
	}
	seen := make(map[string]struct{}, len(headers))
	set := make(domain.MappingSet, 0, len(headers))
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			return nil, domain.ErrValidation("column header %d is empty", i+1)
		}
		if _, dup := seen[h]; dup {
			return nil, domain.ErrValidation("duplicate column header %q", h)
		}
		seen[h] = struct{}{}
		set = append(set, domain.ColumnMapping{SourceColumn: h, TargetField: domain.Unmapped})
	}
	return set, nil
}

// SetMapping assigns targetField to sourceColumn and returns the new set.
// domain.Unmapped clears the assignment. The input set is not modified and
// no other entry changes.
func SetMapping(set domain.MappingSet, reg domain.PropertyRegistry, sourceColumn, targetField string) (domain.MappingSet, error) {
	i := set.Index(sourceColumn)
	if i < 0 {
		return nil, &domain.UnknownColumnError{Column: sourceColumn}
	}
	if targetField != domain.Unmapped {
		if _, ok := reg.Lookup(targetField); !ok {
			return nil, &domain.UnknownPropertyError{Key: targetField}
		}
	}
	out := set.Clone()
	out[i].TargetField = targetField
	return out, nil
}

// Apply folds SetMapping over assignments in order. The first failing
// assignment aborts and its error is returned.
func Apply(set domain.MappingSet, reg domain.PropertyRegistry, assignments []domain.ColumnMapping) (domain.MappingSet, error) {
	out := set
	for _, a := range assignments {
		next, err := SetMapping(out, reg, a.SourceColumn, a.TargetField)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out.Clone(), nil
}
