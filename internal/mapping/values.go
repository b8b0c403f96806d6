package mapping

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"moleculehub/internal/domain"
)

// ConvertValue parses raw according to the property's type and range.
// A blank value converts to nil without error; whether that is acceptable
// is decided by the caller from def.Required.
func ConvertValue(def domain.PropertyDefinition, raw string) (any, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}

	switch def.Type {
	case domain.PropertyTypeSMILES:
		if err := CheckSMILES(v); err != nil {
			return nil, err
		}
		return v, nil
	case domain.PropertyTypeNumber:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%q is not a number", v)
		}
		if err := checkRange(def, f); err != nil {
			return nil, err
		}
		return f, nil
	case domain.PropertyTypeInteger:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", v)
		}
		if err := checkRange(def, float64(n)); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return v, nil
	}
}

func checkRange(def domain.PropertyDefinition, f float64) error {
	if def.Min != nil && f < *def.Min {
		return fmt.Errorf("%s is below the minimum of %s", formatFloat(f), formatFloat(*def.Min))
	}
	if def.Max != nil && f > *def.Max {
		return fmt.Errorf("%s is above the maximum of %s", formatFloat(f), formatFloat(*def.Max))
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Values converts the mapped cells of one row into property values keyed by
// property key. rowNum is the 1-based data row number used in issues.
// Columns mapped to keys missing from the registry are ignored.
func Values(set domain.MappingSet, reg domain.PropertyRegistry, rowNum int, row domain.Row) (map[string]any, []domain.RowIssue) {
	values := make(map[string]any)
	var issues []domain.RowIssue
	for _, m := range set {
		if !m.IsMapped() {
			continue
		}
		def, ok := reg.Lookup(m.TargetField)
		if !ok {
			continue
		}
		v, err := ConvertValue(def, row[m.SourceColumn])
		switch {
		case err != nil:
			issues = append(issues, domain.RowIssue{
				Row: rowNum, Column: m.SourceColumn, Property: def.Key, Message: err.Error(),
			})
		case v == nil && def.Required:
			issues = append(issues, domain.RowIssue{
				Row: rowNum, Column: m.SourceColumn, Property: def.Key,
				Message: fmt.Sprintf("a value for %s is required", def.DisplayName),
			})
		case v != nil:
			values[def.Key] = v
		}
	}
	return values, issues
}

// CheckRows returns every per-row, per-field problem for rows under set.
func CheckRows(set domain.MappingSet, reg domain.PropertyRegistry, rows []domain.Row) []domain.RowIssue {
	issues := make([]domain.RowIssue, 0)
	for i, row := range rows {
		_, rowIssues := Values(set, reg, i+1, row)
		issues = append(issues, rowIssues...)
	}
	return issues
}
