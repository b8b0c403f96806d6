package mapping

import (
	"fmt"

	"moleculehub/internal/domain"
)

// Validate checks a mapping set against the registry. Problems are reported
// as messages in the result, never as an error:
//
//   - each required property that no column targets, in registry order;
//   - each property targeted by more than one column, in order of its first
//     occurrence in the set.
//
// Unmapped columns never produce a message.
func Validate(set domain.MappingSet, reg domain.PropertyRegistry) domain.ValidationResult {
	counts := make(map[string]int, len(set))
	var firstSeen []string
	for _, m := range set {
		if !m.IsMapped() {
			continue
		}
		if counts[m.TargetField] == 0 {
			firstSeen = append(firstSeen, m.TargetField)
		}
		counts[m.TargetField]++
	}

	errs := make([]string, 0)
	for _, def := range reg.Properties() {
		if def.Required && counts[def.Key] == 0 {
			errs = append(errs, fmt.Sprintf("Required property \"%s\" is not mapped.", label(def)))
		}
	}
	for _, key := range firstSeen {
		if counts[key] > 1 {
			errs = append(errs, fmt.Sprintf("Property \"%s\" is mapped multiple times.", displayName(reg, key)))
		}
	}

	return domain.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func displayName(reg domain.PropertyRegistry, key string) string {
	if def, ok := reg.Lookup(key); ok {
		return label(def)
	}
	return key
}

func label(def domain.PropertyDefinition) string {
	if def.DisplayName == "" {
		return def.Key
	}
	return def.DisplayName
}
