package mapping

import (
	"regexp"
	"strings"
	"unicode"

	"moleculehub/internal/domain"
)

// trailingUnit matches a unit annotation such as "(g/mol)" or "[nM]" at the
// end of a header.
var trailingUnit = regexp.MustCompile(`\s*[\(\[][^\)\]]*[\)\]]\s*$`)

// Suggest proposes a mapping set for headers by matching each header against
// the key, display name and aliases of every property. Matching ignores case,
// punctuation, whitespace and a trailing unit annotation.
//
// A property is suggested for at most one column (the first matching header),
// so a suggested set never produces a duplicate-mapping error. Headers that
// match nothing stay unmapped.
func Suggest(headers []string, reg domain.PropertyRegistry) domain.MappingSet {
	index := make(map[string]string)
	for _, def := range reg.Properties() {
		names := append([]string{def.Key, def.DisplayName}, def.Aliases...)
		for _, n := range names {
			norm := normalizeHeader(n)
			if norm == "" {
				continue
			}
			if _, taken := index[norm]; !taken {
				index[norm] = def.Key
			}
		}
	}

	used := make(map[string]bool)
	set := make(domain.MappingSet, len(headers))
	for i, h := range headers {
		set[i] = domain.ColumnMapping{SourceColumn: h, TargetField: domain.Unmapped}
		key, ok := index[normalizeHeader(h)]
		if !ok {
			key, ok = index[normalizeHeader(trailingUnit.ReplaceAllString(h, ""))]
		}
		if ok && !used[key] {
			set[i].TargetField = key
			used[key] = true
		}
	}
	return set
}

// normalizeHeader lower-cases s and drops everything but letters and digits.
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
