package mapping

import (
	"errors"
	"strings"
)

const smilesAlphabet = "ABCDEFGHIKLMNOPRSTUVWXYZabcdefghiklmnoprstuvy" +
	"0123456789" + "()[]=#$:/\\@+-.%*"

// CheckSMILES performs a lightweight syntax check of a SMILES string: only
// SMILES characters, balanced branches and closed, non-nested bracket atoms.
// It does not perceive chemistry (valence, aromaticity, ring closures).
func CheckSMILES(s string) error {
	if s == "" {
		return errors.New("SMILES is empty")
	}
	depth := 0
	inBracket := false
	for _, r := range s {
		if !strings.ContainsRune(smilesAlphabet, r) {
			return errors.New("SMILES contains invalid character " + quoteRune(r))
		}
		switch r {
		case '(':
			if inBracket {
				return errors.New("SMILES has a branch inside a bracket atom")
			}
			depth++
		case ')':
			if inBracket {
				return errors.New("SMILES has a branch inside a bracket atom")
			}
			depth--
			if depth < 0 {
				return errors.New("SMILES has an unmatched ')'")
			}
		case '[':
			if inBracket {
				return errors.New("SMILES has a nested bracket atom")
			}
			inBracket = true
		case ']':
			if !inBracket {
				return errors.New("SMILES has an unmatched ']'")
			}
			inBracket = false
		}
	}
	if inBracket {
		return errors.New("SMILES has an unclosed bracket atom")
	}
	if depth != 0 {
		return errors.New("SMILES has an unclosed branch")
	}
	return nil
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}
