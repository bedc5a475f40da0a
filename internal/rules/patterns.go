package rules

import (
	"path/filepath"
	"regexp"
	"strings"
)

var patternSeparators = regexp.MustCompile(`[-_\s.]+`)

// ExtractPatterns derives normalized learning patterns from a filename: the
// lower-cased stem split on common separators, dropping tokens shorter than
// three characters and bare numbers. The extension is intentionally not part
// of the pattern; extension-driven files never reach the learning step.
func ExtractPatterns(filename string) []string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	tokens := patternSeparators.Split(strings.ToLower(stem), -1)

	patterns := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) < 3 || isAllDigits(tok) {
			continue
		}
		patterns = append(patterns, tok)
	}
	return patterns
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
