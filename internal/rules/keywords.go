package rules

import "strings"

// KeywordRule maps a filename substring to a category.
type KeywordRule struct {
	Keyword  string
	Category string
}

// keywordRules is consulted in declaration order; the first rule whose
// keyword substring-matches the filename wins. Ties are never broken by
// length or specificity, which keeps matching deterministic.
var keywordRules = []KeywordRule{
	// Document-related keywords
	{"invoice", "Documents"},
	{"receipt", "Documents"},
	{"contract", "Documents"},
	{"report", "Documents"},
	{"resume", "Documents"},
	{"cv", "Documents"},
	{"letter", "Documents"},
	{"statement", "Documents"},

	// Image-related keywords
	{"screenshot", "Images"},
	{"photo", "Images"},
	{"wallpaper", "Images"},
	{"banner", "Images"},
	{"logo", "Images"},
	{"icon", "Images"},

	// Video-related keywords
	{"video", "Videos"},
	{"movie", "Videos"},
	{"clip", "Videos"},
	{"recording", "Videos"},
	{"tutorial", "Videos"},

	// Audio-related keywords
	{"song", "Audio"},
	{"music", "Audio"},
	{"podcast", "Audio"},
	{"audiobook", "Audio"},

	// Archive-related keywords
	{"backup", "Archives"},
	{"archive", "Archives"},

	// Code-related keywords
	{"script", "Code"},
	{"source", "Code"},
	{"config", "Code"},
}

// MatchKeyword scans the filename against every keyword rule in declaration
// order, case-insensitively, and returns the first matching rule.
func MatchKeyword(filename string) (KeywordRule, bool) {
	lowered := strings.ToLower(filename)
	for _, rule := range keywordRules {
		if strings.Contains(lowered, rule.Keyword) {
			return rule, true
		}
	}
	return KeywordRule{}, false
}

// KeywordRules returns the rule set in declaration order.
func KeywordRules() []KeywordRule {
	out := make([]KeywordRule, len(keywordRules))
	copy(out, keywordRules)
	return out
}
