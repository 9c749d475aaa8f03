// Package lang normalizes language codes and applies language-sensitive
// case folding to translated text.
package lang

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// English is the language of canonical ingredient names
const English = "en"

// Normalize reduces a language code to its lowercase base language,
// e.g. "en-US" -> "en", "DE" -> "de". Unparseable codes are only trimmed and lowercased.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}

	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}

	base, confidence := tag.Base()
	if confidence == language.No {
		return strings.ToLower(code)
	}
	return base.String()
}

// IsCode reports whether s parses as a BCP 47 language tag
func IsCode(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 12 || strings.ContainsAny(s, " \t") {
		return false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return false
	}
	_, confidence := tag.Base()
	return confidence != language.No
}

// Lower lowercases s using the casing rules of the given language
func Lower(code, s string) string {
	tag, err := language.Parse(code)
	if err != nil {
		tag = language.Und
	}
	return cases.Lower(tag).String(s)
}

// CaseRules decides per language whether translated names keep the
// capitalization returned by the translator or are lowercased.
type CaseRules struct {
	preserve map[string]bool
}

// DefaultPreserveCase lists the languages whose nouns are capitalized
var DefaultPreserveCase = []string{"de"}

// NewCaseRules creates case rules preserving capitalization for the given languages
func NewCaseRules(preserve []string) CaseRules {
	rules := CaseRules{preserve: make(map[string]bool, len(preserve))}
	for _, code := range preserve {
		if code = Normalize(code); code != "" {
			rules.preserve[code] = true
		}
	}
	return rules
}

// Preserves reports whether capitalization is kept for the language
func (r CaseRules) Preserves(code string) bool {
	return r.preserve[Normalize(code)]
}

// Fold trims s and lowercases it unless the language preserves capitalization
func (r CaseRules) Fold(code, s string) string {
	s = strings.TrimSpace(s)
	if r.Preserves(code) {
		return s
	}
	return Lower(code, s)
}
