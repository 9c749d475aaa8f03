// Package plural derives singular and plural ingredient names. English uses
// an inflection rule-set; other languages register a Strategy, falling back
// to the generic English rules when none is registered.
package plural

import (
	"strings"

	"github.com/jinzhu/inflection"

	"codeberg.org/snonux/recipetrans/internal/lang"
)

// Strategy turns a noun into its singular or plural form for one language
type Strategy interface {
	Singular(word string) string
	Plural(word string) string
}

// English pluralizes with the inflection rule-set
type English struct{}

// Singular returns the singular form of word
func (English) Singular(word string) string {
	return inflection.Singular(word)
}

// Plural returns the plural form of word
func (English) Plural(word string) string {
	return inflection.Plural(word)
}

// Invariant is used for languages whose nouns do not inflect for number
type Invariant struct{}

// Singular returns word unchanged
func (Invariant) Singular(word string) string { return word }

// Plural returns word unchanged
func (Invariant) Plural(word string) string { return word }

// SuffixRule rewrites a word ending in Ending by replacing that ending with Replace
type SuffixRule struct {
	Ending  string
	Replace string
}

// Suffix is a naive heuristic for languages without an inflection library.
// The first matching rule wins; Default is appended when no rule matches.
type Suffix struct {
	Rules   []SuffixRule
	Default string
}

// Singular returns word unchanged; the heuristic only runs forwards
func (s Suffix) Singular(word string) string {
	return word
}

// Plural applies the first matching suffix rule
func (s Suffix) Plural(word string) string {
	if strings.TrimSpace(word) == "" {
		return word
	}
	lower := strings.ToLower(word)
	for _, rule := range s.Rules {
		if strings.HasSuffix(lower, rule.Ending) {
			return word[:len(word)-len(rule.Ending)] + rule.Replace
		}
	}
	return word + s.Default
}

// Rules maps language codes to strategies
type Rules struct {
	byLang   map[string]Strategy
	fallback Strategy
}

// NewRules returns the built-in strategies: English inflection, suffix
// heuristics for a few European languages and invariant CJK nouns.
func NewRules() *Rules {
	r := &Rules{
		byLang:   make(map[string]Strategy),
		fallback: English{},
	}

	r.Register(lang.English, English{})
	r.Register("de", Suffix{
		Rules: []SuffixRule{
			{Ending: "e", Replace: "en"},
			{Ending: "er", Replace: "er"},
			{Ending: "el", Replace: "el"},
			{Ending: "en", Replace: "en"},
		},
		Default: "e",
	})
	r.Register("fr", Suffix{
		Rules: []SuffixRule{
			{Ending: "s", Replace: "s"},
			{Ending: "x", Replace: "x"},
			{Ending: "z", Replace: "z"},
			{Ending: "eau", Replace: "eaux"},
			{Ending: "al", Replace: "aux"},
		},
		Default: "s",
	})
	r.Register("es", Suffix{
		Rules: []SuffixRule{
			{Ending: "z", Replace: "ces"},
			{Ending: "a", Replace: "as"},
			{Ending: "e", Replace: "es"},
			{Ending: "i", Replace: "is"},
			{Ending: "o", Replace: "os"},
			{Ending: "u", Replace: "us"},
			{Ending: "s", Replace: "s"},
		},
		Default: "es",
	})
	r.Register("it", Suffix{
		Rules: []SuffixRule{
			{Ending: "o", Replace: "i"},
			{Ending: "a", Replace: "e"},
			{Ending: "e", Replace: "i"},
		},
	})
	r.Register("nl", Suffix{
		Rules: []SuffixRule{
			{Ending: "e", Replace: "es"},
			{Ending: "el", Replace: "els"},
			{Ending: "er", Replace: "ers"},
			{Ending: "en", Replace: "ens"},
		},
		Default: "en",
	})
	for _, code := range []string{"ja", "zh", "ko"} {
		r.Register(code, Invariant{})
	}

	return r
}

// Register sets the strategy for a language, replacing any existing one
func (r *Rules) Register(code string, s Strategy) {
	r.byLang[lang.Normalize(code)] = s
}

// For returns the strategy registered for a language or the generic fallback
func (r *Rules) For(code string) Strategy {
	if s, ok := r.byLang[lang.Normalize(code)]; ok {
		return s
	}
	return r.fallback
}

// Canonical derives the canonical English pair from free text: the input is
// lowercased, singularized, then pluralized so already-plural input normalizes.
func Canonical(name string) (singular, pluralForm string) {
	name = strings.ToLower(strings.TrimSpace(name))
	singular = English{}.Singular(name)
	return singular, English{}.Plural(singular)
}
