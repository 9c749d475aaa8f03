package recipe

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeberg.org/snonux/recipetrans/internal/catalog"
)

// View is a recipe rendered in one language
type View struct {
	RecipeID       string
	Language       string
	SourceLanguage string
	catalog.Fields
	Ingredients []IngredientView
	// Degraded is set when at least one fragment fell back to source text
	Degraded bool
}

// IngredientView is one ingredient line of a rendered recipe
type IngredientView struct {
	ID           string
	IngredientID string
	Name         string
	Quantity     string
	Unit         string
	Notes        string
	Subheading   string
	IsPlural     bool
}

// Line formats the ingredient as "<quantity> <unit> <name>, <notes>"
func (v IngredientView) Line() string {
	var parts []string
	for _, p := range []string{v.Quantity, v.Unit, v.Name} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	line := strings.Join(parts, " ")
	if notes := strings.TrimSpace(v.Notes); notes != "" {
		line += ", " + notes
	}
	return line
}

// TitleView is a recipe title for list views
type TitleView struct {
	RecipeID string
	Title    string
}

// IsURL reports whether s looks like a link: an http(s) URL or a
// bare "www." host. Such values are never translated.
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "www.") {
		return true
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Punctuate returns a copy of lines where every non-blank line ends with
// terminal punctuation. Blank lines are kept as they are.
func Punctuate(lines []string) []string {
	if lines == nil {
		return nil
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
		if strings.TrimSpace(trimmed) == "" {
			out[i] = line
			continue
		}
		last, _ := utf8.DecodeLastRuneInString(trimmed)
		if isTerminal(last) {
			out[i] = trimmed
		} else {
			out[i] = trimmed + "."
		}
	}
	return out
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', ':', ';', '…', '。', '！', '？', ')', '"', '»', '”':
		return true
	}
	return false
}
