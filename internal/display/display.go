// Package display selects the name shown for an ingredient in a recipe.
package display

import (
	"strings"

	"codeberg.org/snonux/recipetrans/internal/catalog"
)

// Input carries everything needed to render one ingredient name
type Input struct {
	// Override is the recipe-specific name for the target language, if any
	Override string
	// Translated is the resolved name pair in the target language, if any
	Translated catalog.NamePair
	// Stored is the pair used when no translated pair is available
	Stored   catalog.NamePair
	IsPlural bool
}

// Name returns the display name. An override always wins, then the
// translated pair, then the stored pair; IsPlural picks the form.
func Name(in Input) string {
	if override := strings.TrimSpace(in.Override); override != "" {
		return override
	}

	pair := in.Translated
	if pair.IsZero() {
		pair = in.Stored
	}
	return pair.Form(in.IsPlural)
}
