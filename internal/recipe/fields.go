package recipe

import (
	"context"
	"slices"

	"codeberg.org/snonux/recipetrans/internal/catalog"
	"codeberg.org/snonux/recipetrans/internal/translation"
)

var allFields = []string{
	catalog.FieldTitle,
	catalog.FieldCategory,
	catalog.FieldNotes,
	catalog.FieldSource,
	catalog.FieldInstructions,
}

// translateFields translates the named fields of src in a single batch and
// writes them over a copy of base. URL sources are copied verbatim. Fields
// with a fragment that fell back to source text are returned as failed.
func translateFields(ctx context.Context, safe *translation.Safe, base, src catalog.Fields, source, target string, names []string) (catalog.Fields, []string) {
	out := base.Clone()

	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}

	scalars := []struct {
		name  string
		value string
		dst   *string
	}{
		{catalog.FieldTitle, src.Title, &out.Title},
		{catalog.FieldCategory, src.Category, &out.Category},
		{catalog.FieldNotes, src.Notes, &out.Notes},
		{catalog.FieldSource, src.Source, &out.Source},
	}

	var texts []string
	var slots []string
	var dsts []*string
	for _, s := range scalars {
		if !want[s.name] {
			continue
		}
		if s.name == catalog.FieldSource && IsURL(s.value) {
			*s.dst = s.value
			continue
		}
		texts = append(texts, s.value)
		slots = append(slots, s.name)
		dsts = append(dsts, s.dst)
	}
	if want[catalog.FieldInstructions] {
		texts = append(texts, Punctuate(src.Instructions)...)
	}

	translated, ok := safe.Slots(ctx, texts, target, source)
	var failed []string
	for i, dst := range dsts {
		*dst = translated[i]
		if !ok[i] {
			failed = append(failed, slots[i])
		}
	}

	if want[catalog.FieldInstructions] {
		out.Instructions = Punctuate(translated[len(dsts):])
		if out.Instructions == nil {
			out.Instructions = []string{}
		}
		if slices.Contains(ok[len(dsts):], false) {
			failed = append(failed, catalog.FieldInstructions)
		}
	}
	return out, failed
}

// withPending returns pending with the fields that were just retranslated
// removed and the failed ones added, in field order
func withPending(pending, retranslated, failed []string) []string {
	var out []string
	for _, name := range allFields {
		if slices.Contains(failed, name) ||
			(slices.Contains(pending, name) && !slices.Contains(retranslated, name)) {
			out = append(out, name)
		}
	}
	return out
}
