package catalog

import "slices"

// NamePair holds the singular and plural form of an ingredient name in one language
type NamePair struct {
	Singular string `json:"singular_name"`
	Plural   string `json:"plural_name"`
}

// IsZero reports whether neither form is set
func (p NamePair) IsZero() bool {
	return p.Singular == "" && p.Plural == ""
}

// Form returns the plural form when plural is true and one exists,
// otherwise the singular form.
func (p NamePair) Form(plural bool) string {
	if plural && p.Plural != "" {
		return p.Plural
	}
	if p.Singular == "" {
		return p.Plural
	}
	return p.Singular
}

// Ingredient is the canonical, language-independent identity of a real-world ingredient.
// SingularName and PluralName are the canonical English forms.
type Ingredient struct {
	ID              string
	SingularName    string
	PluralName      string
	TranslatedNames map[string]NamePair
}

// Canonical returns the canonical English name pair
func (i Ingredient) Canonical() NamePair {
	return NamePair{Singular: i.SingularName, Plural: i.PluralName}
}

// Names returns the name pair for a language. English always resolves to
// the canonical pair.
func (i Ingredient) Names(lang string) (NamePair, bool) {
	if lang == "en" {
		return i.Canonical(), true
	}
	pair, ok := i.TranslatedNames[lang]
	if !ok || pair.IsZero() {
		return NamePair{}, false
	}
	return pair, true
}

// RecipeIngredient is one recipe's use of a canonical ingredient.
// Quantity is kept verbatim as typed by the author.
type RecipeIngredient struct {
	ID              string
	RecipeID        string
	IngredientID    string
	Quantity        string
	Unit            string
	Notes           string
	Subheading      string
	OrderIndex      int
	IsPlural        bool
	NameOverrides   map[string]string
	TranslatedNotes map[string]string
}

// Fields are the translatable scalar and array fields of a recipe. The same
// shape is used for the source-language values and for each cached translation.
type Fields struct {
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Instructions []string `json:"instructions"`
	Notes        string   `json:"notes"`
	Source       string   `json:"source"`
	// Pending names cached fields whose retranslation failed. They hold
	// the source text until the next detail view retranslates them.
	Pending []string `json:"pending,omitempty"`
}

// Complete reports whether a cached translation holds the full field set.
// Entries written by the title-only path, and legacy partial rows, carry a
// title but no instructions slot and must be refreshed before a detail view.
// Entries with pending fields are incomplete as well.
func (f Fields) Complete() bool {
	return f.Instructions != nil && len(f.Pending) == 0
}

// IsPending reports whether field awaits retranslation
func (f Fields) IsPending(field string) bool {
	return slices.Contains(f.Pending, field)
}

// Changed lists the names of the fields that differ between f and other.
// Instructions are compared as a whole array.
func (f Fields) Changed(other Fields) []string {
	var changed []string
	if f.Title != other.Title {
		changed = append(changed, FieldTitle)
	}
	if f.Category != other.Category {
		changed = append(changed, FieldCategory)
	}
	if f.Notes != other.Notes {
		changed = append(changed, FieldNotes)
	}
	if f.Source != other.Source {
		changed = append(changed, FieldSource)
	}
	if !slices.Equal(f.Instructions, other.Instructions) {
		changed = append(changed, FieldInstructions)
	}
	return changed
}

// Clone returns a copy that shares no backing array with f
func (f Fields) Clone() Fields {
	out := f
	if f.Instructions != nil {
		out.Instructions = slices.Clone(f.Instructions)
	}
	out.Pending = slices.Clone(f.Pending)
	return out
}

// Field names as reported by Fields.Changed
const (
	FieldTitle        = "title"
	FieldCategory     = "category"
	FieldNotes        = "notes"
	FieldSource       = "source"
	FieldInstructions = "instructions"
)

// Recipe is a recipe authored in OriginalLanguage. TranslatedRecipe caches
// the translated Fields per language code.
type Recipe struct {
	ID               string
	Title            string
	OriginalLanguage string
	Instructions     []string
	Notes            string
	Source           string
	Category         string
	Public           bool
	ShareToken       string
	TranslatedRecipe map[string]Fields
	Ingredients      []RecipeIngredient
}

// Fields returns the source-language translatable fields
func (r Recipe) Fields() Fields {
	return Fields{
		Title:        r.Title,
		Category:     r.Category,
		Instructions: r.Instructions,
		Notes:        r.Notes,
		Source:       r.Source,
	}
}

// SetFields overwrites the source-language translatable fields
func (r *Recipe) SetFields(f Fields) {
	r.Title = f.Title
	r.Category = f.Category
	r.Instructions = f.Instructions
	r.Notes = f.Notes
	r.Source = f.Source
}
