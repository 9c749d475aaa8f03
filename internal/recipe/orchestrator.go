package recipe

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/recipetrans/internal/catalog"
	"codeberg.org/snonux/recipetrans/internal/display"
	"codeberg.org/snonux/recipetrans/internal/lang"
	"codeberg.org/snonux/recipetrans/internal/store"
	"codeberg.org/snonux/recipetrans/internal/translation"
)

// DefaultIngredientConcurrency bounds the ingredients rendered in parallel
const DefaultIngredientConcurrency = 4

// Orchestrator renders recipes in a target language. Every translated
// fragment is persisted to its cache slot so later views are served
// without calling the translator. It never fails: translation and cache
// write errors are logged and the source text is used instead.
type Orchestrator struct {
	store  store.Store
	safe   *translation.Safe
	cases  lang.CaseRules
	logger *zap.Logger
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(st store.Store, svc translation.Service, cases lang.CaseRules, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:  st,
		safe:   translation.NewSafe(svc, logger),
		cases:  cases,
		logger: logger,
	}
}

// TranslatedRecipe renders r in target. Cache maps of r and its
// ingredient rows are updated in place as slots get filled.
func (o *Orchestrator) TranslatedRecipe(ctx context.Context, r *catalog.Recipe, target string) View {
	source := sourceLanguage(r)
	target = normalizeTarget(target, source)

	view := View{
		RecipeID:       r.ID,
		Language:       target,
		SourceLanguage: source,
		Ingredients:    make([]IngredientView, len(r.Ingredients)),
	}

	var degraded [2]bool
	degradedIngredients := make([]bool, len(r.Ingredients))

	var g errgroup.Group
	g.Go(func() error {
		view.Fields, degraded[0] = o.recipeFields(ctx, r, source, target)
		return nil
	})

	var ig errgroup.Group
	ig.SetLimit(DefaultIngredientConcurrency)
	for i := range r.Ingredients {
		use := &r.Ingredients[i]
		ig.Go(func() error {
			view.Ingredients[i], degradedIngredients[i] = o.ingredientView(ctx, use, source, target)
			return nil
		})
	}
	g.Go(func() error {
		return ig.Wait()
	})
	_ = g.Wait()

	for _, d := range degradedIngredients {
		degraded[1] = degraded[1] || d
	}
	view.Degraded = degraded[0] || degraded[1]
	return view
}

// TranslatedTitle returns only the title in target, filling just the
// title of the cache slot
func (o *Orchestrator) TranslatedTitle(ctx context.Context, r *catalog.Recipe, target string) string {
	source := sourceLanguage(r)
	target = normalizeTarget(target, source)

	if target == source {
		return r.Title
	}
	cached, ok := r.TranslatedRecipe[target]
	if ok && cached.Title != "" && !cached.IsPending(catalog.FieldTitle) {
		return cached.Title
	}

	title, ok := o.safe.Text(ctx, r.Title, target, source)
	if !ok || strings.TrimSpace(r.Title) == "" {
		return title
	}

	entry := cached.Clone()
	entry.Title = title
	var err error
	if entry.IsPending(catalog.FieldTitle) {
		entry.Pending = withPending(entry.Pending, []string{catalog.FieldTitle}, nil)
		err = o.store.SetRecipeTranslation(ctx, r.ID, target, entry)
	} else {
		err = o.store.SetRecipeTranslatedTitle(ctx, r.ID, target, title)
	}
	if err != nil {
		o.logger.Warn("failed to cache translated title",
			zap.String("recipe_id", r.ID), zap.String("lang", target), zap.Error(err))
	}
	if r.TranslatedRecipe == nil {
		r.TranslatedRecipe = make(map[string]catalog.Fields)
	}
	r.TranslatedRecipe[target] = entry
	return title
}

// IngredientName returns the display name of one recipe ingredient in target
func (o *Orchestrator) IngredientName(ctx context.Context, use catalog.RecipeIngredient, source, target string) string {
	source = lang.Normalize(source)
	name, _ := o.ingredientName(ctx, use, source, normalizeTarget(target, source))
	return name
}

// IngredientNotes returns the notes of one recipe ingredient in target,
// caching the translation on the row
func (o *Orchestrator) IngredientNotes(ctx context.Context, use *catalog.RecipeIngredient, source, target string) string {
	source = lang.Normalize(source)
	notes, _ := o.ingredientNotes(ctx, use, source, normalizeTarget(target, source))
	return notes
}

// recipeFields returns the translatable fields in target. The boolean
// reports a degraded result.
func (o *Orchestrator) recipeFields(ctx context.Context, r *catalog.Recipe, source, target string) (catalog.Fields, bool) {
	if target == source {
		fields := r.Fields().Clone()
		fields.Instructions = Punctuate(fields.Instructions)
		return fields, false
	}

	base, names := catalog.Fields{}, allFields
	if cached, ok := r.TranslatedRecipe[target]; ok {
		if cached.Complete() {
			return cached.Clone(), false
		}
		if cached.Instructions != nil {
			// Only the fields whose retranslation failed on edit
			base, names = cached, cached.Pending
		}
	}

	fields, failed := translateFields(ctx, o.safe, base, r.Fields(), source, target, names)
	fields.Pending = nil
	if len(failed) > 0 {
		// Partial results are shown but never cached
		o.logger.Warn("recipe translation incomplete, not caching",
			zap.String("recipe_id", r.ID), zap.String("lang", target), zap.Strings("fields", failed))
		return fields, true
	}

	if err := o.store.SetRecipeTranslation(ctx, r.ID, target, fields); err != nil {
		o.logger.Warn("failed to cache recipe translation",
			zap.String("recipe_id", r.ID), zap.String("lang", target), zap.Error(err))
	}
	if r.TranslatedRecipe == nil {
		r.TranslatedRecipe = make(map[string]catalog.Fields)
	}
	r.TranslatedRecipe[target] = fields.Clone()
	return fields, false
}

func (o *Orchestrator) ingredientView(ctx context.Context, use *catalog.RecipeIngredient, source, target string) (IngredientView, bool) {
	name, nameOK := o.ingredientName(ctx, *use, source, target)
	notes, notesOK := o.ingredientNotes(ctx, use, source, target)

	return IngredientView{
		ID:           use.ID,
		IngredientID: use.IngredientID,
		Name:         name,
		Quantity:     use.Quantity,
		Unit:         use.Unit,
		Notes:        notes,
		Subheading:   use.Subheading,
		IsPlural:     use.IsPlural,
	}, !nameOK || !notesOK
}

// ingredientName applies override, same-language, cached and translated
// names in that order. The boolean is false when the result is degraded.
func (o *Orchestrator) ingredientName(ctx context.Context, use catalog.RecipeIngredient, source, target string) (string, bool) {
	if override := strings.TrimSpace(use.NameOverrides[target]); override != "" {
		return override, true
	}

	ing, err := o.store.GetIngredient(ctx, use.IngredientID)
	if err != nil {
		o.logger.Warn("failed to load ingredient",
			zap.String("ingredient_id", use.IngredientID), zap.Error(err))
		return "", false
	}

	if target == source {
		if stored, ok := ing.Names(source); ok {
			return display.Name(display.Input{Stored: stored, IsPlural: use.IsPlural}), true
		}
	}
	if translated, ok := ing.Names(target); ok {
		return display.Name(display.Input{Translated: translated, IsPlural: use.IsPlural}), true
	}

	// Translate from the source-language names, or from English if the
	// ingredient has none in the source language
	from, fromLang := ing.Canonical(), lang.English
	if pair, ok := ing.Names(source); ok {
		from, fromLang = pair, source
	}

	out, ok := o.safe.Batch(ctx, []string{from.Singular, from.Plural}, target, fromLang)
	if !ok {
		return display.Name(display.Input{Stored: from, IsPlural: use.IsPlural}), false
	}

	translated := catalog.NamePair{
		Singular: o.cases.Fold(target, out[0]),
		Plural:   o.cases.Fold(target, out[1]),
	}
	if err := o.store.SetIngredientNames(ctx, ing.ID, target, translated); err != nil {
		o.logger.Warn("failed to cache ingredient names",
			zap.String("ingredient_id", ing.ID), zap.String("lang", target), zap.Error(err))
	}
	return display.Name(display.Input{Translated: translated, Stored: from, IsPlural: use.IsPlural}), true
}

func (o *Orchestrator) ingredientNotes(ctx context.Context, use *catalog.RecipeIngredient, source, target string) (string, bool) {
	if strings.TrimSpace(use.Notes) == "" || target == source {
		return use.Notes, true
	}
	if cached, ok := use.TranslatedNotes[target]; ok && cached != "" {
		return cached, true
	}

	notes, ok := o.safe.Text(ctx, use.Notes, target, source)
	if !ok {
		return notes, false
	}

	if err := o.store.SetTranslatedNotes(ctx, use.ID, target, notes); err != nil {
		o.logger.Warn("failed to cache ingredient notes",
			zap.String("recipe_ingredient_id", use.ID), zap.String("lang", target), zap.Error(err))
	}
	if use.TranslatedNotes == nil {
		use.TranslatedNotes = make(map[string]string)
	}
	use.TranslatedNotes[target] = notes
	return notes, true
}

func sourceLanguage(r *catalog.Recipe) string {
	if code := lang.Normalize(r.OriginalLanguage); code != "" {
		return code
	}
	return lang.English
}

func normalizeTarget(target, source string) string {
	if code := lang.Normalize(target); code != "" {
		return code
	}
	return source
}
