package recipe

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"codeberg.org/snonux/recipetrans/internal/catalog"
	"codeberg.org/snonux/recipetrans/internal/lang"
	"codeberg.org/snonux/recipetrans/internal/store"
	"codeberg.org/snonux/recipetrans/internal/translation"
)

// Updater keeps cached translations current after a recipe edit by
// retranslating only the fields whose source value changed
type Updater struct {
	store  store.Store
	safe   *translation.Safe
	logger *zap.Logger
}

// NewUpdater creates an updater
func NewUpdater(st store.Store, svc translation.Service, logger *zap.Logger) *Updater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Updater{
		store:  st,
		safe:   translation.NewSafe(svc, logger),
		logger: logger,
	}
}

// OnRecipeContentChanged retranslates the changed fields for every cached
// language of the recipe. Errors are logged and never returned.
func (u *Updater) OnRecipeContentChanged(ctx context.Context, recipeID string, oldFields, newFields catalog.Fields) {
	changed := oldFields.Changed(newFields)
	if len(changed) == 0 {
		return
	}

	r, err := u.store.GetRecipe(ctx, recipeID)
	if err != nil {
		u.logger.Warn("failed to load recipe for cache update",
			zap.String("recipe_id", recipeID), zap.Error(err))
		return
	}
	source := sourceLanguage(&r)

	codes := make([]string, 0, len(r.TranslatedRecipe))
	for code := range r.TranslatedRecipe {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	for _, code := range codes {
		u.updateLanguage(ctx, recipeID, source, code, r.TranslatedRecipe[code], newFields, changed)
	}
}

func (u *Updater) updateLanguage(ctx context.Context, recipeID, source, code string, cached, newFields catalog.Fields, changed []string) {
	log := u.logger.With(zap.String("recipe_id", recipeID), zap.String("lang", code))

	if lang.Normalize(code) == source {
		u.drop(ctx, recipeID, code, log)
		return
	}

	fields := changed
	if cached.Instructions == nil {
		// A title-only entry stays title-only; the next detail view fills it
		if !slices.Contains(changed, catalog.FieldTitle) {
			return
		}
		fields = []string{catalog.FieldTitle}
	}

	updated, failed := translateFields(ctx, u.safe, cached, newFields, source, code, fields)
	updated.Pending = withPending(cached.Pending, fields, failed)
	if len(failed) > 0 {
		// Unchanged fields are kept; failed ones hold the source text
		// until the next detail view retranslates them
		log.Warn("retranslation failed, marking fields pending", zap.Strings("fields", failed))
	}
	if err := u.store.SetRecipeTranslation(ctx, recipeID, code, updated); err != nil {
		log.Warn("failed to store retranslated fields", zap.Error(err))
		return
	}
	log.Debug("retranslated changed fields", zap.Strings("fields", fields))
}

// drop removes the slot of the recipe's own language
func (u *Updater) drop(ctx context.Context, recipeID, code string, log *zap.Logger) {
	if err := u.store.DeleteRecipeTranslation(ctx, recipeID, code); err != nil {
		log.Warn("failed to drop cached language", zap.Error(err))
	}
}
