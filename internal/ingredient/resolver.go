package ingredient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"codeberg.org/snonux/recipetrans/internal/catalog"
	"codeberg.org/snonux/recipetrans/internal/lang"
	"codeberg.org/snonux/recipetrans/internal/plural"
	"codeberg.org/snonux/recipetrans/internal/store"
	"codeberg.org/snonux/recipetrans/internal/translation"
)

// ErrEmptyName is returned when the name is blank
var ErrEmptyName = errors.New("ingredient name is empty")

// Resolver maps free-text names to canonical ingredient ids
type Resolver struct {
	store      store.Store
	translator translation.Service
	rules      *plural.Rules
	logger     *zap.Logger

	// inflight collapses concurrent resolutions of the same name so they
	// cannot both create an ingredient
	inflight singleflight.Group
}

// NewResolver creates a resolver. A nil rules set uses plural.NewRules.
func NewResolver(st store.Store, translator translation.Service, rules *plural.Rules, logger *zap.Logger) *Resolver {
	if rules == nil {
		rules = plural.NewRules()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:      st,
		translator: translator,
		rules:      rules,
		logger:     logger,
	}
}

// Resolve returns the id of the canonical ingredient for name typed in
// language code. Only store errors are returned; translation failures
// degrade to using the raw input.
func (r *Resolver) Resolve(ctx context.Context, name, code string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	code = lang.Normalize(code)
	if code == "" {
		code = lang.English
	}

	key := code + "\x00" + lang.Lower(code, name)
	id, err, _ := r.inflight.Do(key, func() (any, error) {
		return r.resolve(ctx, name, code)
	})
	if err != nil {
		return "", err
	}
	return id.(string), nil
}

// ResolveAll resolves names in order and stops at the first error
func (r *Resolver) ResolveAll(ctx context.Context, names []string, code string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, err := r.Resolve(ctx, name, code)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Resolver) resolve(ctx context.Context, name, code string) (string, error) {
	ingredients, err := r.store.ListIngredients(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list ingredients: %w", err)
	}

	needle := lang.Lower(code, name)
	english := lang.Lower(lang.English, name)

	if code == lang.English {
		if ing, ok := findEnglish(ingredients, english); ok {
			r.logger.Debug("matched canonical name", zap.String("name", name), zap.String("id", ing.ID))
			return ing.ID, nil
		}
		return r.create(ctx, ingredients, name, code, name)
	}

	if ing, ok := findTranslated(ingredients, code, needle); ok {
		r.logger.Debug("matched translated name",
			zap.String("name", name), zap.String("lang", code), zap.String("id", ing.ID))
		return ing.ID, nil
	}

	// The author may have typed the English term in a foreign-language UI
	if ing, ok := findEnglish(ingredients, english); ok {
		return r.adopt(ctx, ing, name, code)
	}

	translated, err := r.translator.Translate(ctx, name, lang.English, code)
	if err != nil || strings.TrimSpace(translated) == "" {
		r.logger.Warn("translation to English failed, using raw input as canonical name",
			zap.String("name", name), zap.String("lang", code), zap.Error(err))
		translated = name
	} else if ing, ok := findEnglish(ingredients, lang.Lower(lang.English, strings.TrimSpace(translated))); ok {
		return r.adopt(ctx, ing, name, code)
	}

	return r.create(ctx, ingredients, name, code, translated)
}

// adopt records name as the translation of an existing ingredient unless
// the language already has an entry
func (r *Resolver) adopt(ctx context.Context, ing catalog.Ingredient, name, code string) (string, error) {
	if _, ok := ing.Names(code); ok {
		return ing.ID, nil
	}

	names := r.seedNames(name, code)
	if err := r.store.SetIngredientNames(ctx, ing.ID, code, names); err != nil {
		return "", fmt.Errorf("failed to add %s name to ingredient %s: %w", code, ing.ID, err)
	}

	r.logger.Info("added translated name to ingredient",
		zap.String("id", ing.ID), zap.String("lang", code), zap.String("name", names.Singular))
	return ing.ID, nil
}

// create inserts a new canonical ingredient derived from englishName.
// A singular form that already exists is reused instead.
func (r *Resolver) create(ctx context.Context, existing []catalog.Ingredient, name, code, englishName string) (string, error) {
	singular, pluralForm := plural.Canonical(englishName)
	if ing, ok := findEnglish(existing, singular); ok {
		if code == lang.English {
			return ing.ID, nil
		}
		return r.adopt(ctx, ing, name, code)
	}

	ing := catalog.Ingredient{
		ID:              uuid.NewString(),
		SingularName:    singular,
		PluralName:      pluralForm,
		TranslatedNames: make(map[string]catalog.NamePair),
	}
	if code != lang.English {
		ing.TranslatedNames[code] = r.seedNames(name, code)
	}

	if err := r.store.InsertIngredient(ctx, ing); err != nil {
		return "", fmt.Errorf("failed to create ingredient %q: %w", singular, err)
	}

	r.logger.Info("created ingredient",
		zap.String("id", ing.ID),
		zap.String("singular", singular),
		zap.String("plural", pluralForm),
		zap.String("lang", code),
	)
	return ing.ID, nil
}

// seedNames uses the original input as singular and the language's plural rule
func (r *Resolver) seedNames(name, code string) catalog.NamePair {
	return catalog.NamePair{
		Singular: name,
		Plural:   r.rules.For(code).Plural(name),
	}
}

func findEnglish(ingredients []catalog.Ingredient, needle string) (catalog.Ingredient, bool) {
	for _, ing := range ingredients {
		if matches(ing.Canonical(), lang.English, needle) {
			return ing, true
		}
	}
	return catalog.Ingredient{}, false
}

func findTranslated(ingredients []catalog.Ingredient, code, needle string) (catalog.Ingredient, bool) {
	for _, ing := range ingredients {
		pair, ok := ing.TranslatedNames[code]
		if ok && matches(pair, code, needle) {
			return ing, true
		}
	}
	return catalog.Ingredient{}, false
}

func matches(pair catalog.NamePair, code, needle string) bool {
	for _, form := range []string{pair.Singular, pair.Plural} {
		if form = strings.TrimSpace(form); form != "" && lang.Lower(code, form) == needle {
			return true
		}
	}
	return false
}
