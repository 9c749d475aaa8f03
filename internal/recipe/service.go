package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"codeberg.org/snonux/recipetrans/internal/catalog"
	"codeberg.org/snonux/recipetrans/internal/ingredient"
	"codeberg.org/snonux/recipetrans/internal/lang"
	"codeberg.org/snonux/recipetrans/internal/store"
)

// ErrInvalidDraft is returned for drafts that cannot be saved
var ErrInvalidDraft = errors.New("invalid recipe draft")

// DraftIngredient is an ingredient line as typed by the author
type DraftIngredient struct {
	Name       string `yaml:"name"`
	Quantity   string `yaml:"quantity"`
	Unit       string `yaml:"unit"`
	Notes      string `yaml:"notes"`
	Subheading string `yaml:"subheading"`
	IsPlural   bool   `yaml:"plural"`
}

// Draft is a recipe as submitted by the author. An empty ID creates a
// new recipe.
type Draft struct {
	ID           string            `yaml:"id"`
	Language     string            `yaml:"language"`
	Title        string            `yaml:"title"`
	Category     string            `yaml:"category"`
	Instructions []string          `yaml:"instructions"`
	Notes        string            `yaml:"notes"`
	Source       string            `yaml:"source"`
	Public       bool              `yaml:"public"`
	Ingredients  []DraftIngredient `yaml:"ingredients"`
}

// Service is the authoring and viewing entry point
type Service struct {
	store        store.Store
	resolver     *ingredient.Resolver
	orchestrator *Orchestrator
	updater      *Updater
	logger       *zap.Logger
}

// NewService creates a recipe service
func NewService(st store.Store, resolver *ingredient.Resolver, orchestrator *Orchestrator, updater *Updater, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:        st,
		resolver:     resolver,
		orchestrator: orchestrator,
		updater:      updater,
		logger:       logger,
	}
}

// Save creates or updates a recipe. Ingredient names are resolved first
// and any store error fails the save. Ingredient rows are replaced
// wholesale. On update, cached translations of changed fields are
// refreshed as soon as the source fields are stored; failures there are
// logged only. A new recipe whose ingredient rows fail is removed again.
func (s *Service) Save(ctx context.Context, d Draft) (catalog.Recipe, error) {
	if strings.TrimSpace(d.Title) == "" {
		return catalog.Recipe{}, fmt.Errorf("%w: title is required", ErrInvalidDraft)
	}
	code := lang.Normalize(d.Language)
	if code == "" {
		code = lang.English
	}

	names := make([]string, len(d.Ingredients))
	for i, item := range d.Ingredients {
		names[i] = item.Name
	}
	ids, err := s.resolver.ResolveAll(ctx, names, code)
	if err != nil {
		return catalog.Recipe{}, fmt.Errorf("failed to resolve ingredients: %w", err)
	}

	r := catalog.Recipe{
		ID:               d.ID,
		Title:            strings.TrimSpace(d.Title),
		OriginalLanguage: code,
		Instructions:     d.Instructions,
		Notes:            d.Notes,
		Source:           strings.TrimSpace(d.Source),
		Category:         d.Category,
		Public:           d.Public,
	}

	var previous *catalog.Recipe
	if r.ID == "" {
		r.ID = uuid.NewString()
	} else {
		old, err := s.store.GetRecipe(ctx, r.ID)
		if err != nil {
			return catalog.Recipe{}, fmt.Errorf("failed to load recipe %s: %w", r.ID, err)
		}
		previous = &old
		r.ShareToken = old.ShareToken
	}
	if r.Public && r.ShareToken == "" {
		r.ShareToken = uuid.NewString()
	}

	if err := s.store.SaveRecipe(ctx, r); err != nil {
		return catalog.Recipe{}, fmt.Errorf("failed to save recipe: %w", err)
	}
	if previous != nil {
		// The new source fields are stored, so the caches follow them even
		// if the ingredient rows fail below
		s.refreshTranslations(ctx, *previous, r)
	}

	items := make([]catalog.RecipeIngredient, len(d.Ingredients))
	for i, item := range d.Ingredients {
		items[i] = catalog.RecipeIngredient{
			ID:           uuid.NewString(),
			RecipeID:     r.ID,
			IngredientID: ids[i],
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			Notes:        item.Notes,
			Subheading:   item.Subheading,
			OrderIndex:   i,
			IsPlural:     item.IsPlural,
		}
	}
	if err := s.store.ReplaceRecipeIngredients(ctx, r.ID, items); err != nil {
		if previous == nil {
			s.discard(ctx, r.ID)
		}
		return catalog.Recipe{}, fmt.Errorf("failed to save recipe ingredients: %w", err)
	}

	saved, err := s.store.GetRecipe(ctx, r.ID)
	if err != nil {
		return catalog.Recipe{}, fmt.Errorf("failed to reload recipe: %w", err)
	}
	s.logger.Info("saved recipe",
		zap.String("recipe_id", saved.ID),
		zap.String("lang", saved.OriginalLanguage),
		zap.Int("ingredients", len(saved.Ingredients)),
	)
	return saved, nil
}

// discard removes a new recipe whose ingredient rows could not be saved
func (s *Service) discard(ctx context.Context, recipeID string) {
	if err := s.store.DeleteRecipe(ctx, recipeID); err != nil {
		s.logger.Warn("failed to remove partially saved recipe",
			zap.String("recipe_id", recipeID), zap.Error(err))
	}
}

// refreshTranslations keeps cached languages current after an edit. A
// change of the original language invalidates every cached language.
func (s *Service) refreshTranslations(ctx context.Context, previous, current catalog.Recipe) {
	if lang.Normalize(previous.OriginalLanguage) != current.OriginalLanguage {
		for code := range previous.TranslatedRecipe {
			if err := s.store.DeleteRecipeTranslation(ctx, current.ID, code); err != nil {
				s.logger.Warn("failed to drop cached language",
					zap.String("recipe_id", current.ID), zap.String("lang", code), zap.Error(err))
			}
		}
		return
	}
	s.updater.OnRecipeContentChanged(ctx, current.ID, previous.Fields(), current.Fields())
}

// View renders a stored recipe in target
func (s *Service) View(ctx context.Context, recipeID, target string) (View, error) {
	r, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return View{}, fmt.Errorf("failed to load recipe %s: %w", recipeID, err)
	}
	return s.orchestrator.TranslatedRecipe(ctx, &r, target), nil
}

// Titles returns every recipe title in target
func (s *Service) Titles(ctx context.Context, target string) ([]TitleView, error) {
	recipes, err := s.store.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	titles := make([]TitleView, 0, len(recipes))
	for i := range recipes {
		titles = append(titles, TitleView{
			RecipeID: recipes[i].ID,
			Title:    s.orchestrator.TranslatedTitle(ctx, &recipes[i], target),
		})
	}
	return titles, nil
}

// SetNameOverride sets the recipe-specific name of an ingredient line in
// one language. A blank name removes the override.
func (s *Service) SetNameOverride(ctx context.Context, recipeIngredientID, code, name string) error {
	code = lang.Normalize(code)
	if code == "" {
		return fmt.Errorf("%w: language is required", ErrInvalidDraft)
	}
	if err := s.store.SetNameOverride(ctx, recipeIngredientID, code, strings.TrimSpace(name)); err != nil {
		return fmt.Errorf("failed to set name override: %w", err)
	}
	return nil
}

// SetTranslatedNotes replaces the cached notes translation of an
// ingredient line in one language
func (s *Service) SetTranslatedNotes(ctx context.Context, recipeIngredientID, code, notes string) error {
	code = lang.Normalize(code)
	if code == "" {
		return fmt.Errorf("%w: language is required", ErrInvalidDraft)
	}
	if err := s.store.SetTranslatedNotes(ctx, recipeIngredientID, code, notes); err != nil {
		return fmt.Errorf("failed to set translated notes: %w", err)
	}
	return nil
}

// EditTranslation replaces the cached translation of a recipe in one
// language with manually corrected fields
func (s *Service) EditTranslation(ctx context.Context, recipeID, code string, fields catalog.Fields) error {
	r, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("failed to load recipe %s: %w", recipeID, err)
	}

	code = lang.Normalize(code)
	if code == "" || code == sourceLanguage(&r) {
		return fmt.Errorf("%w: %q is not a translation language of recipe %s", ErrInvalidDraft, code, recipeID)
	}
	if fields.Instructions == nil {
		fields.Instructions = []string{}
	}
	fields.Pending = nil
	if err := s.store.SetRecipeTranslation(ctx, recipeID, code, fields); err != nil {
		return fmt.Errorf("failed to store translation: %w", err)
	}
	return nil
}
