package store

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"codeberg.org/snonux/recipetrans/internal/catalog"
)

// Memory is an in-process Store. Records are copied on the way in and out
// so callers never share maps or slices with the store.
type Memory struct {
	mu          sync.RWMutex
	ingredients map[string]catalog.Ingredient
	order       []string
	recipes     map[string]catalog.Recipe
	uses        map[string]catalog.RecipeIngredient
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		ingredients: make(map[string]catalog.Ingredient),
		recipes:     make(map[string]catalog.Recipe),
		uses:        make(map[string]catalog.RecipeIngredient),
	}
}

// ListIngredients returns all ingredients in insertion order
func (m *Memory) ListIngredients(ctx context.Context) ([]catalog.Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]catalog.Ingredient, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, copyIngredient(m.ingredients[id]))
	}
	return out, nil
}

// GetIngredient returns one ingredient
func (m *Memory) GetIngredient(ctx context.Context, id string) (catalog.Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ing, ok := m.ingredients[id]
	if !ok {
		return catalog.Ingredient{}, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}
	return copyIngredient(ing), nil
}

// InsertIngredient adds a new ingredient
func (m *Memory) InsertIngredient(ctx context.Context, ing catalog.Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.ingredients[ing.ID]; exists {
		return fmt.Errorf("ingredient %s already exists", ing.ID)
	}
	m.ingredients[ing.ID] = copyIngredient(ing)
	m.order = append(m.order, ing.ID)
	return nil
}

// SetIngredientNames writes one language slot of an ingredient's translated names
func (m *Memory) SetIngredientNames(ctx context.Context, id, lang string, names catalog.NamePair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ing, ok := m.ingredients[id]
	if !ok {
		return fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}
	if ing.TranslatedNames == nil {
		ing.TranslatedNames = make(map[string]catalog.NamePair)
	}
	ing.TranslatedNames[lang] = names
	m.ingredients[id] = ing
	return nil
}

// GetRecipe returns a recipe with its ingredients ordered by OrderIndex
func (m *Memory) GetRecipe(ctx context.Context, id string) (catalog.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.recipes[id]
	if !ok {
		return catalog.Recipe{}, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	return m.withIngredients(r), nil
}

// GetRecipeByShareToken returns the recipe carrying the share token
func (m *Memory) GetRecipeByShareToken(ctx context.Context, token string) (catalog.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if token == "" {
		return catalog.Recipe{}, fmt.Errorf("empty share token: %w", ErrNotFound)
	}
	for _, r := range m.recipes {
		if r.ShareToken == token {
			return m.withIngredients(r), nil
		}
	}
	return catalog.Recipe{}, fmt.Errorf("share token %s: %w", token, ErrNotFound)
}

// ListRecipes returns all recipes ordered by title
func (m *Memory) ListRecipes(ctx context.Context) ([]catalog.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]catalog.Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		out = append(out, m.withIngredients(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title == out[j].Title {
			return out[i].ID < out[j].ID
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// SaveRecipe inserts or updates the source fields of a recipe
func (m *Memory) SaveRecipe(ctx context.Context, r catalog.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := copyRecipe(r)
	stored.Ingredients = nil
	if existing, ok := m.recipes[r.ID]; ok {
		stored.TranslatedRecipe = existing.TranslatedRecipe
	} else {
		stored.TranslatedRecipe = make(map[string]catalog.Fields)
	}
	m.recipes[r.ID] = stored
	return nil
}

// SetRecipeTranslation writes one language slot of a recipe's translation cache
func (m *Memory) SetRecipeTranslation(ctx context.Context, recipeID, lang string, fields catalog.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recipes[recipeID]
	if !ok {
		return fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
	}
	r.TranslatedRecipe[lang] = fields.Clone()
	return nil
}

// SetRecipeTranslatedTitle writes only the title of one language slot
func (m *Memory) SetRecipeTranslatedTitle(ctx context.Context, recipeID, lang, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recipes[recipeID]
	if !ok {
		return fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
	}
	entry := r.TranslatedRecipe[lang]
	entry.Title = title
	r.TranslatedRecipe[lang] = entry
	return nil
}

// DeleteRecipeTranslation drops one language slot
func (m *Memory) DeleteRecipeTranslation(ctx context.Context, recipeID, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recipes[recipeID]
	if !ok {
		return fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
	}
	delete(r.TranslatedRecipe, lang)
	return nil
}

// DeleteRecipe removes a recipe and its ingredient rows
func (m *Memory) DeleteRecipe(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recipes[id]; !ok {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	delete(m.recipes, id)
	for useID, use := range m.uses {
		if use.RecipeID == id {
			delete(m.uses, useID)
		}
	}
	return nil
}

// ReplaceRecipeIngredients deletes the recipe's ingredient rows and inserts items
func (m *Memory) ReplaceRecipeIngredients(ctx context.Context, recipeID string, items []catalog.RecipeIngredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recipes[recipeID]; !ok {
		return fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
	}
	for _, item := range items {
		if _, ok := m.ingredients[item.IngredientID]; !ok {
			return fmt.Errorf("ingredient %s: %w", item.IngredientID, ErrNotFound)
		}
	}

	for id, use := range m.uses {
		if use.RecipeID == recipeID {
			delete(m.uses, id)
		}
	}
	for _, item := range items {
		item.RecipeID = recipeID
		m.uses[item.ID] = copyUse(item)
	}
	return nil
}

// GetRecipeIngredient returns one recipe ingredient row
func (m *Memory) GetRecipeIngredient(ctx context.Context, id string) (catalog.RecipeIngredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	use, ok := m.uses[id]
	if !ok {
		return catalog.RecipeIngredient{}, fmt.Errorf("recipe ingredient %s: %w", id, ErrNotFound)
	}
	return copyUse(use), nil
}

// SetTranslatedNotes writes one language slot of a recipe ingredient's notes cache
func (m *Memory) SetTranslatedNotes(ctx context.Context, recipeIngredientID, lang, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	use, ok := m.uses[recipeIngredientID]
	if !ok {
		return fmt.Errorf("recipe ingredient %s: %w", recipeIngredientID, ErrNotFound)
	}
	if use.TranslatedNotes == nil {
		use.TranslatedNotes = make(map[string]string)
	}
	use.TranslatedNotes[lang] = notes
	m.uses[recipeIngredientID] = use
	return nil
}

// SetNameOverride sets or, with an empty name, removes a display-name override
func (m *Memory) SetNameOverride(ctx context.Context, recipeIngredientID, lang, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	use, ok := m.uses[recipeIngredientID]
	if !ok {
		return fmt.Errorf("recipe ingredient %s: %w", recipeIngredientID, ErrNotFound)
	}
	if use.NameOverrides == nil {
		use.NameOverrides = make(map[string]string)
	}
	if name == "" {
		delete(use.NameOverrides, lang)
	} else {
		use.NameOverrides[lang] = name
	}
	m.uses[recipeIngredientID] = use
	return nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}

func (m *Memory) withIngredients(r catalog.Recipe) catalog.Recipe {
	out := copyRecipe(r)
	out.Ingredients = nil
	for _, use := range m.uses {
		if use.RecipeID == r.ID {
			out.Ingredients = append(out.Ingredients, copyUse(use))
		}
	}
	sort.Slice(out.Ingredients, func(i, j int) bool {
		return out.Ingredients[i].OrderIndex < out.Ingredients[j].OrderIndex
	})
	return out
}

func copyIngredient(ing catalog.Ingredient) catalog.Ingredient {
	ing.TranslatedNames = maps.Clone(ing.TranslatedNames)
	if ing.TranslatedNames == nil {
		ing.TranslatedNames = make(map[string]catalog.NamePair)
	}
	return ing
}

func copyRecipe(r catalog.Recipe) catalog.Recipe {
	r.Instructions = append([]string(nil), r.Instructions...)
	translated := make(map[string]catalog.Fields, len(r.TranslatedRecipe))
	for lang, fields := range r.TranslatedRecipe {
		translated[lang] = fields.Clone()
	}
	r.TranslatedRecipe = translated
	return r
}

func copyUse(use catalog.RecipeIngredient) catalog.RecipeIngredient {
	use.NameOverrides = maps.Clone(use.NameOverrides)
	if use.NameOverrides == nil {
		use.NameOverrides = make(map[string]string)
	}
	use.TranslatedNotes = maps.Clone(use.TranslatedNotes)
	if use.TranslatedNotes == nil {
		use.TranslatedNotes = make(map[string]string)
	}
	return use
}
