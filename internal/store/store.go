// Package store persists ingredients, recipes and recipe ingredients along
// with their per-language cache maps. Two implementations exist: SQLite for
// real use and Memory for tests and throwaway runs.
package store

import (
	"context"
	"errors"

	"codeberg.org/snonux/recipetrans/internal/catalog"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// Store is the data store used by the resolver and the translation cache.
// Cache writes are per slot and unlocked: concurrent writers of the same
// slot race and the last write wins.
type Store interface {
	// Ingredients
	ListIngredients(ctx context.Context) ([]catalog.Ingredient, error)
	GetIngredient(ctx context.Context, id string) (catalog.Ingredient, error)
	InsertIngredient(ctx context.Context, ing catalog.Ingredient) error
	SetIngredientNames(ctx context.Context, id, lang string, names catalog.NamePair) error

	// Recipes
	GetRecipe(ctx context.Context, id string) (catalog.Recipe, error)
	GetRecipeByShareToken(ctx context.Context, token string) (catalog.Recipe, error)
	ListRecipes(ctx context.Context) ([]catalog.Recipe, error)
	// SaveRecipe inserts or updates the source fields of a recipe. The
	// translation cache and the ingredient list are left untouched.
	SaveRecipe(ctx context.Context, r catalog.Recipe) error
	// DeleteRecipe removes a recipe together with its ingredient rows
	DeleteRecipe(ctx context.Context, id string) error
	SetRecipeTranslation(ctx context.Context, recipeID, lang string, fields catalog.Fields) error
	SetRecipeTranslatedTitle(ctx context.Context, recipeID, lang, title string) error
	DeleteRecipeTranslation(ctx context.Context, recipeID, lang string) error

	// Recipe ingredients
	ReplaceRecipeIngredients(ctx context.Context, recipeID string, items []catalog.RecipeIngredient) error
	GetRecipeIngredient(ctx context.Context, id string) (catalog.RecipeIngredient, error)
	SetTranslatedNotes(ctx context.Context, recipeIngredientID, lang, notes string) error
	SetNameOverride(ctx context.Context, recipeIngredientID, lang, name string) error

	Close() error
}
