package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/recipetrans/internal/catalog"
)

type storeFactory func(t *testing.T) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) Store {
			return NewMemory()
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "recipes.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func seedRecipe(t *testing.T, s Store) catalog.Recipe {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.InsertIngredient(ctx, catalog.Ingredient{ID: "ing-flour", SingularName: "flour", PluralName: "flours"}))
	require.NoError(t, s.InsertIngredient(ctx, catalog.Ingredient{ID: "ing-egg", SingularName: "egg", PluralName: "eggs"}))

	r := catalog.Recipe{
		ID:               "rec-1",
		Title:            "Pancakes",
		OriginalLanguage: "en",
		Instructions:     []string{"Mix", "Fry"},
		Notes:            "Serve warm",
		Source:           "grandma",
		Category:         "breakfast",
		Public:           true,
		ShareToken:       "tok-1",
	}
	require.NoError(t, s.SaveRecipe(ctx, r))
	require.NoError(t, s.ReplaceRecipeIngredients(ctx, r.ID, []catalog.RecipeIngredient{
		{ID: "ri-2", IngredientID: "ing-egg", Quantity: "2", OrderIndex: 1, IsPlural: true},
		{ID: "ri-1", IngredientID: "ing-flour", Quantity: "200", Unit: "g", Notes: "sifted", OrderIndex: 0},
	}))
	return r
}

func TestIngredients(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			require.NoError(t, s.InsertIngredient(ctx, catalog.Ingredient{ID: "a", SingularName: "tomato", PluralName: "tomatoes"}))
			require.NoError(t, s.InsertIngredient(ctx, catalog.Ingredient{ID: "b", SingularName: "salt", PluralName: "salts"}))
			assert.Error(t, s.InsertIngredient(ctx, catalog.Ingredient{ID: "a", SingularName: "dup", PluralName: "dups"}))

			require.NoError(t, s.SetIngredientNames(ctx, "a", "de", catalog.NamePair{Singular: "Tomate", Plural: "Tomaten"}))
			require.NoError(t, s.SetIngredientNames(ctx, "a", "fr", catalog.NamePair{Singular: "tomate", Plural: "tomates"}))

			ing, err := s.GetIngredient(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "tomato", ing.SingularName)
			assert.Equal(t, catalog.NamePair{Singular: "Tomate", Plural: "Tomaten"}, ing.TranslatedNames["de"])
			assert.Len(t, ing.TranslatedNames, 2)

			all, err := s.ListIngredients(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "a", all[0].ID)
			assert.Equal(t, "b", all[1].ID)
			assert.NotNil(t, all[1].TranslatedNames)

			_, err = s.GetIngredient(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.SetIngredientNames(ctx, "missing", "de", catalog.NamePair{}), ErrNotFound)
		})
	}
}

func TestRecipeRoundTrip(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			seedRecipe(t, s)

			r, err := s.GetRecipe(ctx, "rec-1")
			require.NoError(t, err)
			assert.Equal(t, "Pancakes", r.Title)
			assert.Equal(t, []string{"Mix", "Fry"}, r.Instructions)
			assert.True(t, r.Public)
			assert.Empty(t, r.TranslatedRecipe)

			require.Len(t, r.Ingredients, 2)
			assert.Equal(t, "ri-1", r.Ingredients[0].ID, "ingredients are ordered by OrderIndex")
			assert.Equal(t, "rec-1", r.Ingredients[0].RecipeID)
			assert.Equal(t, "sifted", r.Ingredients[0].Notes)
			assert.True(t, r.Ingredients[1].IsPlural)

			shared, err := s.GetRecipeByShareToken(ctx, "tok-1")
			require.NoError(t, err)
			assert.Equal(t, "rec-1", shared.ID)

			_, err = s.GetRecipeByShareToken(ctx, "")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.GetRecipeByShareToken(ctx, "nope")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.GetRecipe(ctx, "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSaveRecipeKeepsTranslationCache(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			r := seedRecipe(t, s)

			fields := catalog.Fields{Title: "Crêpes", Instructions: []string{"Mélanger.", "Frire."}}
			require.NoError(t, s.SetRecipeTranslation(ctx, r.ID, "fr", fields))

			r.Title = "Thin pancakes"
			r.Instructions = []string{"Mix well"}
			require.NoError(t, s.SaveRecipe(ctx, r))

			got, err := s.GetRecipe(ctx, r.ID)
			require.NoError(t, err)
			assert.Equal(t, "Thin pancakes", got.Title)
			assert.Equal(t, []string{"Mix well"}, got.Instructions)
			assert.Equal(t, fields, got.TranslatedRecipe["fr"])
			assert.Len(t, got.Ingredients, 2, "saving source fields must not touch ingredients")
		})
	}
}

func TestTranslationSlots(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			r := seedRecipe(t, s)

			require.NoError(t, s.SetRecipeTranslatedTitle(ctx, r.ID, "de", "Pfannkuchen"))
			got, err := s.GetRecipe(ctx, r.ID)
			require.NoError(t, err)
			assert.Equal(t, "Pfannkuchen", got.TranslatedRecipe["de"].Title)
			assert.False(t, got.TranslatedRecipe["de"].Complete(), "title-only entry is incomplete")

			full := catalog.Fields{Title: "Pfannkuchen", Category: "Frühstück", Instructions: []string{"Mischen."}}
			require.NoError(t, s.SetRecipeTranslation(ctx, r.ID, "de", full))
			require.NoError(t, s.SetRecipeTranslatedTitle(ctx, r.ID, "de", "Eierkuchen"))

			got, err = s.GetRecipe(ctx, r.ID)
			require.NoError(t, err)
			assert.Equal(t, "Eierkuchen", got.TranslatedRecipe["de"].Title)
			assert.Equal(t, []string{"Mischen."}, got.TranslatedRecipe["de"].Instructions, "title write keeps other fields")

			require.NoError(t, s.SetRecipeTranslation(ctx, r.ID, "it", catalog.Fields{Title: "Frittelle", Instructions: []string{}}))
			require.NoError(t, s.DeleteRecipeTranslation(ctx, r.ID, "de"))

			got, err = s.GetRecipe(ctx, r.ID)
			require.NoError(t, err)
			_, ok := got.TranslatedRecipe["de"]
			assert.False(t, ok)
			assert.True(t, got.TranslatedRecipe["it"].Complete())

			assert.ErrorIs(t, s.SetRecipeTranslation(ctx, "nope", "de", full), ErrNotFound)
			assert.ErrorIs(t, s.DeleteRecipeTranslation(ctx, "nope", "de"), ErrNotFound)
		})
	}
}

func TestRecipeIngredientSlots(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			seedRecipe(t, s)

			require.NoError(t, s.SetTranslatedNotes(ctx, "ri-1", "de", "gesiebt"))
			require.NoError(t, s.SetNameOverride(ctx, "ri-1", "de", "Dinkelmehl"))

			use, err := s.GetRecipeIngredient(ctx, "ri-1")
			require.NoError(t, err)
			assert.Equal(t, "gesiebt", use.TranslatedNotes["de"])
			assert.Equal(t, "Dinkelmehl", use.NameOverrides["de"])

			require.NoError(t, s.SetNameOverride(ctx, "ri-1", "de", ""))
			use, err = s.GetRecipeIngredient(ctx, "ri-1")
			require.NoError(t, err)
			_, ok := use.NameOverrides["de"]
			assert.False(t, ok, "empty override removes the entry")

			_, err = s.GetRecipeIngredient(ctx, "nope")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.SetTranslatedNotes(ctx, "nope", "de", "x"), ErrNotFound)
		})
	}
}

func TestReplaceRecipeIngredients(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			r := seedRecipe(t, s)

			require.NoError(t, s.ReplaceRecipeIngredients(ctx, r.ID, []catalog.RecipeIngredient{
				{ID: "ri-3", IngredientID: "ing-egg", Quantity: "3", IsPlural: true},
			}))

			got, err := s.GetRecipe(ctx, r.ID)
			require.NoError(t, err)
			require.Len(t, got.Ingredients, 1)
			assert.Equal(t, "ri-3", got.Ingredients[0].ID)

			_, err = s.GetRecipeIngredient(ctx, "ri-1")
			assert.ErrorIs(t, err, ErrNotFound)

			err = s.ReplaceRecipeIngredients(ctx, "nope", nil)
			assert.ErrorIs(t, err, ErrNotFound)

			err = s.ReplaceRecipeIngredients(ctx, r.ID, []catalog.RecipeIngredient{{ID: "ri-4", IngredientID: "ghost"}})
			assert.Error(t, err)
		})
	}
}

func TestDeleteRecipe(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			r := seedRecipe(t, s)

			require.NoError(t, s.DeleteRecipe(ctx, r.ID))

			_, err := s.GetRecipe(ctx, r.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.GetRecipeIngredient(ctx, "ri-1")
			assert.ErrorIs(t, err, ErrNotFound, "ingredient rows go with the recipe")
			assert.ErrorIs(t, s.DeleteRecipe(ctx, r.ID), ErrNotFound)

			_, err = s.GetIngredient(ctx, "ing-flour")
			assert.NoError(t, err, "canonical ingredients are kept")
		})
	}
}

func TestPendingFieldsRoundTrip(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			r := seedRecipe(t, s)

			fields := catalog.Fields{
				Title:        "Pfannkuchen",
				Instructions: []string{"Mischen."},
				Notes:        "Serve warm",
				Pending:      []string{catalog.FieldNotes},
			}
			require.NoError(t, s.SetRecipeTranslation(ctx, r.ID, "de", fields))

			got, err := s.GetRecipe(ctx, r.ID)
			require.NoError(t, err)
			assert.Equal(t, fields, got.TranslatedRecipe["de"])
			assert.False(t, got.TranslatedRecipe["de"].Complete())
		})
	}
}

func TestListRecipesSortedByTitle(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			for _, r := range []catalog.Recipe{
				{ID: "2", Title: "Waffles", OriginalLanguage: "en"},
				{ID: "1", Title: "Apple pie", OriginalLanguage: "en"},
			} {
				require.NoError(t, s.SaveRecipe(ctx, r))
			}

			recipes, err := s.ListRecipes(ctx)
			require.NoError(t, err)
			require.Len(t, recipes, 2)
			assert.Equal(t, "Apple pie", recipes[0].Title)
			assert.Equal(t, "Waffles", recipes[1].Title)
		})
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedRecipe(t, s)

	r, err := s.GetRecipe(ctx, "rec-1")
	require.NoError(t, err)
	r.Instructions[0] = "changed"
	r.Ingredients[0].NameOverrides["de"] = "leak"

	again, err := s.GetRecipe(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Mix", again.Instructions[0])
	assert.Empty(t, again.Ingredients[0].NameOverrides)
}

func TestSQLiteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	seedRecipe(t, s)
	require.NoError(t, s.SetRecipeTranslation(ctx, "rec-1", "de", catalog.Fields{Title: "Pfannkuchen", Instructions: []string{}}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	r, err := s.GetRecipe(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Pfannkuchen", r.TranslatedRecipe["de"].Title)
	assert.True(t, r.TranslatedRecipe["de"].Complete())
	assert.Len(t, r.Ingredients, 2)
}
