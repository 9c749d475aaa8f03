package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/recipetrans/internal/catalog"
)

// SQLite stores the catalogue in a SQLite database. The per-language cache
// maps live in JSON text columns and are updated one key at a time.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database at path.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// createTables creates the schema if it does not exist yet
func (s *SQLite) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS ingredients (
			id text PRIMARY KEY,
			singular_name text NOT NULL,
			plural_name text NOT NULL,
			translated_names text NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS recipes (
			id text PRIMARY KEY,
			title text NOT NULL,
			original_language text NOT NULL,
			instructions text NOT NULL DEFAULT '[]',
			notes text NOT NULL DEFAULT '',
			source text NOT NULL DEFAULT '',
			category text NOT NULL DEFAULT '',
			public integer NOT NULL DEFAULT 0,
			share_token text NOT NULL DEFAULT '',
			translated_recipe text NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS recipe_ingredients (
			id text PRIMARY KEY,
			recipe_id text NOT NULL REFERENCES recipes (id) ON DELETE CASCADE,
			ingredient_id text NOT NULL REFERENCES ingredients (id),
			quantity text NOT NULL DEFAULT '',
			unit text NOT NULL DEFAULT '',
			notes text NOT NULL DEFAULT '',
			subheading text NOT NULL DEFAULT '',
			order_index integer NOT NULL DEFAULT 0,
			is_plural integer NOT NULL DEFAULT 0,
			name_overrides text NOT NULL DEFAULT '{}',
			translated_notes text NOT NULL DEFAULT '{}'
		)`,
		// Create indexes
		`CREATE INDEX IF NOT EXISTS ix_recipes_share_token ON recipes (share_token)`,
		`CREATE INDEX IF NOT EXISTS ix_recipe_ingredients_recipe ON recipe_ingredients (recipe_id, order_index)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ListIngredients returns all ingredients in insertion order
func (s *SQLite) ListIngredients(ctx context.Context) ([]catalog.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, singular_name, plural_name, translated_names FROM ingredients ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var out []catalog.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// GetIngredient returns one ingredient
func (s *SQLite) GetIngredient(ctx context.Context, id string) (catalog.Ingredient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, singular_name, plural_name, translated_names FROM ingredients WHERE id = ?`, id)
	ing, err := scanIngredient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Ingredient{}, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}
	return ing, err
}

// InsertIngredient adds a new ingredient
func (s *SQLite) InsertIngredient(ctx context.Context, ing catalog.Ingredient) error {
	names, err := marshalJSON(ing.TranslatedNames, "{}")
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ingredients (id, singular_name, plural_name, translated_names) VALUES (?, ?, ?, ?)`,
		ing.ID, ing.SingularName, ing.PluralName, names)
	if err != nil {
		return fmt.Errorf("failed to insert ingredient: %w", err)
	}
	return nil
}

// SetIngredientNames writes one language slot of an ingredient's translated names
func (s *SQLite) SetIngredientNames(ctx context.Context, id, lang string, names catalog.NamePair) error {
	return updateMap(ctx, s.db, "ingredients", "translated_names", id, func(m map[string]catalog.NamePair) {
		m[lang] = names
	})
}

const recipeColumns = `id, title, original_language, instructions, notes, source, category, public, share_token, translated_recipe`

// GetRecipe returns a recipe with its ingredients ordered by OrderIndex
func (s *SQLite) GetRecipe(ctx context.Context, id string) (catalog.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Recipe{}, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return catalog.Recipe{}, err
	}
	return s.withIngredients(ctx, r)
}

// GetRecipeByShareToken returns the recipe carrying the share token
func (s *SQLite) GetRecipeByShareToken(ctx context.Context, token string) (catalog.Recipe, error) {
	if token == "" {
		return catalog.Recipe{}, fmt.Errorf("empty share token: %w", ErrNotFound)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE share_token = ?`, token)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Recipe{}, fmt.Errorf("share token %s: %w", token, ErrNotFound)
	}
	if err != nil {
		return catalog.Recipe{}, err
	}
	return s.withIngredients(ctx, r)
}

// ListRecipes returns all recipes ordered by title
func (s *SQLite) ListRecipes(ctx context.Context) ([]catalog.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	var recipes []catalog.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Release the connection before loading ingredients
	rows.Close()

	for i := range recipes {
		if recipes[i], err = s.withIngredients(ctx, recipes[i]); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

// SaveRecipe inserts or updates the source fields of a recipe
func (s *SQLite) SaveRecipe(ctx context.Context, r catalog.Recipe) error {
	instructions, err := marshalJSON(r.Instructions, "[]")
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, title, original_language, instructions, notes, source, category, public, share_token)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			original_language = excluded.original_language,
			instructions = excluded.instructions,
			notes = excluded.notes,
			source = excluded.source,
			category = excluded.category,
			public = excluded.public,
			share_token = excluded.share_token`,
		r.ID, r.Title, r.OriginalLanguage, instructions, r.Notes, r.Source, r.Category, r.Public, r.ShareToken)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// SetRecipeTranslation writes one language slot of a recipe's translation cache
func (s *SQLite) SetRecipeTranslation(ctx context.Context, recipeID, lang string, fields catalog.Fields) error {
	return updateMap(ctx, s.db, "recipes", "translated_recipe", recipeID, func(m map[string]catalog.Fields) {
		m[lang] = fields
	})
}

// SetRecipeTranslatedTitle writes only the title of one language slot
func (s *SQLite) SetRecipeTranslatedTitle(ctx context.Context, recipeID, lang, title string) error {
	return updateMap(ctx, s.db, "recipes", "translated_recipe", recipeID, func(m map[string]catalog.Fields) {
		entry := m[lang]
		entry.Title = title
		m[lang] = entry
	})
}

// DeleteRecipeTranslation drops one language slot
func (s *SQLite) DeleteRecipeTranslation(ctx context.Context, recipeID, lang string) error {
	return updateMap(ctx, s.db, "recipes", "translated_recipe", recipeID, func(m map[string]catalog.Fields) {
		delete(m, lang)
	})
}

// DeleteRecipe removes a recipe; its ingredient rows cascade
func (s *SQLite) DeleteRecipe(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	return nil
}

// ReplaceRecipeIngredients deletes the recipe's ingredient rows and inserts items
func (s *SQLite) ReplaceRecipeIngredients(ctx context.Context, recipeID string, items []catalog.RecipeIngredient) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes WHERE id = ?`, recipeID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to look up recipe: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("failed to delete recipe ingredients: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipe_ingredients
			(id, recipe_id, ingredient_id, quantity, unit, notes, subheading, order_index, is_plural, name_overrides, translated_notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		overrides, err := marshalJSON(item.NameOverrides, "{}")
		if err != nil {
			return err
		}
		notes, err := marshalJSON(item.TranslatedNotes, "{}")
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, item.ID, recipeID, item.IngredientID, item.Quantity, item.Unit,
			item.Notes, item.Subheading, item.OrderIndex, item.IsPlural, overrides, notes); err != nil {
			return fmt.Errorf("failed to insert recipe ingredient: %w", err)
		}
	}

	return tx.Commit()
}

const useColumns = `id, recipe_id, ingredient_id, quantity, unit, notes, subheading, order_index, is_plural, name_overrides, translated_notes`

// GetRecipeIngredient returns one recipe ingredient row
func (s *SQLite) GetRecipeIngredient(ctx context.Context, id string) (catalog.RecipeIngredient, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+useColumns+` FROM recipe_ingredients WHERE id = ?`, id)
	use, err := scanUse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.RecipeIngredient{}, fmt.Errorf("recipe ingredient %s: %w", id, ErrNotFound)
	}
	return use, err
}

// SetTranslatedNotes writes one language slot of a recipe ingredient's notes cache
func (s *SQLite) SetTranslatedNotes(ctx context.Context, recipeIngredientID, lang, notes string) error {
	return updateMap(ctx, s.db, "recipe_ingredients", "translated_notes", recipeIngredientID, func(m map[string]string) {
		m[lang] = notes
	})
}

// SetNameOverride sets or, with an empty name, removes a display-name override
func (s *SQLite) SetNameOverride(ctx context.Context, recipeIngredientID, lang, name string) error {
	return updateMap(ctx, s.db, "recipe_ingredients", "name_overrides", recipeIngredientID, func(m map[string]string) {
		if name == "" {
			delete(m, lang)
			return
		}
		m[lang] = name
	})
}

func (s *SQLite) withIngredients(ctx context.Context, r catalog.Recipe) (catalog.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+useColumns+` FROM recipe_ingredients WHERE recipe_id = ? ORDER BY order_index, rowid`, r.ID)
	if err != nil {
		return catalog.Recipe{}, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		use, err := scanUse(rows)
		if err != nil {
			return catalog.Recipe{}, err
		}
		r.Ingredients = append(r.Ingredients, use)
	}
	return r, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row scanner) (catalog.Ingredient, error) {
	var ing catalog.Ingredient
	var names string
	if err := row.Scan(&ing.ID, &ing.SingularName, &ing.PluralName, &names); err != nil {
		return catalog.Ingredient{}, err
	}
	if err := unmarshalJSON(names, &ing.TranslatedNames); err != nil {
		return catalog.Ingredient{}, fmt.Errorf("ingredient %s translated_names: %w", ing.ID, err)
	}
	if ing.TranslatedNames == nil {
		ing.TranslatedNames = make(map[string]catalog.NamePair)
	}
	return ing, nil
}

func scanRecipe(row scanner) (catalog.Recipe, error) {
	var r catalog.Recipe
	var instructions, translated string
	if err := row.Scan(&r.ID, &r.Title, &r.OriginalLanguage, &instructions, &r.Notes, &r.Source,
		&r.Category, &r.Public, &r.ShareToken, &translated); err != nil {
		return catalog.Recipe{}, err
	}
	if err := unmarshalJSON(instructions, &r.Instructions); err != nil {
		return catalog.Recipe{}, fmt.Errorf("recipe %s instructions: %w", r.ID, err)
	}
	if err := unmarshalJSON(translated, &r.TranslatedRecipe); err != nil {
		return catalog.Recipe{}, fmt.Errorf("recipe %s translated_recipe: %w", r.ID, err)
	}
	if r.TranslatedRecipe == nil {
		r.TranslatedRecipe = make(map[string]catalog.Fields)
	}
	return r, nil
}

func scanUse(row scanner) (catalog.RecipeIngredient, error) {
	var use catalog.RecipeIngredient
	var overrides, notes string
	if err := row.Scan(&use.ID, &use.RecipeID, &use.IngredientID, &use.Quantity, &use.Unit, &use.Notes,
		&use.Subheading, &use.OrderIndex, &use.IsPlural, &overrides, &notes); err != nil {
		return catalog.RecipeIngredient{}, err
	}
	if err := unmarshalJSON(overrides, &use.NameOverrides); err != nil {
		return catalog.RecipeIngredient{}, fmt.Errorf("recipe ingredient %s name_overrides: %w", use.ID, err)
	}
	if err := unmarshalJSON(notes, &use.TranslatedNotes); err != nil {
		return catalog.RecipeIngredient{}, fmt.Errorf("recipe ingredient %s translated_notes: %w", use.ID, err)
	}
	if use.NameOverrides == nil {
		use.NameOverrides = make(map[string]string)
	}
	if use.TranslatedNotes == nil {
		use.TranslatedNotes = make(map[string]string)
	}
	return use, nil
}

// updateMap rewrites one JSON map column inside a transaction
func updateMap[V any](ctx context.Context, db *sql.DB, table, column, id string, mutate func(map[string]V)) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, column, table), id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s.%s: %w", table, column, err)
	}

	m := make(map[string]V)
	if err := unmarshalJSON(raw, &m); err != nil {
		return fmt.Errorf("failed to decode %s.%s: %w", table, column, err)
	}
	if m == nil {
		m = make(map[string]V)
	}
	mutate(m)

	encoded, err := marshalJSON(m, "{}")
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET %s = ? WHERE id = ?`, table, column), encoded, id); err != nil {
		return fmt.Errorf("failed to update %s.%s: %w", table, column, err)
	}
	return tx.Commit()
}

func marshalJSON(v any, empty string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	if string(data) == "null" {
		return empty, nil
	}
	return string(data), nil
}

func unmarshalJSON(raw string, v any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}
