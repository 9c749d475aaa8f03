package batch

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/recipetrans/internal/recipe"
)

// ReadRecipeFile reads recipe drafts from a YAML file. Each YAML document
// ("---" separated) is one recipe.
func ReadRecipeFile(filename string) ([]recipe.Draft, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file: %w", err)
	}
	defer file.Close()

	return DecodeRecipes(file)
}

// DecodeRecipes decodes a stream of YAML recipe documents. Empty documents
// are skipped.
func DecodeRecipes(r io.Reader) ([]recipe.Draft, error) {
	var drafts []recipe.Draft

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	for i := 1; ; i++ {
		var d recipe.Draft
		err := decoder.Decode(&d)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("recipe document %d: %w", i, err)
		}
		if d.Title == "" && len(d.Ingredients) == 0 && len(d.Instructions) == 0 {
			continue
		}
		drafts = append(drafts, d)
	}

	return drafts, nil
}
