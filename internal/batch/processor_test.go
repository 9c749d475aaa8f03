package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"codeberg.org/snonux/recipetrans/internal/recipe"
)

func TestReadIngredientFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []Entry
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "names only",
			fileContent: `tomato
flour
eggs`,
			want: []Entry{
				{Language: "en", Name: "tomato"},
				{Language: "en", Name: "flour"},
				{Language: "en", Name: "eggs"},
			},
		},
		{
			name: "mixed format",
			fileContent: `tomato
de = Tomaten
fr-CA = farine
  salt  `,
			want: []Entry{
				{Language: "en", Name: "tomato"},
				{Language: "de", Name: "Tomaten"},
				{Language: "fr", Name: "farine"},
				{Language: "en", Name: "salt"},
			},
		},
		{
			name: "comments and blank lines",
			fileContent: `
# pantry
tomato

de = Mehl
`,
			want: []Entry{
				{Language: "en", Name: "tomato"},
				{Language: "de", Name: "Mehl"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "tomato\r\nde = Mehl\r\nsalt",
			want: []Entry{
				{Language: "en", Name: "tomato"},
				{Language: "de", Name: "Mehl"},
				{Language: "en", Name: "salt"},
			},
		},
		{
			name:        "left side is not a language",
			fileContent: `olive oil = extra virgin`,
			want: []Entry{
				{Language: "en", Name: "olive oil = extra virgin"},
			},
		},
		{
			name:        "missing name",
			fileContent: `de =`,
			want: []Entry{
				{Language: "en", Name: "de ="},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp file
			tmpDir := t.TempDir()
			tmpFile := filepath.Join(tmpDir, "test.txt")
			err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644)
			if err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := ReadIngredientFile(tmpFile, "en-GB")
			if err != nil {
				t.Fatalf("ReadIngredientFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadIngredientFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadIngredientFile_DefaultLanguage(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(tmpFile, []byte("Mehl\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	got, err := ReadIngredientFile(tmpFile, "")
	if err != nil {
		t.Fatalf("ReadIngredientFile() error = %v", err)
	}
	if len(got) != 1 || got[0].Language != "en" {
		t.Errorf("Expected English default, got %v", got)
	}
}

func TestReadIngredientFile_FileNotFound(t *testing.T) {
	_, err := ReadIngredientFile("/nonexistent/file.txt", "en")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestDecodeRecipes(t *testing.T) {
	input := `
title: Pancakes
language: en
category: Breakfast
public: true
instructions:
  - Mix
  - Fry
ingredients:
  - name: flour
    quantity: "1 1/2"
    unit: cups
  - name: eggs
    quantity: "2"
    plural: true
    notes: beaten
---
title: Pfannkuchen
language: de
ingredients:
  - name: Mehl
    quantity: "200"
    unit: g
`

	got, err := DecodeRecipes(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeRecipes() error = %v", err)
	}

	want := []recipe.Draft{
		{
			Title:        "Pancakes",
			Language:     "en",
			Category:     "Breakfast",
			Public:       true,
			Instructions: []string{"Mix", "Fry"},
			Ingredients: []recipe.DraftIngredient{
				{Name: "flour", Quantity: "1 1/2", Unit: "cups"},
				{Name: "eggs", Quantity: "2", IsPlural: true, Notes: "beaten"},
			},
		},
		{
			Title:    "Pfannkuchen",
			Language: "de",
			Ingredients: []recipe.DraftIngredient{
				{Name: "Mehl", Quantity: "200", Unit: "g"},
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeRecipes() = %+v, want %+v", got, want)
	}
}

func TestDecodeRecipes_UnknownField(t *testing.T) {
	_, err := DecodeRecipes(strings.NewReader("title: Soup\nservings: 4\n"))
	if err == nil {
		t.Fatal("Expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "recipe document 1") {
		t.Errorf("Expected document number in error, got: %v", err)
	}
}

func TestReadRecipeFile_FileNotFound(t *testing.T) {
	_, err := ReadRecipeFile("/nonexistent/recipes.yaml")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}
