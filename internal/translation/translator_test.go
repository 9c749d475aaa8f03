package translation

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestNewTranslator(t *testing.T) {
	translator := NewTranslator("test-api-key", "")

	if translator == nil {
		t.Fatal("NewTranslator returned nil")
	}

	if translator.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", translator.apiKey)
	}

	if translator.model != DefaultOpenAIModel {
		t.Errorf("Expected default model %s, got %s", DefaultOpenAIModel, translator.model)
	}

	if translator.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestTranslate_NoAPIKey(t *testing.T) {
	translator := NewTranslator("", "")

	_, err := translator.Translate(context.Background(), "Tomate", "en", "de")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got: %v", err)
	}
}

func TestTranslate_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	translator := NewTranslator(apiKey, "")

	translation, err := translator.Translate(context.Background(), "Tomate", "en", "de")
	if err != nil {
		t.Errorf("Translate failed: %v", err)
	}

	if translation == "" {
		t.Error("Got empty translation")
	}

	t.Logf("Translation of 'Tomate': %s", translation)
}

func TestPrompt(t *testing.T) {
	prompt := Prompt("Mehl", "en", "de")
	if !strings.Contains(prompt, "'de'") || !strings.Contains(prompt, "'en'") {
		t.Errorf("Prompt missing language codes: %s", prompt)
	}
	if !strings.HasSuffix(prompt, "Mehl") {
		t.Errorf("Prompt should end with the text: %s", prompt)
	}

	auto := Prompt("Mehl", "en", "")
	if !strings.Contains(auto, "the source language") {
		t.Errorf("Prompt without source should ask for detection: %s", auto)
	}
}

func TestTranslationCache(t *testing.T) {
	cache := NewTranslationCache()

	// Test empty cache
	_, found := cache.Get("de>en:Tomate")
	if found {
		t.Error("Expected not found in empty cache")
	}

	// Test adding and retrieving
	cache.Add("de>en:Tomate", "tomato")
	cache.Add("de>en:Mehl", "flour")

	translation, found := cache.Get("de>en:Tomate")
	if !found {
		t.Error("Expected to find 'Tomate' in cache")
	}
	if translation != "tomato" {
		t.Errorf("Expected 'tomato', got '%s'", translation)
	}

	// Test overwriting
	cache.Add("de>en:Tomate", "tomato (fruit)")
	translation, found = cache.Get("de>en:Tomate")
	if !found || translation != "tomato (fruit)" {
		t.Errorf("Expected 'tomato (fruit)', got '%s'", translation)
	}
}

func TestTranslationCache_GetAll(t *testing.T) {
	cache := NewTranslationCache()

	cache.Add("a", "1")
	cache.Add("b", "2")

	all := cache.GetAll()

	expected := map[string]string{"a": "1", "b": "2"}
	if !reflect.DeepEqual(all, expected) {
		t.Errorf("GetAll() = %v, want %v", all, expected)
	}

	// Test that modifying returned map doesn't affect cache
	all["a"] = "modified"

	translation, _ := cache.Get("a")
	if translation != "1" {
		t.Error("Cache was modified through returned map")
	}
}
