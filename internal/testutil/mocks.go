package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/snonux/recipetrans/internal/catalog"
)

// TranslateCall records one call made to a MockTranslator
type TranslateCall struct {
	Text       string
	TargetLang string
	SourceLang string
}

// MockTranslator mocks the translation service. Unknown texts are
// translated to "[<target>] <text>" so results stay predictable.
type MockTranslator struct {
	mu sync.Mutex

	// Translations maps "<target>:<text>" to a translation
	Translations map[string]string
	// Errors maps a text to the error returned for it
	Errors map[string]error
	// FailAll makes every call fail when set
	FailAll error
	// Delay is applied before answering
	Delay time.Duration

	calls []TranslateCall
}

// NewMockTranslator creates an empty mock translator
func NewMockTranslator() *MockTranslator {
	return &MockTranslator{
		Translations: make(map[string]string),
		Errors:       make(map[string]error),
	}
}

// Set registers the translation of text into targetLang
func (m *MockTranslator) Set(targetLang, text, translation string) *MockTranslator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Translations[targetLang+":"+text] = translation
	return m
}

// Fail makes every translation of text fail with err
func (m *MockTranslator) Fail(text string, err error) *MockTranslator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[text] = err
	return m
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, TranslateCall{Text: text, TargetLang: targetLang, SourceLang: sourceLang})

	if m.FailAll != nil {
		return "", m.FailAll
	}
	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if translation, ok := m.Translations[targetLang+":"+text]; ok {
		return translation, nil
	}

	// Default mock translation
	return fmt.Sprintf("[%s] %s", targetLang, text), nil
}

// Calls returns a copy of the recorded calls
func (m *MockTranslator) Calls() []TranslateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranslateCall(nil), m.calls...)
}

// CallCount returns the number of recorded calls
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// CalledWith reports whether text was ever sent to the translator
func (m *MockTranslator) CalledWith(text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.calls {
		if call.Text == text {
			return true
		}
	}
	return false
}

// ResetCalls forgets the recorded calls
func (m *MockTranslator) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// TestDataGenerator generates test data
type TestDataGenerator struct{}

// GenerateRecipe returns an English soup recipe with a URL source
func (g *TestDataGenerator) GenerateRecipe() catalog.Recipe {
	return catalog.Recipe{
		Title:            "Tomato soup",
		OriginalLanguage: "en",
		Category:         "Soup",
		Instructions: []string{
			"Chop the tomatoes",
			"Simmer for 20 minutes.",
			"",
			"Blend until smooth!",
		},
		Notes:  "Best with fresh bread.",
		Source: "https://example.com/recipe",
	}
}
