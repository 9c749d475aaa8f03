package translation

import (
	"context"
	"sync"
)

// TranslationCache stores translations in memory for batch operations
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(key, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[key] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(key string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[key]
	return translation, ok
}

// GetAll returns all cached translations
func (tc *TranslationCache) GetAll() map[string]string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make(map[string]string, len(tc.translations))
	for k, v := range tc.translations {
		result[k] = v
	}
	return result
}

// Memo answers repeated identical requests from a TranslationCache.
// Used for batch runs where the same ingredient name shows up many times.
type Memo struct {
	next  Service
	cache *TranslationCache
}

// NewMemo wraps next with an in-memory cache
func NewMemo(next Service, cache *TranslationCache) *Memo {
	if cache == nil {
		cache = NewTranslationCache()
	}
	return &Memo{next: next, cache: cache}
}

// Translate returns a cached translation or asks the wrapped service.
// Failures are not cached.
func (m *Memo) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	key := sourceLang + ">" + targetLang + ":" + text
	if translation, ok := m.cache.Get(key); ok {
		return translation, nil
	}

	translation, err := m.next.Translate(ctx, text, targetLang, sourceLang)
	if err != nil {
		return "", err
	}
	m.cache.Add(key, translation)
	return translation, nil
}
