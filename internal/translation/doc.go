// Package translation provides machine translation services for recipe
// content. Providers (OpenAI, Gemini, LibreTranslate) implement Service and
// are composed with a circuit breaker, request coalescing and an in-memory
// memo. Safe wraps any Service so callers always get usable text back.
package translation
