package translation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Provider names
const (
	ProviderOpenAI         = "openai"
	ProviderGemini         = "gemini"
	ProviderLibreTranslate = "libretranslate"
)

// Config holds the translation provider configuration
type Config struct {
	Provider string // "openai", "gemini" or "libretranslate"

	// OpenAI-specific settings
	OpenAIKey   string
	OpenAIModel string

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string

	// LibreTranslate-specific settings
	LibreTranslateURL string
	LibreTranslateKey string

	// Circuit breaker
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	// Coalesce concurrent identical requests into one provider call
	Coalesce bool
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		OpenAIModel:       DefaultOpenAIModel,
		GeminiModel:       DefaultGeminiModel,
		LibreTranslateURL: "http://localhost:5000",
		BreakerFailures:   5,
		BreakerTimeout:    30 * time.Second,
		Coalesce:          true,
	}
}

// NewService creates the configured provider wrapped with a circuit breaker
// and, if enabled, request coalescing.
func NewService(ctx context.Context, config *Config, logger *zap.Logger) (Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var provider Service
	switch config.Provider {
	case ProviderOpenAI, "":
		// A missing key is reported per call so views still degrade to source text
		provider = NewTranslator(config.OpenAIKey, config.OpenAIModel)

	case ProviderGemini:
		gemini, err := NewGemini(ctx, config.GeminiKey, config.GeminiModel)
		if err != nil {
			return nil, err
		}
		provider = gemini

	case ProviderLibreTranslate:
		if config.LibreTranslateURL == "" {
			return nil, fmt.Errorf("LibreTranslate URL is required")
		}
		provider = NewLibreTranslate(config.LibreTranslateURL, config.LibreTranslateKey)

	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}

	var svc Service = NewBreaker(provider, BreakerConfig{
		Name:                config.Provider,
		ConsecutiveFailures: config.BreakerFailures,
		OpenTimeout:         config.BreakerTimeout,
	}, logger)

	if config.Coalesce {
		svc = NewCoalescer(svc)
	}
	return svc, nil
}
