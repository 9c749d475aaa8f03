package translation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the Gemini model used for translation
const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini translates through the Google Gemini API
type Gemini struct {
	model  string
	client *genai.Client
}

// NewGemini creates a Gemini translator. Without an API key every call
// fails with ErrNoAPIKey, like the OpenAI translator.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	if apiKey == "" {
		return &Gemini{model: model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{model: model, client: client}, nil
}

// Translate translates text into targetLang
func (g *Gemini) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if g.client == nil {
		return "", ErrNoAPIKey
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(text, targetLang, sourceLang)), config)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	translation := strings.TrimSpace(resp.Text())
	if translation == "" {
		return "", ErrEmptyTranslation
	}
	return translation, nil
}
