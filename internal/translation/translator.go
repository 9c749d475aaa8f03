package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Service translates text into targetLang. An empty sourceLang lets the
// provider detect the source language.
type Service interface {
	Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error)
}

// ErrNoAPIKey is returned by providers created without credentials
var ErrNoAPIKey = errors.New("translation API key not found")

// ErrEmptyTranslation is returned when a provider answers with no text
var ErrEmptyTranslation = errors.New("no translation returned")

// DefaultOpenAIModel is the chat model used for translation
const DefaultOpenAIModel = openai.GPT4oMini

// Translator handles translation through the OpenAI chat completion API
type Translator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewTranslator creates a new translator instance
func NewTranslator(apiKey, model string) *Translator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &Translator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

// Translate translates text into targetLang
func (t *Translator) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if t.apiKey == "" {
		return "", ErrNoAPIKey
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You translate recipe content. Keep quantities, units and formatting unchanged.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: Prompt(text, targetLang, sourceLang),
			},
		},
		Temperature: 0.2,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyTranslation
	}

	translation := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translation == "" {
		return "", ErrEmptyTranslation
	}
	return translation, nil
}

// Prompt builds the instruction sent to chat-style providers
func Prompt(text, targetLang, sourceLang string) string {
	from := "the source language"
	if sourceLang != "" {
		from = fmt.Sprintf("language code '%s'", sourceLang)
	}
	return fmt.Sprintf("Translate the following text from %s to language code '%s'. Respond with only the translation, nothing else.\n\n%s",
		from, targetLang, text)
}
