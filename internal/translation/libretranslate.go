package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// LibreTranslate talks to a self-hosted LibreTranslate server
type LibreTranslate struct {
	apiKey string
	client *resty.Client
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
}

type libreError struct {
	Error string `json:"error"`
}

// NewLibreTranslate creates a client for the server at baseURL
func NewLibreTranslate(baseURL, apiKey string) *LibreTranslate {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json")

	return &LibreTranslate{apiKey: apiKey, client: client}
}

// Translate translates text into targetLang
func (l *LibreTranslate) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if sourceLang == "" {
		sourceLang = "auto"
	}

	var result libreResponse
	var apiErr libreError
	resp, err := l.client.R().
		SetContext(ctx).
		SetBody(libreRequest{
			Q:      text,
			Source: sourceLang,
			Target: targetLang,
			Format: "text",
			APIKey: l.apiKey,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/translate")
	if err != nil {
		return "", fmt.Errorf("LibreTranslate request failed: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("LibreTranslate error (status %d): %s", resp.StatusCode(), apiErr.Error)
	}

	translation := strings.TrimSpace(result.TranslatedText)
	if translation == "" {
		return "", ErrEmptyTranslation
	}
	return translation, nil
}
