package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when no OpenAI API key is configured
var ErrNoAPIKey = errors.New("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure translation.openai_key in .recipetrans.yaml")

// Lister handles listing OpenAI models usable for translation
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// ChatModels returns the sorted ids of the chat models available to the key
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	return FilterChatModels(ids), nil
}

// FilterChatModels keeps chat completion models and drops audio, image,
// embedding and moderation models
func FilterChatModels(ids []string) []string {
	var chat []string
	for _, id := range ids {
		if !strings.Contains(id, "gpt") && !strings.Contains(id, "chat") {
			continue
		}
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") ||
			strings.Contains(id, "realtime") || strings.Contains(id, "transcribe") ||
			strings.Contains(id, "image") || strings.Contains(id, "search") {
			continue
		}
		chat = append(chat, id)
	}
	sort.Strings(chat)
	return chat
}

// Print writes the model list with the configured model marked
func Print(w io.Writer, models []string, current string) {
	fmt.Fprintln(w, "Chat models usable for translation:")
	if len(models) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return
	}
	for _, model := range models {
		marker := " "
		if model == current {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %s\n", marker, model)
	}
}
