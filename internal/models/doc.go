// Package models lists the OpenAI chat models that can serve as the
// translation model for the configured API key.
package models
