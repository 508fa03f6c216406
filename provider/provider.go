// Package provider implements chat-completion clients. A client takes an
// ordered list of role-tagged messages and returns the model's text
// completion; every transport or response failure is reported as an *Error.
package provider

import (
	"context"
	"fmt"

	"github.com/fabfab/documind/config"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Reason classifies a completion failure.
type Reason string

const (
	ReasonStatus     Reason = "status"
	ReasonEmpty      Reason = "empty"
	ReasonTimeout    Reason = "timeout"
	ReasonConnection Reason = "connection"
)

// Error is the single failure type surfaced by all provider clients.
type Error struct {
	Reason  Reason
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("provider error (%s, status %d): %s", e.Reason, e.Status, e.Message)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Reason, e.Message)
}

func NewClient(cfg config.Provider) (Client, error) {
	switch cfg.Name {
	case config.ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("openrouter provider selected but OPENROUTER_API_KEY not set")
		}
		return NewOpenRouterClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel), nil
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider selected but OPENAI_API_KEY not set")
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Name)
	}
}
