package llm

import (
	"context"
)

// Message is one turn of a chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Option sets a per-call generation parameter.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
}

// Apply returns base with opts applied in order.
func Apply(base Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

func WithTemperature(temp float64) Option {
	return func(o *Options) { o.Temperature = temp }
}

// WithModel overrides the provider's default model for one call.
func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

// LLMProvider is a chat-completion backend.
type LLMProvider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single user prompt.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
