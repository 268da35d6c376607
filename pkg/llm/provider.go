package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // override the provider default
}

type Option func(*Options)

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
