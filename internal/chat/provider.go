package chat

import (
	"context"
	"strings"
	"time"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenAIModel       = "gpt-4o-mini"
	defaultAnthropicModel    = "claude-3-5-haiku-latest"
)

// Config selects and configures a completion backend.
type Config struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64
}

func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai", "":
		return NewOpenAIProvider(OpenAIConfig{
			Name:        "openai",
			APIKey:      cfg.APIKey,
			Model:       defaultIfEmpty(cfg.Model, defaultOpenAIModel),
			BaseURL:     cfg.BaseURL,
			Timeout:     cfg.Timeout,
			Temperature: cfg.Temperature,
		}), nil
	case "openrouter":
		return NewOpenAIProvider(OpenAIConfig{
			Name:        "openrouter",
			APIKey:      cfg.APIKey,
			Model:       defaultIfEmpty(cfg.Model, defaultOpenAIModel),
			BaseURL:     defaultIfEmpty(cfg.BaseURL, defaultOpenRouterBaseURL),
			Timeout:     cfg.Timeout,
			Temperature: cfg.Temperature,
		}), nil
	case "anthropic":
		return NewAnthropicProvider(AnthropicConfig{
			APIKey:      cfg.APIKey,
			Model:       defaultIfEmpty(cfg.Model, defaultAnthropicModel),
			BaseURL:     cfg.BaseURL,
			Timeout:     cfg.Timeout,
			Temperature: cfg.Temperature,
		}), nil
	case "none":
		return DisabledProvider{}, nil
	default:
		return nil, ErrUnsupportedProvider{Provider: cfg.Provider}
	}
}

// DisabledProvider fails every call, so sessions answer with the localized
// fallback message.
type DisabledProvider struct{}

func (DisabledProvider) Name() string { return "none" }

func (DisabledProvider) Complete(context.Context, Request) (Result, error) {
	return Result{}, ErrDisabled
}

func defaultIfEmpty(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
