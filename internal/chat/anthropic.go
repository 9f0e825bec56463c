package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicVersion          = "2023-06-01"
	anthropicDefaultMaxTokens = 1024
)

type AnthropicConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
}

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	client      *http.Client
}

func NewAnthropicProvider(cfg AnthropicConfig) *AnthropicProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com/v1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AnthropicProvider{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (Result, error) {
	if p.apiKey == "" {
		return Result{}, ErrMissingAPIKey
	}
	if p.model == "" {
		return Result{}, ErrMissingModel
	}
	maxTokens := anthropicDefaultMaxTokens
	if req.MaxTokens != nil && *req.MaxTokens > 0 {
		maxTokens = *req.MaxTokens
	}
	// The Messages API takes the system prompt separately and rejects
	// system-role entries in the message list.
	messages := make([]Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			continue
		}
		messages = append(messages, m)
	}
	payload := map[string]any{
		"model":       p.model,
		"max_tokens":  maxTokens,
		"messages":    messages,
		"temperature": p.temperature,
	}
	if strings.TrimSpace(req.Instruction) != "" {
		payload["system"] = req.Instruction
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("%s: encode request: %w", p.Name(), err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("%s: build request: %w", p.Name(), err)
	}
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("%s: request: %w", p.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Result{}, &StatusError{Provider: p.Name(), StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var parsed struct {
		Model   string `json:"model"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
		Usage      struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{}, fmt.Errorf("%s: decode response: %w", p.Name(), err)
	}
	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	content := strings.TrimSpace(text.String())
	if content == "" {
		return Result{}, ErrEmptyResponse
	}
	model := parsed.Model
	if model == "" {
		model = p.model
	}
	return Result{
		Message:      Message{Role: RoleAssistant, Content: content},
		Model:        model,
		Provider:     p.Name(),
		FinishReason: parsed.StopReason,
		Usage: Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
	}, nil
}
