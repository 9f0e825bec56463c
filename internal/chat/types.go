package chat

import "context"

// Message roles understood by the completion backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// Request is one completion call: the bounded conversation history plus the
// locale-specific instruction prefix.
type Request struct {
	Messages    []Message
	Instruction string
	MaxTokens   *int // optional max tokens
}

// Result is the completion outcome.
type Result struct {
	Message      Message
	Model        string
	Provider     string
	FinishReason string
	Usage        Usage
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Provider is a text-completion backend. Implementations return
// ErrEmptyResponse rather than an empty reply.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (Result, error)
}
