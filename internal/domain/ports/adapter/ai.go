package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Usage for a single chat call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatRequest carries the model selection and sampling settings of one call.
type ChatRequest struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
	Messages        []Message
}

// ChatResponse is the assistant text plus provider-reported usage.
type ChatResponse struct {
	Text     string
	Usage    Usage
	Provider string
}

// AIServiceAdapter is the port for LLM chat.
type AIServiceAdapter interface {
	ListModels(ctx context.Context) ([]string, error)
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// TokenCounter estimates prompt size for a model.
type TokenCounter interface {
	CountTokens(model, text string) int
}
