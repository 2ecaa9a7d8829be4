package ports

import "context"

// UsageData represents token usage reported by an LLM provider
type UsageData struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
	Provider         string `json:"provider"`
}

// UsageRecorder accumulates token usage reported by generators
type UsageRecorder interface {
	Record(ctx context.Context, u UsageData)
}
