package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"boardroom/internal"
	apperrors "boardroom/internal/errors"
	"boardroom/ports"
)

// OpenAIClient calls the Chat Completions API with a single user message
type OpenAIClient struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	client    *http.Client
	logger    *internal.Logger
	usage     ports.UsageRecorder
}

func newOpenAIClient(cfg Config) *OpenAIClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		APIKey:    cfg.APIKey,
		BaseURL:   baseURL,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		client:    cfg.HTTPClient,
		logger:    cfg.Logger,
		usage:     cfg.Usage,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", missingKey(OpenAI)
	}

	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model     string `json:"model"`
		Messages  []msg  `json:"messages"`
		MaxTokens int    `json:"max_tokens,omitempty"`
	}
	body := reqBody{
		Model:     c.Model,
		Messages:  []msg{{Role: "user", Content: prompt}},
		MaxTokens: c.MaxTokens,
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	respRaw, err := postJSON(ctx, c.client, url, c.APIKey, body)
	if err != nil {
		return "", apperrors.ExternalServiceError(string(OpenAI), err)
	}

	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	type respBody struct {
		Choices []choice `json:"choices"`
		Usage   struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", apperrors.ExternalServiceError(string(OpenAI), fmt.Errorf("unmarshal response: %w", err))
	}
	recordUsage(ctx, c.logger, c.usage, ports.UsageData{
		PromptTokens:     decoded.Usage.PromptTokens,
		CompletionTokens: decoded.Usage.CompletionTokens,
		TotalTokens:      decoded.Usage.TotalTokens,
		Model:            c.Model,
		Provider:         string(OpenAI),
	})
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", emptyCompletion(OpenAI)
	}
	return decoded.Choices[0].Message.Content, nil
}
