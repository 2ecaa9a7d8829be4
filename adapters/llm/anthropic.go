package llm

import (
	"context"
	"strings"

	"boardroom/internal"
	apperrors "boardroom/internal/errors"
	"boardroom/ports"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient calls the Messages API through the official SDK
type AnthropicClient struct {
	apiKey    string
	model     string
	maxTokens int
	client    anthropic.Client
	logger    *internal.Logger
	usage     ports.UsageRecorder
}

func newAnthropicClient(cfg Config) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(cfg.HTTPClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicClient{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    anthropic.NewClient(opts...),
		logger:    cfg.Logger,
		usage:     cfg.Usage,
	}
}

func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", missingKey(Anthropic)
	}
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", apperrors.ExternalServiceError(string(Anthropic), err)
	}
	recordUsage(ctx, c.logger, c.usage, ports.UsageData{
		PromptTokens:     int(message.Usage.InputTokens),
		CompletionTokens: int(message.Usage.OutputTokens),
		TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		Model:            c.model,
		Provider:         string(Anthropic),
	})

	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", emptyCompletion(Anthropic)
	}
	return b.String(), nil
}
