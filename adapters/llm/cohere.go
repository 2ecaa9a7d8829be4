package llm

import (
	"context"
	"net/http"
	"strings"

	"boardroom/internal"
	apperrors "boardroom/internal/errors"
	"boardroom/ports"

	"github.com/tidwall/gjson"
)

// CohereClient calls the v1 chat endpoint with a single message
type CohereClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *internal.Logger
	usage   ports.UsageRecorder
}

func newCohereClient(cfg Config) *CohereClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.cohere.ai/v1"
	}
	return &CohereClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   cfg.Model,
		client:  cfg.HTTPClient,
		logger:  cfg.Logger,
		usage:   cfg.Usage,
	}
}

func (c *CohereClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", missingKey(Cohere)
	}
	body := map[string]string{"model": c.model, "message": prompt}
	raw, err := postJSON(ctx, c.client, c.baseURL+"/chat", c.apiKey, body)
	if err != nil {
		return "", apperrors.ExternalServiceError(string(Cohere), err)
	}

	in := int(gjson.GetBytes(raw, "meta.billed_units.input_tokens").Int())
	out := int(gjson.GetBytes(raw, "meta.billed_units.output_tokens").Int())
	recordUsage(ctx, c.logger, c.usage, ports.UsageData{
		PromptTokens:     in,
		CompletionTokens: out,
		TotalTokens:      in + out,
		Model:            c.model,
		Provider:         string(Cohere),
	})

	text := gjson.GetBytes(raw, "text").String()
	if text == "" {
		return "", emptyCompletion(Cohere)
	}
	return text, nil
}
