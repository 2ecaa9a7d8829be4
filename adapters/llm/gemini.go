package llm

import (
	"context"
	"strings"

	"boardroom/internal"
	apperrors "boardroom/internal/errors"
	"boardroom/ports"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient calls the Gemini API through the generative-ai-go SDK. A client
// is opened per request and closed when the answer arrives.
type GeminiClient struct {
	apiKey    string
	endpoint  string
	model     string
	maxTokens int
	logger    *internal.Logger
	usage     ports.UsageRecorder
}

func newGeminiClient(cfg Config) *GeminiClient {
	return &GeminiClient{
		apiKey:    cfg.APIKey,
		endpoint:  cfg.BaseURL,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    cfg.Logger,
		usage:     cfg.Usage,
	}
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", missingKey(Gemini)
	}
	opts := []option.ClientOption{option.WithAPIKey(c.apiKey)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", apperrors.ExternalServiceError(string(Gemini), err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.model)
	model.SetMaxOutputTokens(int32(c.maxTokens))
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", apperrors.ExternalServiceError(string(Gemini), err)
	}
	if resp.UsageMetadata != nil {
		recordUsage(ctx, c.logger, c.usage, ports.UsageData{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
			Model:            c.model,
			Provider:         string(Gemini),
		})
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	if b.Len() == 0 {
		return "", emptyCompletion(Gemini)
	}
	return b.String(), nil
}
