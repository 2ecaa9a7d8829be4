package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"boardroom/internal"
	apperrors "boardroom/internal/errors"

	"github.com/tidwall/gjson"
)

// HuggingFaceClient calls the hosted Inference API for text generation. The
// response echoes the prompt followed by the generated text.
type HuggingFaceClient struct {
	token     string
	baseURL   string
	model     string
	maxTokens int
	client    *http.Client
	logger    *internal.Logger
}

func newHuggingFaceClient(cfg Config) *HuggingFaceClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/models"
	}
	return &HuggingFaceClient{
		token:     cfg.APIKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    cfg.HTTPClient,
		logger:    cfg.Logger,
	}
}

type hfParameters struct {
	MaxNewTokens   int  `json:"max_new_tokens"`
	ReturnFullText bool `json:"return_full_text"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string) (string, error) {
	body := hfRequest{
		Inputs:     prompt,
		Parameters: hfParameters{MaxNewTokens: c.maxTokens, ReturnFullText: true},
	}
	raw, err := postJSON(ctx, c.client, c.baseURL+"/"+c.model, c.token, body)
	if err != nil {
		return "", apperrors.ExternalServiceError(string(HuggingFace), err)
	}
	if msg := gjson.GetBytes(raw, "error"); msg.Exists() {
		return "", apperrors.ExternalServiceError(string(HuggingFace), errors.New(msg.String()))
	}

	text := gjson.GetBytes(raw, "0.generated_text")
	if !text.Exists() {
		text = gjson.GetBytes(raw, "generated_text")
	}
	c.logger.Debug("[LLM] huggingface/%s returned %d characters", c.model, len(text.String()))
	if text.String() == "" {
		return "", emptyCompletion(HuggingFace)
	}
	return text.String(), nil
}
