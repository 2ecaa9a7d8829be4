// Package llm implements the text generation strategies behind
// ports.Generator. The provider is chosen once when the generator is built.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"boardroom/domain/core"
	"boardroom/internal"
	apperrors "boardroom/internal/errors"
	"boardroom/ports"
)

// Provider identifies an LLM backend
type Provider string

const (
	OpenAI      Provider = "openai"
	Anthropic   Provider = "anthropic"
	Cohere      Provider = "cohere"
	HuggingFace Provider = "huggingface"
	Gemini      Provider = "gemini"
)

// DefaultMaxTokens bounds completion length where the provider accepts a limit
const DefaultMaxTokens = 500

// Providers returns the closed set of supported backends
func Providers() []Provider {
	return []Provider{OpenAI, Anthropic, Cohere, HuggingFace, Gemini}
}

// ParseProvider validates a provider identifier
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers() {
		if p == known {
			return p, nil
		}
	}
	return "", apperrors.UnsupportedProvider(s, core.ErrUnsupportedProvider)
}

// DefaultModel is the model used when none is configured
func (p Provider) DefaultModel() string {
	switch p {
	case OpenAI:
		return "gpt-4"
	case Anthropic:
		return "claude-3-opus-20240229"
	case Cohere:
		return "command-r"
	case HuggingFace:
		return "mistralai/Mistral-7B-Instruct-v0.2"
	case Gemini:
		return "gemini-1.5-flash"
	}
	return ""
}

// KeyEnv names the environment variable holding the provider credential
func (p Provider) KeyEnv() string {
	switch p {
	case OpenAI:
		return "OPENAI_API_KEY"
	case Anthropic:
		return "ANTHROPIC_API_KEY"
	case Cohere:
		return "COHERE_API_KEY"
	case HuggingFace:
		return "HF_API_TOKEN"
	case Gemini:
		return "GEMINI_API_KEY"
	}
	return ""
}

// RequiresKey reports whether calls fail without a credential. Hugging Face
// serves public models anonymously at a lower rate limit.
func (p Provider) RequiresKey() bool {
	return p != HuggingFace
}

// Config holds generator settings
type Config struct {
	Provider   string
	Model      string // empty selects the provider default
	APIKey     string
	BaseURL    string // optional endpoint override
	MaxTokens  int
	HTTPClient *http.Client
	Logger     *internal.Logger
	Usage      ports.UsageRecorder // optional token accounting
}

// New builds the generator for cfg.Provider. It performs no network calls;
// an unknown provider fails here and never reaches the wire.
func New(cfg Config) (ports.Generator, error) {
	p, err := ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = p.DefaultModel()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.HTTPClient == nil {
		// no timeout: calls are bounded only by the caller's context
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = internal.NewNopLogger()
	}
	if p.RequiresKey() && cfg.APIKey == "" {
		cfg.Logger.Warn("[LLM] %s is not set; %s requests will fail", p.KeyEnv(), p)
	}

	switch p {
	case OpenAI:
		return newOpenAIClient(cfg), nil
	case Anthropic:
		return newAnthropicClient(cfg), nil
	case Cohere:
		return newCohereClient(cfg), nil
	case HuggingFace:
		return newHuggingFaceClient(cfg), nil
	case Gemini:
		return newGeminiClient(cfg), nil
	}
	return nil, apperrors.UnsupportedProvider(cfg.Provider, core.ErrUnsupportedProvider)
}

// missingKey is returned by Generate when the credential is absent
func missingKey(p Provider) error {
	return &apperrors.AppError{
		Code:    apperrors.CodeLLMUnavailable,
		Message: fmt.Sprintf("%s requires %s", p, p.KeyEnv()),
		Cause:   core.ErrMissingAPIKey,
	}
}

// emptyCompletion is returned when a provider answers without text
func emptyCompletion(p Provider) error {
	return apperrors.ExternalServiceError(string(p), core.ErrEmptyCompletion)
}

func recordUsage(ctx context.Context, logger *internal.Logger, rec ports.UsageRecorder, u ports.UsageData) {
	logger.Debug("[LLM] %s/%s usage: prompt=%d completion=%d total=%d",
		u.Provider, u.Model, u.PromptTokens, u.CompletionTokens, u.TotalTokens)
	if rec != nil {
		rec.Record(ctx, u)
	}
}
