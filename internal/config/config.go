package config

import (
	"os"
	"strconv"
	"strings"

	"boardroom/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	AI     AIConfig
	Server ServerConfig
	Loader LoaderConfig
	Charts ChartConfig
	Log    LogConfig
}

// AIConfig holds LLM backend selection and credentials. Provider is read once
// at startup and never changes afterwards.
type AIConfig struct {
	Provider         string
	Model            string
	MaxTokens        int
	BaseURL          string
	PromptsDir       string
	OpenAIKey        string
	AnthropicKey     string
	CohereKey        string
	HuggingFaceToken string
	GeminiKey        string
}

// APIKey returns the credential belonging to the selected provider
func (c AIConfig) APIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIKey
	case "anthropic":
		return c.AnthropicKey
	case "cohere":
		return c.CohereKey
	case "huggingface":
		return c.HuggingFaceToken
	case "gemini":
		return c.GeminiKey
	}
	return ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	MaxUploadBytes int64
	MaxSessions    int
}

// LoaderConfig holds file ingestion settings
type LoaderConfig struct {
	ChunkThresholdBytes int64
	ChunkSizeBytes      int64
	Workers             int
}

// ChartConfig holds chart rendering settings; an empty Dir disables rendering
type ChartConfig struct {
	Dir string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

const (
	DefaultProvider            = "huggingface"
	DefaultMaxTokens           = 500
	DefaultChunkThresholdBytes = 100 * 1024 * 1024
	DefaultChunkSizeBytes      = 64 * 1024 * 1024
	DefaultMaxUploadBytes      = 1024 * 1024 * 1024
	DefaultMaxSessions         = 100
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		AI:     *loadAIConfig(),
		Server: *loadServerConfig(),
		Loader: *loadLoaderConfig(),
		Charts: ChartConfig{Dir: getEnvOrDefault("CHART_DIR", "")},
		Log:    LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadAIConfig() *AIConfig {
	return &AIConfig{
		Provider:         strings.ToLower(strings.TrimSpace(getEnvOrDefault("LLM_PROVIDER", DefaultProvider))),
		Model:            getEnvOrDefault("LLM_MODEL", ""),
		MaxTokens:        getEnvIntOrDefault("LLM_MAX_TOKENS", DefaultMaxTokens),
		BaseURL:          getEnvOrDefault("LLM_BASE_URL", ""),
		PromptsDir:       getEnvOrDefault("PROMPTS_DIR", ""),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		CohereKey:        os.Getenv("COHERE_API_KEY"),
		HuggingFaceToken: os.Getenv("HF_API_TOKEN"),
		GeminiKey:        os.Getenv("GEMINI_API_KEY"),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadBytes: getEnvInt64OrDefault("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		MaxSessions:    getEnvIntOrDefault("MAX_SESSIONS", DefaultMaxSessions),
	}
}

func loadLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		ChunkThresholdBytes: getEnvInt64OrDefault("CSV_CHUNK_THRESHOLD_BYTES", DefaultChunkThresholdBytes),
		ChunkSizeBytes:      getEnvInt64OrDefault("CSV_CHUNK_SIZE_BYTES", DefaultChunkSizeBytes),
		Workers:             getEnvIntOrDefault("CSV_CHUNK_WORKERS", 4),
	}
}

func validateConfig(config *Config) error {
	if config.AI.Provider == "" {
		return errors.ConfigInvalid("LLM_PROVIDER must not be empty")
	}
	if config.AI.MaxTokens <= 0 {
		return errors.ConfigInvalid("LLM_MAX_TOKENS must be positive")
	}
	if config.Loader.ChunkThresholdBytes <= 0 {
		return errors.ConfigInvalid("CSV_CHUNK_THRESHOLD_BYTES must be positive")
	}
	if config.Loader.ChunkSizeBytes <= 0 {
		return errors.ConfigInvalid("CSV_CHUNK_SIZE_BYTES must be positive")
	}
	if config.Loader.Workers <= 0 {
		return errors.ConfigInvalid("CSV_CHUNK_WORKERS must be positive")
	}
	if config.Server.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if config.Server.MaxSessions <= 0 {
		return errors.ConfigInvalid("MAX_SESSIONS must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
