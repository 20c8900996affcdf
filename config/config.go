// Package config reads process configuration from the environment (and an
// optional .env file) into an explicit value that is handed to constructors.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"recap-backend/llm"
	"recap-backend/models"
	"recap-backend/repository"
	"recap-backend/storage"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultPort is the HTTP port used when PORT is unset
const DefaultPort = "8080"

// DefaultSearchLimit caps the records returned per search
const DefaultSearchLimit = 5

// Config holds everything the server and CLI need to wire their components
type Config struct {
	Port     string
	LogLevel string

	CourtListener repository.CourtListenerConfig
	SearchLimit   int

	LLM            llm.Config
	LLMTemperature float64
	LLMMaxTokens   int

	ProfileName  string
	ProfilesFile string

	Storage storage.StorageConfig
}

// Load reads .env (if present) and then the environment
func Load() (*Config, error) {
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment
func FromEnv() (*Config, error) {
	timeout, err := durationEnv("PROVIDER_TIMEOUT", repository.DefaultProviderTimeout)
	if err != nil {
		return nil, err
	}
	searchLimit, err := intEnv("SEARCH_LIMIT", DefaultSearchLimit)
	if err != nil {
		return nil, err
	}
	temperature, err := floatEnv("LLM_TEMPERATURE", llm.DefaultTemperature)
	if err != nil {
		return nil, err
	}
	maxTokens, err := intEnv("LLM_MAX_TOKENS", llm.DefaultMaxTokens)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(stringEnv("LLM_PROVIDER", llm.ProviderOpenAI))

	cfg := &Config{
		Port:     stringEnv("PORT", DefaultPort),
		LogLevel: stringEnv("LOG_LEVEL", "info"),
		CourtListener: repository.CourtListenerConfig{
			Token:   os.Getenv("COURTLISTENER_API_TOKEN"),
			BaseURL: stringEnv("COURTLISTENER_BASE_URL", repository.DefaultCourtListenerBaseURL),
			Timeout: timeout,
		},
		SearchLimit: searchLimit,
		LLM: llm.Config{
			Provider: provider,
			Model:    os.Getenv("LLM_MODEL"),
			APIKey:   apiKeyFor(provider),
			BaseURL:  os.Getenv("LLM_BASE_URL"),
		},
		LLMTemperature: temperature,
		LLMMaxTokens:   maxTokens,
		ProfileName:    stringEnv("DOMAIN_PROFILE", models.DefaultProfileName),
		ProfilesFile:   os.Getenv("DOMAIN_PROFILES_FILE"),
		Storage: storage.StorageConfig{
			Type:         storage.StorageType(stringEnv("STORAGE_TYPE", string(storage.StorageTypeLocal))),
			LocalPath:    stringEnv("STORAGE_LOCAL_PATH", storage.DefaultLocalPath),
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Region:     stringEnv("AWS_REGION", "us-east-1"),
			S3Prefix:     os.Getenv("AWS_S3_PREFIX"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}
	return cfg, nil
}

// Profile resolves the configured domain profile
func (c *Config) Profile() (models.DomainProfile, error) {
	return ResolveProfile(c.ProfileName, c.ProfilesFile)
}

// NewLogger builds a production zap logger at the given level
func NewLogger(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func apiKeyFor(provider string) string {
	switch provider {
	case llm.ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	case llm.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", key, v)
	}
	return f, nil
}

// durationEnv accepts Go durations ("45s") or a bare number of seconds
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}
