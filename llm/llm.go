// Package llm streams chat completions from the supported model vendors
// behind one Completer interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Supported providers
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request defaults
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
)

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4",
	ProviderGemini:    "gemini-1.5-pro",
	ProviderAnthropic: "claude-sonnet-4-20250514",
}

var (
	ErrUnknownProvider = errors.New("llm: unknown provider")
	ErrMissingAPIKey   = errors.New("llm: API key not set")
	ErrNoMessages      = errors.New("llm: request has no conversation messages")
)

// Message is one conversation turn
type Message struct {
	Role    string
	Content string
}

// CompletionRequest describes one streamed completion. A nil Temperature
// means DefaultTemperature; an explicit zero is honored.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []Message
	Temperature *float64
	MaxTokens   int
}

// TokenHandler receives streamed text in arrival order. Returning an error
// stops the stream and is returned from Stream.
type TokenHandler func(chunk string) error

// Completer streams a completion for a request
type Completer interface {
	// Name returns the provider name
	Name() string
	// Stream sends req and calls onChunk for each piece of generated text
	Stream(ctx context.Context, req CompletionRequest, onChunk TokenHandler) error
}

// Config selects and configures a provider
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string // optional endpoint override
}

// New creates the Completer named by cfg.Provider
func New(cfg Config) (Completer, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}
	defaultModel, ok := defaultModels[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrMissingAPIKey, provider)
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	switch provider {
	case ProviderGemini:
		return newGeminiCompleter(cfg.APIKey, model, cfg.BaseURL), nil
	case ProviderAnthropic:
		return newAnthropicCompleter(cfg.APIKey, model, cfg.BaseURL), nil
	default:
		return newOpenAICompleter(cfg.APIKey, model, cfg.BaseURL), nil
	}
}

// conversation is a request split into the parts vendors take separately
type conversation struct {
	system  string
	history []Message
	last    Message
}

// splitConversation folds system-role messages into the system prompt and
// separates the final turn from the history before it
func splitConversation(req CompletionRequest) (conversation, error) {
	var conv conversation
	systemParts := make([]string, 0, 1)
	if s := strings.TrimSpace(req.System); s != "" {
		systemParts = append(systemParts, req.System)
	}

	turns := make([]Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			if strings.TrimSpace(m.Content) != "" {
				systemParts = append(systemParts, m.Content)
			}
			continue
		}
		turns = append(turns, m)
	}
	if len(turns) == 0 {
		return conv, ErrNoMessages
	}

	conv.system = strings.Join(systemParts, "\n\n")
	conv.history = turns[:len(turns)-1]
	conv.last = turns[len(turns)-1]
	return conv, nil
}

func temperatureOrDefault(t *float64) float64 {
	if t == nil {
		return DefaultTemperature
	}
	return *t
}

func maxTokensOrDefault(n int) int {
	if n <= 0 {
		return DefaultMaxTokens
	}
	return n
}
