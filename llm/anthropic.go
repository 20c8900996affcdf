package llm

import (
	"context"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicCompleter streams from the Anthropic Messages API
type anthropicCompleter struct {
	client anthropic.Client
	model  string
}

func newAnthropicCompleter(apiKey, model, baseURL string) *anthropicCompleter {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &anthropicCompleter{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (a *anthropicCompleter) Name() string {
	return ProviderAnthropic
}

func (a *anthropicCompleter) Stream(ctx context.Context, req CompletionRequest, onChunk TokenHandler) error {
	conv, err := splitConversation(req)
	if err != nil {
		return err
	}

	messages := make([]anthropic.MessageParam, 0, len(conv.history)+1)
	for _, m := range append(conv.history, conv.last) {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(block))
	}

	model := req.Model
	if model == "" {
		model = a.model
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(maxTokensOrDefault(req.MaxTokens)),
		Messages:    messages,
		Temperature: anthropic.Float(temperatureOrDefault(req.Temperature)),
	}
	if conv.system != "" {
		params.System = []anthropic.TextBlockParam{{Text: conv.system}}
	}

	stream := a.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
		if !ok || text.Text == "" {
			continue
		}
		if err := onChunk(text.Text); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("anthropic: stream: %w", err)
	}
	return nil
}
