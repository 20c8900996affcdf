package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

// openaiCompleter streams chat completions from OpenAI or any compatible endpoint
type openaiCompleter struct {
	client *openai.Client
	model  string
}

func newOpenAICompleter(apiKey, model, baseURL string) *openaiCompleter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &openaiCompleter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *openaiCompleter) Name() string {
	return ProviderOpenAI
}

func (o *openaiCompleter) Stream(ctx context.Context, req CompletionRequest, onChunk TokenHandler) error {
	conv, err := splitConversation(req)
	if err != nil {
		return err
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(conv.history)+2)
	if conv.system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: conv.system,
		})
	}
	for _, m := range append(conv.history, conv.last) {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	model := req.Model
	if model == "" {
		model = o.model
	}

	// the request field is omitempty, so an exact zero would fall back to
	// the server's default
	temperature := float32(temperatureOrDefault(req.Temperature))
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	stream, err := o.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokensOrDefault(req.MaxTokens),
		Stream:      true,
	})
	if err != nil {
		return fmt.Errorf("openai: create stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("openai: stream: %w", err)
		}
		for _, choice := range resp.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := onChunk(choice.Delta.Content); err != nil {
				return err
			}
		}
	}
}
