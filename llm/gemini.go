package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// geminiCompleter streams from the Gemini API. A client is opened per call
// so the caller's context governs the connection.
type geminiCompleter struct {
	apiKey   string
	model    string
	endpoint string
}

// geminiStream is the part of *genai.GenerateContentResponseIterator the
// relay loop needs
type geminiStream interface {
	Next() (*genai.GenerateContentResponse, error)
}

func newGeminiCompleter(apiKey, model, endpoint string) *geminiCompleter {
	return &geminiCompleter{apiKey: apiKey, model: model, endpoint: endpoint}
}

func (g *geminiCompleter) Name() string {
	return ProviderGemini
}

func (g *geminiCompleter) Stream(ctx context.Context, req CompletionRequest, onChunk TokenHandler) error {
	conv, err := splitConversation(req)
	if err != nil {
		return err
	}

	opts := []option.ClientOption{option.WithAPIKey(g.apiKey)}
	if g.endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("gemini: client: %w", err)
	}
	defer client.Close()

	model := req.Model
	if model == "" {
		model = g.model
	}
	m := client.GenerativeModel(model)
	configureGeminiModel(m, conv.system, req)

	cs := m.StartChat()
	cs.History = geminiHistory(conv.history)

	return relayGemini(cs.SendMessageStream(ctx, genai.Text(conv.last.Content)), onChunk)
}

func configureGeminiModel(m *genai.GenerativeModel, system string, req CompletionRequest) {
	if system != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}
	m.SetTemperature(float32(temperatureOrDefault(req.Temperature)))
	m.SetMaxOutputTokens(int32(maxTokensOrDefault(req.MaxTokens)))
}

func geminiHistory(history []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		contents = append(contents, &genai.Content{
			Role:  geminiRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return contents
}

// relayGemini hands every non-empty text part to onChunk until the stream
// is exhausted
func relayGemini(stream geminiStream, onChunk TokenHandler) error {
	for {
		resp, err := stream.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("gemini: stream: %w", err)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				text, ok := part.(genai.Text)
				if !ok || text == "" {
					continue
				}
				if err := onChunk(string(text)); err != nil {
					return err
				}
			}
		}
	}
}

func geminiRole(role string) string {
	if role == RoleAssistant {
		return "model"
	}
	return "user"
}
