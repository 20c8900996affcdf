package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"recap-backend/llm"
	"recap-backend/models"
	"recap-backend/observability"
	"recap-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoMessages        = errors.New("chat request has no user message")
	ErrCompleterNotSet   = errors.New("completer not set")
	ErrCaseServiceNotSet = errors.New("case service not set")
)

// ChatService augments a conversation with case law and streams the completion
type ChatService struct {
	caseService *CaseService
	completer   llm.Completer
	store       storage.Storage
	model       string
	temperature float64
	maxTokens   int
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

// ChatWithCaseService sets the case service used to resolve context
func ChatWithCaseService(caseService *CaseService) ChatServiceOption {
	return func(s *ChatService) {
		s.caseService = caseService
	}
}

// ChatWithCompleter sets the completion provider
func ChatWithCompleter(completer llm.Completer) ChatServiceOption {
	return func(s *ChatService) {
		s.completer = completer
	}
}

// ChatWithStorage sets where exchange logs are written
func ChatWithStorage(store storage.Storage) ChatServiceOption {
	return func(s *ChatService) {
		s.store = store
	}
}

// ChatWithGeneration sets the model and sampling parameters. A negative
// temperature or non-positive maxTokens keeps the default.
func ChatWithGeneration(model string, temperature float64, maxTokens int) ChatServiceOption {
	return func(s *ChatService) {
		s.model = model
		if temperature >= 0 {
			s.temperature = temperature
		}
		if maxTokens > 0 {
			s.maxTokens = maxTokens
		}
	}
}

// ChatWithLogger sets the logger
func ChatWithLogger(logger *zap.Logger) ChatServiceOption {
	return func(s *ChatService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// ChatWithMetrics sets the metrics sink
func ChatWithMetrics(metrics *observability.Metrics) ChatServiceOption {
	return func(s *ChatService) {
		s.metrics = metrics
	}
}

// NewChatService creates a new chat service
func NewChatService(opts ...ChatServiceOption) *ChatService {
	s := &ChatService{
		temperature: llm.DefaultTemperature,
		maxTokens:   llm.DefaultMaxTokens,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChatRequest represents a chat request
type ChatRequest struct {
	Messages []models.ChatMessage
}

// PreparedChat is a request whose case context has been resolved and whose
// completion has not started yet
type PreparedChat struct {
	Exchange   *models.ExchangeLog
	Completion llm.CompletionRequest
}

// PrepareChat resolves cases for the latest message and builds the augmented
// completion request
func (s *ChatService) PrepareChat(ctx context.Context, req ChatRequest) (*PreparedChat, error) {
	if s.caseService == nil {
		return nil, ErrCaseServiceNotSet
	}
	if len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}

	utterance := strings.TrimSpace(req.Messages[len(req.Messages)-1].Content)
	if utterance == "" {
		return nil, ErrNoMessages
	}
	s.logger.Info("processing query", zap.String("query", utterance))

	cases, err := s.caseService.ResolveCases(ctx, utterance)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cases: %w", err)
	}

	casesContext := FormatContext(cases)
	s.logger.Debug("formatted case context",
		zap.Int("cases", len(cases)),
		zap.Int("context_length", len(casesContext)),
	)

	messages := make([]llm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := m.Role
		if role == "" {
			role = models.RoleUser
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}
	temperature := s.temperature

	return &PreparedChat{
		Exchange: &models.ExchangeLog{
			ID:             uuid.New(),
			Query:          utterance,
			Cases:          cases,
			FormattedCases: casesContext,
			StartedAt:      s.now(),
		},
		Completion: llm.CompletionRequest{
			Model:       s.model,
			System:      BuildSystemPrompt(s.caseService.Profile(), casesContext),
			Messages:    messages,
			Temperature: &temperature,
			MaxTokens:   s.maxTokens,
		},
	}, nil
}

// StreamChatResult represents the result of a finished stream
type StreamChatResult struct {
	ExchangeKey string
	Response    string
}

// StreamChat streams the completion for a prepared chat to sink, recording
// every chunk in the exchange log. The log is saved whether or not the
// stream succeeds.
func (s *ChatService) StreamChat(ctx context.Context, prepared *PreparedChat, sink llm.TokenHandler) (*StreamChatResult, error) {
	if s.completer == nil {
		return nil, ErrCompleterNotSet
	}

	exchange := prepared.Exchange
	provider := s.completer.Name()

	streamErr := s.completer.Stream(ctx, prepared.Completion, func(chunk string) error {
		exchange.Chunks = append(exchange.Chunks, chunk)
		s.metrics.RecordChunk(provider)
		return sink(chunk)
	})
	s.metrics.RecordStream(streamErr == nil)

	key := s.saveExchange(exchange)

	if streamErr != nil {
		s.logger.Error("completion stream failed",
			zap.String("exchange_id", exchange.ID.String()),
			zap.String("provider", provider),
			zap.Error(streamErr),
		)
		return &StreamChatResult{ExchangeKey: key, Response: exchange.Response()}, fmt.Errorf("completion stream failed: %w", streamErr)
	}

	return &StreamChatResult{ExchangeKey: key, Response: exchange.Response()}, nil
}

// saveExchange writes the exchange log and returns its key, or "" when no
// storage is configured or the write failed
func (s *ChatService) saveExchange(exchange *models.ExchangeLog) string {
	if s.store == nil {
		return ""
	}

	key := storage.ExchangeLogKey(exchange.ID, exchange.StartedAt)
	// The request context may already be cancelled by a disconnected client
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	location, err := s.store.Put(ctx, key, strings.NewReader(exchange.Render()))
	if err != nil {
		s.logger.Warn("failed to save exchange log",
			zap.String("exchange_id", exchange.ID.String()),
			zap.Error(err),
		)
		return ""
	}

	s.logger.Info("exchange log saved", zap.String("location", location))
	return key
}

// GetExchangeLog returns the stored transcript for key
func (s *ChatService) GetExchangeLog(ctx context.Context, key string) (string, error) {
	if s.store == nil {
		return "", storage.ErrNotFound
	}

	rc, err := s.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var b strings.Builder
	if _, err := io.Copy(&b, rc); err != nil {
		return "", fmt.Errorf("failed to read exchange log: %w", err)
	}
	return b.String(), nil
}
