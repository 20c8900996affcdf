package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"recap-backend/models"

	"go.uber.org/zap"
)

const (
	// DefaultCourtListenerBaseURL is the public CourtListener origin
	DefaultCourtListenerBaseURL = "https://www.courtlistener.com"
	// DefaultCourtListenerAPIPath is the REST API root below the origin
	DefaultCourtListenerAPIPath = "/api/rest/v3"
	// DefaultProviderTimeout bounds a single provider call
	DefaultProviderTimeout = 30 * time.Second
	// DefaultOrderBy ranks search hits by relevance
	DefaultOrderBy = "score desc"

	maxErrorBody = 4096
)

// ErrMissingID is returned when a lookup is issued without an identifier
var ErrMissingID = errors.New("courtlistener: id is required")

// ProviderError reports a failed call to the case search provider: a non-2xx
// status or a body that could not be decoded.
type ProviderError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("courtlistener %s: status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("courtlistener %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// CourtListenerConfig holds connection settings for the CourtListener API
type CourtListenerConfig struct {
	Token      string
	BaseURL    string
	APIPath    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// CourtListenerRepository queries the CourtListener REST API
type CourtListenerRepository struct {
	cfg    CourtListenerConfig
	logger *zap.Logger
}

// NewCourtListenerRepository creates a new CourtListener client, filling in defaults
func NewCourtListenerRepository(cfg CourtListenerConfig, logger *zap.Logger) *CourtListenerRepository {
	cfg.Token = strings.TrimSpace(cfg.Token)
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultCourtListenerBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.APIPath == "" {
		cfg.APIPath = DefaultCourtListenerAPIPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultProviderTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Token == "" {
		logger.Warn("COURTLISTENER_API_TOKEN not set, requests will be anonymous")
	}
	return &CourtListenerRepository{cfg: cfg, logger: logger}
}

// BaseURL returns the origin that relative opinion paths are resolved against
func (r *CourtListenerRepository) BaseURL() string {
	return r.cfg.BaseURL
}

type searchResponse struct {
	Count   int             `json:"count"`
	Results json.RawMessage `json:"results"`
}

// Search runs an opinion search and returns at most opts.Limit raw hits.
// Hits that are not JSON objects, or whose fields have unexpected types, are
// skipped rather than failing the batch.
func (r *CourtListenerRepository) Search(ctx context.Context, query string, opts models.SearchOptions) ([]models.RawOpinion, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "o")
	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = DefaultOrderBy
	}
	params.Set("order_by", orderBy)
	params.Set("format", "json")
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Court != "" {
		params.Set("court", opts.Court)
	}
	if opts.FiledAfter != "" {
		params.Set("filed_after", opts.FiledAfter)
	}
	if opts.FiledBefore != "" {
		params.Set("filed_before", opts.FiledBefore)
	}

	r.logger.Debug("searching courtlistener",
		zap.String("query", query),
		zap.Int("limit", opts.Limit),
	)

	body, err := r.get(ctx, "search", "/search/?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProviderError{Op: "search", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	var items []json.RawMessage
	if len(resp.Results) == 0 || json.Unmarshal(resp.Results, &items) != nil {
		r.logger.Warn("unexpected search response format, treating as empty",
			zap.String("query", query),
		)
		return []models.RawOpinion{}, nil
	}

	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
	}

	opinions := make([]models.RawOpinion, 0, len(items))
	for i, item := range items {
		opinion, err := decodeOpinion(item)
		if err != nil {
			r.logger.Warn("skipping malformed search result",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		opinions = append(opinions, opinion)
	}

	r.logger.Debug("courtlistener search complete",
		zap.String("query", query),
		zap.Int("total", resp.Count),
		zap.Int("returned", len(opinions)),
	)
	return opinions, nil
}

// GetDocket retrieves a docket by id as raw JSON
func (r *CourtListenerRepository) GetDocket(ctx context.Context, id string) (json.RawMessage, error) {
	return r.getJSON(ctx, "docket", "dockets", id)
}

// GetRecapDocument retrieves a RECAP document by id as raw JSON
func (r *CourtListenerRepository) GetRecapDocument(ctx context.Context, id string) (json.RawMessage, error) {
	return r.getJSON(ctx, "recap-document", "recap-documents", id)
}

func (r *CourtListenerRepository) getJSON(ctx context.Context, op, resource, id string) (json.RawMessage, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingID
	}
	body, err := r.get(ctx, op, fmt.Sprintf("/%s/%s/", resource, url.PathEscape(id)))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &ProviderError{Op: op, Err: errors.New("response is not valid JSON")}
	}
	return json.RawMessage(body), nil
}

// get issues an authenticated GET below the API root and returns the body of
// a 2xx response
func (r *CourtListenerRepository) get(ctx context.Context, op, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+r.cfg.APIPath+endpoint, nil)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Token "+r.cfg.Token)
	}

	resp, err := r.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ProviderError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(errBody))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return body, nil
}

func decodeOpinion(item json.RawMessage) (models.RawOpinion, error) {
	var opinion models.RawOpinion
	trimmed := strings.TrimSpace(string(item))
	if !strings.HasPrefix(trimmed, "{") {
		return opinion, errors.New("result is not an object")
	}
	if err := json.Unmarshal(item, &opinion); err != nil {
		return opinion, fmt.Errorf("failed to decode result: %w", err)
	}
	return opinion, nil
}
