package service

import (
	"context"
	"sync"

	"recap-backend/models"
)

const testBaseURL = "https://www.courtlistener.com"

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

// stubSearcher returns canned results per query and records every call
type stubSearcher struct {
	mu      sync.Mutex
	results map[string][]models.RawOpinion
	errs    map[string]error
	calls   []string
	opts    []models.SearchOptions
}

func (s *stubSearcher) Search(ctx context.Context, query string, opts models.SearchOptions) ([]models.RawOpinion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, query)
	s.opts = append(s.opts, opts)
	if err := s.errs[query]; err != nil {
		return nil, err
	}
	return s.results[query], nil
}

func (s *stubSearcher) BaseURL() string {
	return testBaseURL
}

func (s *stubSearcher) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
