package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recap-backend/models"
	"recap-backend/observability"

	"go.uber.org/zap"
)

const (
	// DefaultResolveLimit is the result limit for each escalation attempt
	DefaultResolveLimit = 5
	// DefaultProviderTimeout bounds each escalation attempt
	DefaultProviderTimeout = 30 * time.Second
)

var (
	ErrSearcherNotSet = errors.New("case searcher not set")
	ErrEmptyQueryPlan = errors.New("query plan has no candidates")
	ErrEmptyQuery     = errors.New("search query is empty")
)

// CaseSearcher is the case search provider consumed by the pipeline
type CaseSearcher interface {
	Search(ctx context.Context, query string, opts models.SearchOptions) ([]models.RawOpinion, error)
	// BaseURL is the origin that relative case paths are resolved against
	BaseURL() string
}

// CaseService resolves user utterances into case records
type CaseService struct {
	searcher CaseSearcher
	profile  models.DomainProfile
	limit    int
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// CaseServiceOption is a functional option for CaseService
type CaseServiceOption func(*CaseService)

// CaseWithSearcher sets the case search provider
func CaseWithSearcher(searcher CaseSearcher) CaseServiceOption {
	return func(s *CaseService) {
		s.searcher = searcher
	}
}

// CaseWithProfile sets the domain profile that drives query escalation
func CaseWithProfile(profile models.DomainProfile) CaseServiceOption {
	return func(s *CaseService) {
		s.profile = profile.WithDefaults()
	}
}

// CaseWithLimit sets the per-attempt result limit
func CaseWithLimit(limit int) CaseServiceOption {
	return func(s *CaseService) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// CaseWithTimeout sets the per-attempt timeout
func CaseWithTimeout(timeout time.Duration) CaseServiceOption {
	return func(s *CaseService) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// CaseWithLogger sets the logger
func CaseWithLogger(logger *zap.Logger) CaseServiceOption {
	return func(s *CaseService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// CaseWithMetrics sets the metrics sink
func CaseWithMetrics(metrics *observability.Metrics) CaseServiceOption {
	return func(s *CaseService) {
		s.metrics = metrics
	}
}

// NewCaseService creates a new case service
func NewCaseService(opts ...CaseServiceOption) *CaseService {
	s := &CaseService{
		profile: models.MedicalDeviceProfile(),
		limit:   DefaultResolveLimit,
		timeout: DefaultProviderTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the active domain profile
func (s *CaseService) Profile() models.DomainProfile {
	return s.profile
}

// ResolveCases runs the query escalation for an utterance and returns the
// first non-empty result set, or an empty slice when every attempt comes back
// empty or fails. Provider failures never reach the caller; the only error is
// a plan with no candidates.
func (s *CaseService) ResolveCases(ctx context.Context, utterance string) ([]models.CaseRecord, error) {
	if s.searcher == nil {
		return nil, ErrSearcherNotSet
	}

	plan := BuildQueryPlan(s.profile, utterance)
	if len(plan) == 0 {
		return nil, ErrEmptyQueryPlan
	}

	s.logger.Info("resolving cases",
		zap.String("profile", s.profile.Name),
		zap.Strings("queries", plan.Queries()),
	)

	for _, candidate := range plan {
		if ctx.Err() != nil {
			s.logger.Info("request cancelled, abandoning escalation", zap.Error(ctx.Err()))
			break
		}

		records, err := s.attempt(ctx, candidate)
		if err != nil {
			s.metrics.RecordSearchAttempt(candidate.Stage, observability.OutcomeError)
			s.logger.Warn("case search attempt failed",
				zap.String("stage", candidate.Stage),
				zap.String("query", candidate.Query),
				zap.Error(err),
			)
			continue
		}

		s.logger.Info("case search attempt complete",
			zap.String("stage", candidate.Stage),
			zap.String("query", candidate.Query),
			zap.Int("cases", len(records)),
		)
		if len(records) == 0 {
			s.metrics.RecordSearchAttempt(candidate.Stage, observability.OutcomeEmpty)
			continue
		}

		s.metrics.RecordSearchAttempt(candidate.Stage, observability.OutcomeHit)
		s.metrics.RecordResolved(len(records))
		return records, nil
	}

	s.logger.Info("no cases found with any search strategy")
	s.metrics.RecordResolved(0)
	return []models.CaseRecord{}, nil
}

// attempt issues one escalation search under the per-call timeout
func (s *CaseService) attempt(ctx context.Context, candidate QueryCandidate) ([]models.CaseRecord, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raws, err := s.searcher.Search(callCtx, candidate.Query, models.SearchOptions{Limit: s.limit})
	if err != nil {
		return nil, err
	}
	return NormalizeOpinions(raws, s.searcher.BaseURL()), nil
}

// SearchCasesRequest represents a direct search request
type SearchCasesRequest struct {
	Query   string
	Options models.SearchOptions
}

// SearchCasesResult represents the result of a direct search
type SearchCasesResult struct {
	Cases   []models.CaseRecord
	Context string
}

// SearchCases runs a single search without escalation. Unlike ResolveCases,
// provider errors are returned.
func (s *CaseService) SearchCases(ctx context.Context, req SearchCasesRequest) (*SearchCasesResult, error) {
	if s.searcher == nil {
		return nil, ErrSearcherNotSet
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	opts := req.Options
	if opts.Limit <= 0 {
		opts.Limit = s.limit
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raws, err := s.searcher.Search(callCtx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search cases: %w", err)
	}

	cases := NormalizeOpinions(raws, s.searcher.BaseURL())
	return &SearchCasesResult{
		Cases:   cases,
		Context: FormatContext(cases),
	}, nil
}
