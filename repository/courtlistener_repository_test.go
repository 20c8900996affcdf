package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"recap-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *CourtListenerRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewCourtListenerRepository(CourtListenerConfig{
		Token:      "secret",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	}, nil)
}

func TestSearch_RequestShape(t *testing.T) {
	var got *http.Request
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":0,"results":[]}`))
	})

	_, err := repo.Search(context.Background(), "medical device liability", models.SearchOptions{
		Limit:       5,
		Court:       "mnd",
		FiledAfter:  "2020-01-01",
		FiledBefore: "2021-01-01",
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/rest/v3/search/", got.URL.Path)
	assert.Equal(t, "Token secret", got.Header.Get("Authorization"))

	q := got.URL.Query()
	assert.Equal(t, "medical device liability", q.Get("q"))
	assert.Equal(t, "o", q.Get("type"))
	assert.Equal(t, "score desc", q.Get("order_by"))
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "5", q.Get("limit"))
	assert.Equal(t, "mnd", q.Get("court"))
	assert.Equal(t, "2020-01-01", q.Get("filed_after"))
	assert.Equal(t, "2021-01-01", q.Get("filed_before"))
}

func TestSearch_OmitsEmptyFilters(t *testing.T) {
	var got *http.Request
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := repo.Search(context.Background(), "x", models.SearchOptions{OrderBy: "dateFiled desc"})
	require.NoError(t, err)

	q := got.URL.Query()
	assert.Equal(t, "dateFiled desc", q.Get("order_by"))
	assert.False(t, q.Has("court"))
	assert.False(t, q.Has("filed_after"))
	assert.False(t, q.Has("limit"))
}

func TestSearch_DecodesAndLimits(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"count": 3,
			"results": [
				{"caseName": "A v. B", "court": "D. Minn.", "citation": ["1 F.4th 2"], "citeCount": 4, "cites": [9, 10]},
				{"caseName": "C v. D", "snippet": "a <mark>device</mark>"},
				{"caseName": "E v. F"}
			]
		}`))
	})

	raws, err := repo.Search(context.Background(), "device", models.SearchOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, raws, 2)

	require.NotNil(t, raws[0].CaseName)
	assert.Equal(t, "A v. B", *raws[0].CaseName)
	assert.Equal(t, []string{"1 F.4th 2"}, raws[0].Citation)
	require.NotNil(t, raws[0].CiteCount)
	assert.Equal(t, 4, *raws[0].CiteCount)
	assert.Equal(t, []int{9, 10}, raws[0].Cites)
	assert.Nil(t, raws[0].Snippet)
	assert.Equal(t, "C v. D", *raws[1].CaseName)
}

func TestSearch_SkipsMalformedResults(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [
			"not an object",
			{"caseName": 42},
			{"caseName": "Good v. Record"},
			null
		]}`))
	})

	raws, err := repo.Search(context.Background(), "x", models.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "Good v. Record", *raws[0].CaseName)
}

func TestSearch_MissingResultsIsEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"missing":   `{"count": 0}`,
		"null":      `{"results": null}`,
		"not array": `{"results": {"caseName": "x"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			raws, err := repo.Search(context.Background(), "x", models.SearchOptions{})
			require.NoError(t, err)
			assert.NotNil(t, raws)
			assert.Empty(t, raws)
		})
	}
}

func TestSearch_NonSuccessStatus(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Invalid token."}`, http.StatusUnauthorized)
	})

	_, err := repo.Search(context.Background(), "x", models.SearchOptions{})
	require.Error(t, err)

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, http.StatusUnauthorized, providerErr.StatusCode)
	assert.Contains(t, providerErr.Body, "Invalid token.")
	assert.Contains(t, err.Error(), "status 401")
}

func TestSearch_UndecodableBody(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := repo.Search(context.Background(), "x", models.SearchOptions{})

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Zero(t, providerErr.StatusCode)
	assert.Error(t, providerErr.Unwrap())
}

func TestSearch_ContextCancelled(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Search(ctx, "x", models.SearchOptions{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetDocket(t *testing.T) {
	var path string
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"id": 123, "case_name": "A v. B"}`))
	})

	raw, err := repo.GetDocket(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, "/api/rest/v3/dockets/123/", path)
	assert.JSONEq(t, `{"id": 123, "case_name": "A v. B"}`, string(raw))
}

func TestGetRecapDocument(t *testing.T) {
	var path string
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"id": 9}`))
	})

	_, err := repo.GetRecapDocument(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, "/api/rest/v3/recap-documents/9/", path)
}

func TestGetDocket_Errors(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/rest/v3/dockets/404/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := repo.GetDocket(context.Background(), " ")
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = repo.GetDocket(context.Background(), "404")
	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, http.StatusNotFound, providerErr.StatusCode)

	_, err = repo.GetDocket(context.Background(), "1")
	require.True(t, errors.As(err, &providerErr))
	assert.Zero(t, providerErr.StatusCode)
}

func TestNewCourtListenerRepository_Defaults(t *testing.T) {
	repo := NewCourtListenerRepository(CourtListenerConfig{}, nil)

	assert.Equal(t, DefaultCourtListenerBaseURL, repo.BaseURL())
	assert.Equal(t, DefaultCourtListenerAPIPath, repo.cfg.APIPath)
	assert.Equal(t, DefaultProviderTimeout, repo.cfg.Timeout)
	assert.NotNil(t, repo.cfg.HTTPClient)
}
