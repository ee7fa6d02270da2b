package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/topic-radar/internal/aggregator"
	"github.com/DeafMist/topic-radar/internal/config"
	"github.com/DeafMist/topic-radar/internal/elasticsearch"
	"github.com/DeafMist/topic-radar/internal/models"
	"github.com/DeafMist/topic-radar/internal/topics"
)

type stubStore struct {
	healthErr error
	params    elasticsearch.SearchParams
}

func (s *stubStore) Health(context.Context) error { return s.healthErr }

func (s *stubStore) SearchDocuments(_ context.Context, p elasticsearch.SearchParams) (*elasticsearch.SearchResult, error) {
	s.params = p
	return &elasticsearch.SearchResult{Total: 1, Items: []models.Document{{ID: "a"}}}, nil
}

type stubCollector []models.Document

func (s stubCollector) Collect(context.Context) ([]models.Document, error) { return s, nil }

type brokenRunner struct{}

func (brokenRunner) Aggregate(context.Context) (*models.AggregateResult, error) {
	return nil, errors.New("cluster 3 documents: similarity matrix: feature vectors have different dimensions")
}

func newTestServer(store documentStore, runner aggregateRunner) *server {
	return &server{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg: &config.API{
			DefaultPage: 20,
			MaxPage:     100,
			CORSOrigins: []string{"https://app.example"},
		},
		store:     store,
		aggregate: runner,
	}
}

func TestHandleAggregate(t *testing.T) {
	docs := stubCollector{
		{ID: "a", Source: "Deutsche Welle", Text: "trade tariffs rise between nations"},
		{ID: "b", Source: "The Hindu", Text: "new tariffs imposed in trade dispute"},
		{ID: "c", Source: "The Hindu", Text: "local bakery wins award"},
	}
	svc := aggregator.New(docs, nil, topics.DefaultOptions(), nil)
	srv := newTestServer(&stubStore{}, svc)

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/news/aggregate", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalArticles      int `json:"total_articles"`
		TopicClusters      int `json:"topic_clusters"`
		GlobalPerspectives []struct {
			Title    string   `json:"title"`
			Summary  string   `json:"summary"`
			Sources  []string `json:"sources"`
			Keywords []string `json:"keywords"`
		} `json:"global_perspectives"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, 3, body.TotalArticles)
	require.Equal(t, 2, body.TopicClusters)
	require.Len(t, body.GlobalPerspectives, 2)
	require.Equal(t, []string{"Deutsche Welle", "The Hindu"}, body.GlobalPerspectives[0].Sources)
	require.NotEmpty(t, body.GlobalPerspectives[0].Summary)
}

func TestHandleAggregateFailure(t *testing.T) {
	srv := newTestServer(&stubStore{}, brokenRunner{})

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/news/aggregate", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "different dimensions")
}

func TestHandleSearchParams(t *testing.T) {
	store := &stubStore{}
	srv := newTestServer(store, brokenRunner{})

	req := httptest.NewRequest(http.MethodGet, "/news?q=tariffs&keywords=trade,+war&size=500&language=en&start=2024-01-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "tariffs", store.params.Query)
	require.Equal(t, []string{"trade", "war"}, store.params.Keywords)
	require.Equal(t, 100, store.params.Size)
	require.Equal(t, "en", store.params.Language)
	require.NotNil(t, store.params.Start)
	require.Nil(t, store.params.End)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubStore{healthErr: errors.New("red")}, brokenRunner{})
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	srv = newTestServer(&stubStore{}, brokenRunner{})
	rec = httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(&stubStore{}, brokenRunner{})

	req := httptest.NewRequest(http.MethodOptions, "/news/aggregate", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestClampInt(t *testing.T) {
	require.Equal(t, 20, clampInt("", 20, 100))
	require.Equal(t, 20, clampInt("abc", 20, 100))
	require.Equal(t, 20, clampInt("-5", 20, 100))
	require.Equal(t, 100, clampInt("500", 20, 100))
	require.Equal(t, 42, clampInt("42", 20, 100))
}
