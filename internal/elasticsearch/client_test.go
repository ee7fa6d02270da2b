package elasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildSearchBodyDefaults(t *testing.T) {
	body := buildSearchBody(SearchParams{})

	require.Equal(t, 0, body["from"])
	require.Equal(t, 20, body["size"])
	query := body["query"].(map[string]any)["bool"].(map[string]any)
	require.Contains(t, query, "must")
	require.NotContains(t, query, "filter")
	require.Equal(t, []map[string]any{{"timestamp": map[string]any{"order": "desc"}}}, body["sort"])
}

func TestBuildSearchBodyFilters(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	body := buildSearchBody(SearchParams{
		Query:    "tariffs",
		Keywords: []string{"trade"},
		Source:   "dw",
		Language: "en",
		Size:     5000,
		From:     -3,
		Sort:     "timestamp:asc",
		Start:    &start,
	})

	require.Equal(t, 1000, body["size"])
	require.Equal(t, 0, body["from"])
	query := body["query"].(map[string]any)["bool"].(map[string]any)
	require.Len(t, query["must"], 1)
	filters := query["filter"].([]map[string]any)
	require.Len(t, filters, 4)
	require.Equal(t, map[string]any{"timestamp": map[string]any{"gte": "2024-03-01T00:00:00Z"}}, filters[3]["range"])
	require.Equal(t, []map[string]any{{"timestamp": map[string]any{"order": "asc"}}}, body["sort"])
}

func TestBuildSearchBodyIgnoresBadSortOrder(t *testing.T) {
	body := buildSearchBody(SearchParams{Sort: "title:sideways"})
	require.Equal(t, []map[string]any{{"title": map[string]any{"order": "desc"}}}, body["sort"])
}

func TestRecentDecodesHits(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &received)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[
			{"_source":{"id":"b","title":"Two","source":"hindu","text":"bakery award","language":"en","timestamp":"2024-03-01T12:00:00Z"}},
			{"_source":{"id":"a","title":"One","source":"dw","text":"trade tariffs","language":"en","timestamp":"2024-03-01T10:00:00Z"}}
		]}}`)
	}))
	defer srv.Close()

	client, err := New(srv.URL, "news", nil)
	require.NoError(t, err)

	docs, err := client.Recent(context.Background(), time.Now().Add(-time.Hour), 50)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "a", docs[0].ID)
	require.Equal(t, "hindu", docs[1].Source)

	require.EqualValues(t, 50, received["size"])
	require.NotNil(t, received["query"])
	require.Equal(t, []any{map[string]any{"timestamp": map[string]any{"order": "desc"}}}, received["sort"])
}

func TestSearchReportsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad query"}`)
	}))
	defer srv.Close()

	client, err := New(srv.URL, "news", nil)
	require.NoError(t, err)

	_, err = client.SearchDocuments(context.Background(), SearchParams{Query: "x"})
	require.ErrorContains(t, err, "bad query")
}
