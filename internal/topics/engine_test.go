package topics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/topic-radar/internal/models"
	"github.com/DeafMist/topic-radar/internal/topics"
)

func docs(texts ...string) []models.Document {
	out := make([]models.Document, len(texts))
	for i, text := range texts {
		out[i] = models.Document{
			ID:       string(rune('A' + i)),
			Source:   "wire",
			Text:     text,
			Language: "en",
		}
	}
	return out
}

func memberIDs(c models.TopicCluster) []string {
	ids := make([]string, 0, len(c.Documents))
	for _, d := range c.Documents {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestClusterTariffExample(t *testing.T) {
	batch := docs(
		"trade tariffs rise between nations",
		"new tariffs imposed in trade dispute",
		"local bakery wins award",
	)

	clusters, err := topics.Cluster(batch, topics.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	require.Equal(t, []string{"A", "B"}, memberIDs(clusters[0]))
	require.Greater(t, clusters[0].SimilarityScore, 0.3)
	require.Equal(t, "tariffs trade nations", clusters[0].Title)
	require.Equal(t, []string{"tariffs", "trade", "nations", "rise", "dispute", "imposed", "new"}, clusters[0].Keywords)

	require.Equal(t, []string{"C"}, memberIDs(clusters[1]))
	require.Equal(t, 1.0, clusters[1].SimilarityScore)
	require.Equal(t, "award bakery local", clusters[1].Title)
	require.Equal(t, []string{"award", "bakery", "local", "wins"}, clusters[1].Keywords)

	require.NotEmpty(t, clusters[0].ID)
	require.NotEqual(t, clusters[0].ID, clusters[1].ID)
}

func TestClusterEmptyBatch(t *testing.T) {
	clusters, err := topics.Cluster(nil, topics.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, clusters)
	require.Empty(t, clusters)
}

func TestClusterSingleton(t *testing.T) {
	clusters, err := topics.Cluster(docs("volcano erupts near village"), topics.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	require.Equal(t, []string{"A"}, memberIDs(clusters[0]))
	require.Equal(t, 1.0, clusters[0].SimilarityScore)
	require.Equal(t, "erupts near village", clusters[0].Title)
}

func TestClusterEmptyContent(t *testing.T) {
	clusters, err := topics.Cluster(docs("", "", "the of and"), topics.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, clusters, 3)
	for _, c := range clusters {
		require.Equal(t, "", c.Title)
		require.Empty(t, c.Keywords)
		require.Len(t, c.Documents, 1)
		require.Equal(t, 1.0, c.SimilarityScore)
	}
}

func TestClusterStopWordOnlyDocumentsStaySeparate(t *testing.T) {
	clusters, err := topics.Cluster(docs("first two get made", "first two see last"), topics.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	for _, c := range clusters {
		require.Equal(t, "", c.Title)
		require.Empty(t, c.Keywords)
	}
}

func TestClusterIsDeterministicAndTotal(t *testing.T) {
	batch := docs(
		"central bank raises interest rates again",
		"football club signs new striker",
		"interest rates hike by central bank surprises markets",
		"striker scores twice for football club",
		"heatwave breaks temperature records",
		"markets fall after bank rates decision",
		"",
	)

	first, err := topics.Cluster(batch, topics.DefaultOptions())
	require.NoError(t, err)
	second, err := topics.Cluster(batch, topics.DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	seen := make(map[string]int)
	for i := range first {
		require.Equal(t, memberIDs(first[i]), memberIDs(second[i]))
		require.Equal(t, first[i].Title, second[i].Title)
		require.Equal(t, first[i].Keywords, second[i].Keywords)
		require.Equal(t, first[i].SimilarityScore, second[i].SimilarityScore)
		for _, id := range memberIDs(first[i]) {
			seen[id]++
		}
	}
	require.Len(t, seen, len(batch))
	for id, n := range seen {
		require.Equal(t, 1, n, "document %s", id)
	}
}

func TestClusterThresholdOption(t *testing.T) {
	batch := docs(
		"trade tariffs rise between nations",
		"new tariffs imposed in trade dispute",
	)

	opts := topics.DefaultOptions()
	opts.Threshold = 0.9
	clusters, err := topics.Cluster(batch, opts)
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	opts.Threshold = 0
	clusters, err = topics.Cluster(batch, opts)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
}
