// Package topics groups a batch of documents into topic clusters using
// TF-IDF vectors, pairwise cosine similarity and greedy seed-anchored
// assignment, then labels each cluster with its highest-weighted terms.
package topics

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/DeafMist/topic-radar/internal/models"
)

// Options parameterizes one clustering run.
type Options struct {
	Threshold    float64
	Mode         Mode
	TitleTerms   int
	KeywordTerms int
	Language     string
}

// DefaultOptions returns the standard clustering parameters.
func DefaultOptions() Options {
	return Options{
		Threshold:    0.3,
		Mode:         ModeSeed,
		TitleTerms:   3,
		KeywordTerms: 10,
		Language:     DefaultLanguage,
	}
}

// Cluster partitions docs into described topic clusters. Every document ends
// up in exactly one cluster; clusters come out in seed order and members in
// the order they were admitted. The run is pure with respect to docs and opts.
func Cluster(docs []models.Document, opts Options) ([]models.TopicCluster, error) {
	if len(docs) == 0 {
		return []models.TopicCluster{}, nil
	}

	bodies := make([]string, len(docs))
	for i, d := range docs {
		bodies[i] = d.Text
	}

	matrix := NewVectorizer(opts.Language).Fit(bodies)

	sim, err := SimilarityMatrix(matrix.Rows)
	if err != nil {
		return nil, fmt.Errorf("similarity matrix: %w", err)
	}

	groups, err := GroupIndices(len(docs), sim, opts.Threshold, opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("group documents: %w", err)
	}

	clusters := make([]models.TopicCluster, 0, len(groups))
	for _, g := range groups {
		desc := Describe(matrix, sim, g, opts.TitleTerms, opts.KeywordTerms)

		members := make([]models.Document, 0, len(g.Members))
		for _, idx := range g.Members {
			members = append(members, docs[idx])
		}

		clusters = append(clusters, models.TopicCluster{
			ID:              uuid.NewString(),
			Title:           desc.Title,
			Keywords:        desc.Keywords,
			SimilarityScore: desc.Score,
			Documents:       members,
		})
	}

	return clusters, nil
}
