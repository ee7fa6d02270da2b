package models

import "time"

// Document is a single news item as collected from an upstream source.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
	Keywords  []string  `json:"keywords"`
	Sentiment *float64  `json:"sentiment,omitempty"`
	URLs      []string  `json:"urls,omitempty"`
}

// TopicCluster groups documents that discuss the same event.
type TopicCluster struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Keywords        []string   `json:"related_keywords"`
	SimilarityScore float64    `json:"similarity_score"`
	Documents       []Document `json:"articles"`
}

// Sources lists the source names of the cluster members in member order.
func (c TopicCluster) Sources() []string {
	out := make([]string, 0, len(c.Documents))
	for _, d := range c.Documents {
		out = append(out, d.Source)
	}
	return out
}

// Perspective is the described, summarized view of one cluster.
type Perspective struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Sources  []string `json:"sources"`
	Keywords []string `json:"keywords"`
}

// AggregateResult is the outcome of one aggregation run.
type AggregateResult struct {
	TotalArticles      int           `json:"total_articles"`
	TopicClusters      int           `json:"topic_clusters"`
	GlobalPerspectives []Perspective `json:"global_perspectives"`
}
