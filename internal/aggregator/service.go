// Package aggregator runs one collect -> cluster -> summarize pass.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DeafMist/topic-radar/internal/logger"
	"github.com/DeafMist/topic-radar/internal/models"
	"github.com/DeafMist/topic-radar/internal/summarizer"
	"github.com/DeafMist/topic-radar/internal/topics"
)

// Collector supplies one batch of documents.
type Collector interface {
	Collect(ctx context.Context) ([]models.Document, error)
}

// Service wires the collection, clustering and summarization stages.
type Service struct {
	collector  Collector
	summarizer summarizer.Summarizer
	opts       topics.Options
	log        *slog.Logger
}

// New creates a Service.
func New(collector Collector, s summarizer.Summarizer, opts topics.Options, log *slog.Logger) *Service {
	if s == nil {
		s = summarizer.Disabled{}
	}
	return &Service{collector: collector, summarizer: s, opts: opts, log: logger.OrDiscard(log)}
}

// Aggregate collects a batch, clusters it and summarizes every cluster.
// Source and summarizer failures degrade the result; a clustering failure
// aborts the run.
func (s *Service) Aggregate(ctx context.Context) (*models.AggregateResult, error) {
	start := time.Now()

	docs, err := s.collector.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect documents: %w", err)
	}

	clusters, err := topics.Cluster(docs, s.opts)
	if err != nil {
		return nil, fmt.Errorf("cluster %d documents: %w", len(docs), err)
	}

	perspectives := make([]models.Perspective, 0, len(clusters))
	for _, c := range clusters {
		perspectives = append(perspectives, summarizer.Perspective(ctx, s.summarizer, c, s.log))
	}

	s.log.Info("aggregation complete",
		slog.Int("documents", len(docs)),
		slog.Int("clusters", len(clusters)),
		slog.Duration("took", time.Since(start)),
	)

	return &models.AggregateResult{
		TotalArticles:      len(docs),
		TopicClusters:      len(clusters),
		GlobalPerspectives: perspectives,
	}, nil
}
