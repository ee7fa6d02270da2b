package sources

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DeafMist/topic-radar/internal/cache"
	"github.com/DeafMist/topic-radar/internal/logger"
	"github.com/DeafMist/topic-radar/internal/models"
)

// Collector fetches every source concurrently and merges the results into one batch.
type Collector struct {
	sources     []Source
	cache       *cache.TTL[[]models.Document]
	maxParallel int
	log         *slog.Logger
}

// NewCollector creates a collector. Each source's documents are reused for
// staleness before it is fetched again; at most maxParallel sources are
// fetched at once.
func NewCollector(sources []Source, staleness time.Duration, maxParallel int, log *slog.Logger) *Collector {
	if maxParallel <= 0 {
		maxParallel = len(sources)
	}
	if maxParallel <= 0 {
		maxParallel = 1
	}
	capacity := len(sources)
	if capacity == 0 {
		capacity = 1
	}
	return &Collector{
		sources:     sources,
		cache:       cache.New[[]models.Document](capacity, staleness),
		maxParallel: maxParallel,
		log:         logger.OrDiscard(log),
	}
}

// Collect returns the batch: documents of every source in source order, with
// later duplicates of an ID dropped. A failing source contributes nothing and
// does not affect the others. Only cancellation of ctx is reported as an error.
func (c *Collector) Collect(ctx context.Context) ([]models.Document, error) {
	results := make([][]models.Document, len(c.sources))

	var g errgroup.Group
	g.SetLimit(c.maxParallel)

	for i, src := range c.sources {
		i, src := i, src
		g.Go(func() error {
			results[i] = c.fetch(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	batch := make([]models.Document, 0)
	for _, docs := range results {
		for _, d := range docs {
			if d.ID != "" {
				if _, dup := seen[d.ID]; dup {
					continue
				}
				seen[d.ID] = struct{}{}
			}
			batch = append(batch, d)
		}
	}
	return batch, nil
}

func (c *Collector) fetch(ctx context.Context, src Source) []models.Document {
	name := src.Name()
	if docs, ok := c.cache.Get(name); ok {
		c.log.Debug("source served from cache", slog.String("source", name), slog.Int("count", len(docs)))
		return docs
	}

	start := time.Now()
	docs, err := src.Fetch(ctx)
	if err != nil {
		c.log.Error("source fetch failed", slog.String("source", name), slog.Any("err", err))
		return nil
	}

	c.cache.Put(name, docs)
	c.log.Info("source fetched",
		slog.String("source", name),
		slog.Int("count", len(docs)),
		slog.Duration("took", time.Since(start)),
	)
	return docs
}
