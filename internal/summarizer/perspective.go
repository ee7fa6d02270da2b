package summarizer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DeafMist/topic-radar/internal/logger"
	"github.com/DeafMist/topic-radar/internal/models"
)

// Placeholder replaces the summary of a cluster the summarizer could not handle.
const Placeholder = "Unable to generate summary due to technical difficulties."

// ErrDisabled is returned by Disabled for every cluster.
var ErrDisabled = errors.New("summarizer disabled: no api key configured")

// Summarizer produces prose for one described cluster.
type Summarizer interface {
	Summarize(ctx context.Context, cluster models.TopicCluster) (string, error)
}

// Disabled is used when no model is configured.
type Disabled struct{}

// Summarize always fails with ErrDisabled.
func (Disabled) Summarize(context.Context, models.TopicCluster) (string, error) {
	return "", ErrDisabled
}

// Perspective summarizes cluster with s. Any failure is logged and replaced
// by Placeholder; title, sources and keywords are reported either way.
func Perspective(ctx context.Context, s Summarizer, cluster models.TopicCluster, log *slog.Logger) models.Perspective {
	log = logger.OrDiscard(log)

	p := models.Perspective{
		Title:    displayTitle(cluster.Title),
		Sources:  cluster.Sources(),
		Keywords: cluster.Keywords,
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}

	summary, err := s.Summarize(ctx, cluster)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, ErrDisabled) {
			level = slog.LevelDebug
		}
		log.Log(ctx, level, "summarize cluster",
			slog.String("cluster", cluster.ID),
			slog.String("title", cluster.Title),
			slog.Any("err", err),
		)
		p.Summary = Placeholder
		return p
	}

	p.Summary = summary
	return p
}

func displayTitle(title string) string {
	if title == "" {
		return "Global Topic"
	}
	return "Global Topic: " + title
}
