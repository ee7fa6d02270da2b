// Package sources retrieves documents from upstream news providers.
package sources

import (
	"context"

	"github.com/DeafMist/topic-radar/internal/models"
)

// Source is a single upstream provider of documents.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Document, error)
}
