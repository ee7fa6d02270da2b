package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/DeafMist/topic-radar/internal/models"
)

// RecentLister is the part of the document store the Stored source needs.
type RecentLister interface {
	Recent(ctx context.Context, since time.Time, limit int) ([]models.Document, error)
}

// Stored exposes documents ingested by the worker within a look-back window.
type Stored struct {
	store  RecentLister
	window time.Duration
	limit  int
	now    func() time.Time
}

// NewStored creates a source over store covering the last window.
func NewStored(store RecentLister, window time.Duration, limit int) *Stored {
	return &Stored{store: store, window: window, limit: limit, now: time.Now}
}

// Name returns the source name used in logs and cache keys.
func (s *Stored) Name() string { return "stored" }

// Fetch lists stored documents newer than the window.
func (s *Stored) Fetch(ctx context.Context) ([]models.Document, error) {
	docs, err := s.store.Recent(ctx, s.now().Add(-s.window), s.limit)
	if err != nil {
		return nil, fmt.Errorf("list stored documents: %w", err)
	}
	return docs, nil
}
