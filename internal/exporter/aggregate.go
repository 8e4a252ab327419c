package exporter

import (
	"context"
	"fmt"

	"github.com/sipico/submission-metrics/internal/storage"
)

// CountStore computes per-event submission counts.
type CountStore interface {
	SubmissionCounts(ctx context.Context, scope storage.Scope) ([]storage.SubmissionCount, error)
}

// Aggregator produces the counts exposed for a scope. Counts are computed on
// every call; nothing is cached.
type Aggregator struct {
	store CountStore
}

// NewAggregator creates a new Aggregator.
func NewAggregator(store CountStore) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate returns one row for an event scope, or one row per event in
// creation order for the global scope. Events without counted submissions
// appear with a zero total.
func (a *Aggregator) Aggregate(ctx context.Context, scope storage.Scope) ([]storage.SubmissionCount, error) {
	counts, err := a.store.SubmissionCounts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s submissions: %w", scope.Kind(), err)
	}

	if !scope.IsGlobal() && len(counts) > 1 {
		return nil, fmt.Errorf("expected at most one row for event %q, got %d", scope.EventSlug, len(counts))
	}

	return counts, nil
}

// RenderMetrics aggregates scope and renders the result as exposition text.
// Callers must have authorized scope beforehand.
func (a *Aggregator) RenderMetrics(ctx context.Context, scope storage.Scope) (string, error) {
	counts, err := a.Aggregate(ctx, scope)
	if err != nil {
		return "", err
	}
	return Render(counts), nil
}
