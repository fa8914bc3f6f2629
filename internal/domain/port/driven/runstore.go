package driven

import (
	"context"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

// RunStore defines the driven port for registry run history.
type RunStore interface {
	// RecordRun persists a generated registry and returns the new run ID.
	RecordRun(ctx context.Context, registry *model.Registry, staleCount int) (int64, error)
	// LatestStates returns review_id -> state from the most recent run recorded
	// for repoFullName. Returns an empty map if no run exists.
	LatestStates(ctx context.Context, repoFullName string) (map[string]model.ReviewState, error)
}
