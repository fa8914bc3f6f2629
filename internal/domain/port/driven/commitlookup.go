package driven

import "context"

// CommitLookup resolves version-control history for files in a checkout.
type CommitLookup interface {
	// LatestCommit returns the identifier of the most recent commit touching
	// path (relative to the checkout root). An empty string with a nil error
	// means the path has no history.
	LatestCommit(ctx context.Context, path string) (string, error)
}
