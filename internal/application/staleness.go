package application

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
	"github.com/ericfisherdev/reviewregistry/internal/domain/port/driven"
)

// shortSHALen is the commit identifier length used in stale reasons.
const shortSHALen = 12

// StalenessService flips reviewed entries to stale when their source file has
// commits newer than the recorded review commit.
type StalenessService struct {
	lookup   driven.CommitLookup
	docsRoot string
}

// NewStalenessService creates a StalenessService. docsRoot is prepended to each
// entry's source_path to form the checkout-relative path (e.g. "books").
func NewStalenessService(lookup driven.CommitLookup, docsRoot string) *StalenessService {
	return &StalenessService{
		lookup:   lookup,
		docsRoot: docsRoot,
	}
}

// Apply checks every reviewed entry carrying both review_commit_sha and
// source_path. Lookup failures leave the entry unchanged. Returns the number
// of entries marked stale.
func (s *StalenessService) Apply(ctx context.Context, reg *model.Registry) int {
	staleCount := 0

	for _, id := range reg.Reviews.Keys() {
		entry, _ := reg.Reviews.Get(id)
		if entry.State != model.ReviewStateReviewed {
			continue
		}
		if entry.ReviewCommitSHA == "" || entry.SourcePath == "" {
			continue
		}

		filePath := path.Join(s.docsRoot, entry.SourcePath)
		latest, err := s.lookup.LatestCommit(ctx, filePath)
		if err != nil {
			slog.Debug("commit lookup failed", "review_id", id, "path", filePath, "error", err)
			continue
		}
		if latest == "" || latest == entry.ReviewCommitSHA {
			continue
		}

		entry.State = model.ReviewStateStale
		entry.StaleReason = fmt.Sprintf("File modified after review (latest: %s, reviewed at: %s)",
			shortSHA(latest), shortSHA(entry.ReviewCommitSHA))
		staleCount++

		slog.Debug("review marked stale",
			"review_id", id,
			"path", filePath,
			"latest", latest,
			"reviewed_at_commit", entry.ReviewCommitSHA,
		)
	}

	return staleCount
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALen {
		return sha[:shortSHALen]
	}
	return sha
}
