package driven

import (
	"context"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

// IssueSource defines the driven port that supplies review issues, either from
// the GitHub API or from a recorded fixture.
type IssueSource interface {
	// FetchReviewIssues returns every issue of repoFullName whose body carries
	// a review_id. Any failure is fatal to the run; no partial result is returned.
	FetchReviewIssues(ctx context.Context, repoFullName string) ([]model.Issue, error)
}
