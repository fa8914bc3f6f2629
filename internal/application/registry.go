package application

import (
	"time"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

// generatedAtLayout renders UTC timestamps as 2026-02-12T10:04:05+00:00.
const generatedAtLayout = "2006-01-02T15:04:05-07:00"

// IssueToEntry builds the registry entry for one issue. ok is false when the
// issue has no nd-review block with a review_id; such issues are skipped.
func IssueToEntry(issue model.Issue) (reviewID string, entry *model.Entry, ok bool) {
	ann := ExtractAnnotation(issue.Body)

	reviewID = ann[model.AnnotationReviewID]
	if reviewID == "" {
		return "", nil, false
	}

	return reviewID, &model.Entry{
		State:           InferState(issue.Labels),
		ReviewIssueURL:  issue.HTMLURL,
		DOIURL:          ann.First(model.AnnotationDOIURL, model.AnnotationDOI),
		Reviewers:       ResolveReviewers(ann, issue.Assignees),
		ReviewedAt:      ann[model.AnnotationReviewedAt],
		ReviewCommitSHA: ann.First(model.AnnotationReviewCommitSHA, model.AnnotationReviewSHA),
		SourcePath:      ann[model.AnnotationSourcePath],
	}, true
}

// BuildRegistry aggregates issues into a registry document. When several
// issues share a review_id, an entry is replaced only by one whose state has
// strictly higher precedence; there is no field-level merge.
func BuildRegistry(issues []model.Issue, repoFullName string, now time.Time) *model.Registry {
	reg := &model.Registry{
		Version:     model.RegistryVersion,
		GeneratedAt: now.UTC().Truncate(time.Second).Format(generatedAtLayout),
		Source: model.Source{
			Type: model.SourceTypeGitHubIssues,
			Repo: repoFullName,
		},
	}

	for _, issue := range issues {
		id, entry, ok := IssueToEntry(issue)
		if !ok {
			continue
		}

		existing, found := reg.Reviews.Get(id)
		if found && !entry.State.Outranks(existing.State) {
			continue
		}
		reg.Reviews.Set(id, entry)
	}

	return reg
}
