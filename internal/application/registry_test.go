package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

var fixedNow = time.Date(2026, 2, 12, 9, 30, 15, 987654321, time.FixedZone("AEST", 10*60*60))

func reviewIssue(body, url string, labels ...string) model.Issue {
	return model.Issue{Body: body, HTMLURL: url, Labels: labels}
}

func TestIssueToEntry_AllFields(t *testing.T) {
	issue := model.Issue{
		Body: "<!-- nd-review\n" +
			"review_id: abc-123\n" +
			"doi: 10.5281/zenodo.2\n" +
			"review_sha: deadbeef\n" +
			"reviewed_at: 2026-02-12\n" +
			"source_path: notebooks/x.ipynb\n" +
			"-->",
		Labels:    []string{"review:accepted"},
		Assignees: []string{"alice"},
		HTMLURL:   "https://github.com/o/r/issues/1",
	}

	id, entry, ok := IssueToEntry(issue)

	require.True(t, ok)
	assert.Equal(t, "abc-123", id)
	assert.Equal(t, &model.Entry{
		State:           model.ReviewStateReviewed,
		ReviewIssueURL:  "https://github.com/o/r/issues/1",
		DOIURL:          "10.5281/zenodo.2",
		Reviewers:       []string{"alice"},
		ReviewedAt:      "2026-02-12",
		ReviewCommitSHA: "deadbeef",
		SourcePath:      "notebooks/x.ipynb",
	}, entry)
}

func TestIssueToEntry_PrefersPrimaryKeys(t *testing.T) {
	issue := reviewIssue("<!-- nd-review\nreview_id: a\ndoi_url: primary\ndoi: secondary\n"+
		"review_commit_sha: sha1\nreview_sha: sha2\n-->", "u")

	_, entry, ok := IssueToEntry(issue)

	require.True(t, ok)
	assert.Equal(t, "primary", entry.DOIURL)
	assert.Equal(t, "sha1", entry.ReviewCommitSHA)
}

func TestIssueToEntry_OptionalFieldsOmitted(t *testing.T) {
	_, entry, ok := IssueToEntry(reviewIssue("<!-- nd-review\nreview_id: a\n-->", "u"))

	require.True(t, ok)
	assert.Equal(t, &model.Entry{State: model.ReviewStateUnreviewed, ReviewIssueURL: "u"}, entry)
}

func TestBuildRegistry_Document(t *testing.T) {
	reg := BuildRegistry(nil, "neurodesk/neurodeskedu-reviews", fixedNow)

	assert.Equal(t, 2, reg.Version)
	assert.Equal(t, "2026-02-11T23:30:15+00:00", reg.GeneratedAt)
	assert.Equal(t, model.Source{Type: "github-issues", Repo: "neurodesk/neurodeskedu-reviews"}, reg.Source)
	assert.Equal(t, 0, reg.Reviews.Len())
}

func TestBuildRegistry_SingleAcceptedIssue(t *testing.T) {
	issues := []model.Issue{
		reviewIssue("<!-- nd-review\nreview_id: abc-123\n-->", "https://github.com/o/r/issues/1", "review:accepted"),
	}

	reg := BuildRegistry(issues, "o/r", fixedNow)

	require.Equal(t, []string{"abc-123"}, reg.Reviews.Keys())
	entry, _ := reg.Reviews.Get("abc-123")
	assert.Equal(t, model.ReviewStateReviewed, entry.State)
}

func TestBuildRegistry_SkipsIssuesWithoutReviewID(t *testing.T) {
	issues := []model.Issue{
		reviewIssue("<!-- nd-review\ndoi_url: https://doi.org/x\n-->", "u1", "reviewed"),
		reviewIssue("no block at all", "u2", "reviewed"),
	}

	reg := BuildRegistry(issues, "o/r", fixedNow)

	assert.Equal(t, 0, reg.Reviews.Len())
}

func TestBuildRegistry_HigherPrecedenceWinsInEitherOrder(t *testing.T) {
	queued := reviewIssue("<!-- nd-review\nreview_id: dup\n-->", "queued-url", "review:queued")
	reviewed := reviewIssue("<!-- nd-review\nreview_id: dup\n-->", "reviewed-url", "reviewed")

	for _, order := range [][]model.Issue{{queued, reviewed}, {reviewed, queued}} {
		reg := BuildRegistry(order, "o/r", fixedNow)

		entry, ok := reg.Reviews.Get("dup")
		require.True(t, ok)
		assert.Equal(t, model.ReviewStateReviewed, entry.State)
		assert.Equal(t, "reviewed-url", entry.ReviewIssueURL)
		assert.Equal(t, 1, reg.Reviews.Len())
	}
}

func TestBuildRegistry_EqualPrecedenceKeepsFirst(t *testing.T) {
	first := reviewIssue("<!-- nd-review\nreview_id: dup\n-->", "first-url", "review:queued")
	second := reviewIssue("<!-- nd-review\nreview_id: dup\nsource_path: x.md\n-->", "second-url", "review:queued")

	reg := BuildRegistry([]model.Issue{first, second}, "o/r", fixedNow)

	entry, _ := reg.Reviews.Get("dup")
	assert.Equal(t, "first-url", entry.ReviewIssueURL)
	assert.Empty(t, entry.SourcePath, "later entries never enrich an existing one")
}

func TestBuildRegistry_ReplacementKeepsFirstSeenOrder(t *testing.T) {
	issues := []model.Issue{
		reviewIssue("<!-- nd-review\nreview_id: b\n-->", "b1", "review:queued"),
		reviewIssue("<!-- nd-review\nreview_id: a\n-->", "a1"),
		reviewIssue("<!-- nd-review\nreview_id: b\n-->", "b2", "review:stale"),
	}

	reg := BuildRegistry(issues, "o/r", fixedNow)

	assert.Equal(t, []string{"b", "a"}, reg.Reviews.Keys())
	entry, _ := reg.Reviews.Get("b")
	assert.Equal(t, "b2", entry.ReviewIssueURL)
}
