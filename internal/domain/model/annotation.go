package model

// Annotation keys recognized in an nd-review block.
const (
	AnnotationReviewID        = "review_id"
	AnnotationDOIURL          = "doi_url"
	AnnotationDOI             = "doi"
	AnnotationReviewCommitSHA = "review_commit_sha"
	AnnotationReviewSHA       = "review_sha"
	AnnotationReviewedAt      = "reviewed_at"
	AnnotationReviewers       = "reviewers"
	AnnotationSourcePath      = "source_path"
)

// Annotation is the key/value content of an nd-review comment block.
type Annotation map[string]string

// First returns the value of the first key that has a non-empty value,
// or "" if none do.
func (a Annotation) First(keys ...string) string {
	for _, k := range keys {
		if v := a[k]; v != "" {
			return v
		}
	}
	return ""
}
