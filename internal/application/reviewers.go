package application

import (
	"regexp"
	"strings"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

var reviewerSeparator = regexp.MustCompile(`[\s,]+`)

// ResolveReviewers returns reviewer handles from the annotation's reviewers
// field, falling back to the issue assignees when the field is absent or empty.
// Source order is preserved.
func ResolveReviewers(ann model.Annotation, assignees []string) []string {
	raw := strings.TrimSpace(ann[model.AnnotationReviewers])
	if raw == "" {
		var out []string
		for _, a := range assignees {
			if a != "" {
				out = append(out, a)
			}
		}
		return out
	}

	var out []string
	for _, tok := range reviewerSeparator.Split(raw, -1) {
		tok = strings.TrimLeft(strings.TrimSpace(tok), "@")
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
