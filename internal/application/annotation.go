package application

import (
	"regexp"
	"strings"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

// annotationPattern matches the first nd-review HTML comment in an issue body.
// Example: <!-- nd-review\nreview_id: abc-123\n-->
var annotationPattern = regexp.MustCompile(`(?is)<!--\s*nd-review\s*(.*?)\s*-->`)

// lineBreak matches every line boundary, including bare CR, NEL and the
// Unicode line and paragraph separators.
var lineBreak = regexp.MustCompile("\r\n|[\n\r\v\f\x1c\x1d\x1e\u0085\u2028\u2029]")

// annotationTemplateKeys is the key order used by FormatAnnotationBlock.
var annotationTemplateKeys = []string{
	model.AnnotationDOIURL,
	model.AnnotationReviewCommitSHA,
	model.AnnotationReviewedAt,
	model.AnnotationReviewers,
	model.AnnotationSourcePath,
}

// ExtractAnnotation parses the nd-review block of an issue body into key/value
// pairs. Blank lines, '#' comments and lines without a colon are skipped.
// Returns an empty Annotation when the body has no block.
func ExtractAnnotation(body string) model.Annotation {
	out := model.Annotation{}
	if body == "" {
		return out
	}

	m := annotationPattern.FindStringSubmatch(body)
	if m == nil {
		return out
	}

	for _, raw := range lineBreak.Split(m[1], -1) {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return out
}

// FormatAnnotationBlock renders an empty nd-review block for reviewID, ready
// to paste into a new review issue.
func FormatAnnotationBlock(reviewID string) string {
	var b strings.Builder
	b.WriteString("<!-- nd-review\n")
	b.WriteString(model.AnnotationReviewID + ": " + reviewID + "\n")
	for _, k := range annotationTemplateKeys {
		b.WriteString(k + ":\n")
	}
	b.WriteString("-->\n")
	return b.String()
}
