package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

func TestExtractAnnotation(t *testing.T) {
	body := "Review request for the FSL notebook.\n\n" +
		"<!-- nd-review\n" +
		"review_id: 550e8400-e29b-41d4-a716-446655440000\n" +
		"doi_url: https://doi.org/10.5281/zenodo.1\n" +
		"\n" +
		"# reviewers are GitHub handles\n" +
		"reviewers: @alice, bob\n" +
		"this line has no colon\n" +
		"source_path: notebooks/x.ipynb\n" +
		"-->\n"

	ann := ExtractAnnotation(body)

	assert.Equal(t, model.Annotation{
		"review_id":   "550e8400-e29b-41d4-a716-446655440000",
		"doi_url":     "https://doi.org/10.5281/zenodo.1",
		"reviewers":   "@alice, bob",
		"source_path": "notebooks/x.ipynb",
	}, ann)
}

func TestExtractAnnotation_CaseInsensitiveSentinel(t *testing.T) {
	ann := ExtractAnnotation("<!--ND-Review\nreview_id: abc-123\n-->")
	assert.Equal(t, "abc-123", ann["review_id"])
}

func TestExtractAnnotation_FirstBlockOnly(t *testing.T) {
	body := "<!-- nd-review\nreview_id: first\n-->\n<!-- nd-review\nreview_id: second\n-->"
	assert.Equal(t, "first", ExtractAnnotation(body)["review_id"])
}

func TestExtractAnnotation_SplitsOnFirstColon(t *testing.T) {
	ann := ExtractAnnotation("<!-- nd-review\ndoi_url: https://doi.org/x\n-->")
	assert.Equal(t, "https://doi.org/x", ann["doi_url"])
}

func TestExtractAnnotation_LineBreaks(t *testing.T) {
	tests := []struct {
		name string
		sep  string
	}{
		{"LF", "\n"},
		{"CRLF", "\r\n"},
		{"bare CR", "\r"},
		{"line separator", "\u2028"},
		{"paragraph separator", "\u2029"},
		{"next line", "\u0085"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := "<!-- nd-review" + tt.sep + "review_id: abc" + tt.sep + "doi: x" + tt.sep + "-->"

			ann := ExtractAnnotation(body)

			assert.Equal(t, model.Annotation{"review_id": "abc", "doi": "x"}, ann)
		})
	}
}

func TestExtractAnnotation_NoBlock(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"plain text", "review_id: abc-123"},
		{"other comment", "<!-- something else\nreview_id: abc-123\n-->"},
		{"unterminated", "<!-- nd-review\nreview_id: abc-123\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann := ExtractAnnotation(tt.body)
			assert.NotNil(t, ann)
			assert.Empty(t, ann)

			_, _, ok := IssueToEntry(model.Issue{Body: tt.body})
			assert.False(t, ok)
		})
	}
}

func TestFormatAnnotationBlock_RoundTrips(t *testing.T) {
	block := FormatAnnotationBlock("abc-123")

	require.Contains(t, block, "<!-- nd-review\n")
	ann := ExtractAnnotation(block)
	assert.Equal(t, "abc-123", ann["review_id"])
	assert.Equal(t, "", ann.First(model.AnnotationDOIURL, model.AnnotationDOI))

	id, entry, ok := IssueToEntry(model.Issue{Body: block})
	require.True(t, ok)
	assert.Equal(t, "abc-123", id)
	assert.Empty(t, entry.SourcePath)
	assert.Nil(t, entry.Reviewers)
}
