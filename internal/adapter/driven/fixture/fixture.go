// Package fixture implements the IssueSource port from a recorded JSON file,
// bypassing the GitHub API for tests and offline runs.
package fixture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
	"github.com/ericfisherdev/reviewregistry/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IssueSource = (*Source)(nil)

// ErrFixtureShape is returned when a fixture is neither an array of issues nor
// an object carrying an "items" array.
var ErrFixtureShape = errors.New("fixture must be a list of issues or a search response with 'items'")

// Source reads issues from a fixture file on every fetch.
type Source struct {
	path string
}

// NewSource creates a Source for the fixture at path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// FetchReviewIssues loads the fixture. repoFullName is not used to filter:
// fixtures are expected to hold exactly the issues of interest.
func (s *Source) FetchReviewIssues(_ context.Context, _ string) ([]model.Issue, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", s.path, err)
	}

	issues, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", s.path, err)
	}

	return issues, nil
}

// issueJSON mirrors the subset of a GitHub issue object the registry reads.
// Labels and assignees are decoded leniently: strings or objects.
type issueJSON struct {
	Body      *string           `json:"body"`
	HTMLURL   *string           `json:"html_url"`
	Labels    []json.RawMessage `json:"labels"`
	Assignees []json.RawMessage `json:"assignees"`
}

// Parse decodes fixture content: a bare array of issues, or a search response
// object whose "items" field holds that array.
func Parse(data []byte) ([]model.Issue, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrFixtureShape
	}

	var raw []issueJSON
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("decoding issue list: %w", err)
		}
	case '{':
		var envelope struct {
			Items *json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decoding search response: %w", err)
		}
		if envelope.Items == nil {
			return nil, ErrFixtureShape
		}
		items := bytes.TrimSpace(*envelope.Items)
		if len(items) == 0 || items[0] != '[' {
			return nil, ErrFixtureShape
		}
		if err := json.Unmarshal(items, &raw); err != nil {
			return nil, fmt.Errorf("decoding items: %w", err)
		}
	default:
		return nil, ErrFixtureShape
	}

	issues := make([]model.Issue, 0, len(raw))
	for _, r := range raw {
		issues = append(issues, r.toModel())
	}
	return issues, nil
}

func (r issueJSON) toModel() model.Issue {
	issue := model.Issue{}
	if r.Body != nil {
		issue.Body = *r.Body
	}
	if r.HTMLURL != nil {
		issue.HTMLURL = *r.HTMLURL
	}
	for _, l := range r.Labels {
		if name := nameOf(l, "name"); name != "" {
			issue.Labels = append(issue.Labels, name)
		}
	}
	for _, a := range r.Assignees {
		if login := nameOf(a, "login"); login != "" {
			issue.Assignees = append(issue.Assignees, login)
		}
	}
	return issue
}

// nameOf returns raw itself when it is a JSON string, or raw[field] when it is
// an object with a string field of that name. Anything else yields "".
func nameOf(raw json.RawMessage, field string) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	v, ok := obj[field]
	if !ok {
		return ""
	}
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}
