package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RegistryVersion is the schema version written to every registry document.
const RegistryVersion = 2

// SourceTypeGitHubIssues tags registries built from GitHub issues.
const SourceTypeGitHubIssues = "github-issues"

// Entry is the registry record for a single review_id.
// Field order is the JSON key order of the output file.
type Entry struct {
	State           ReviewState `json:"state"`
	ReviewIssueURL  string      `json:"review_issue_url"`
	DOIURL          string      `json:"doi_url,omitempty"`
	Reviewers       []string    `json:"reviewers,omitempty"`
	ReviewedAt      string      `json:"reviewed_at,omitempty"`
	ReviewCommitSHA string      `json:"review_commit_sha,omitempty"`
	SourcePath      string      `json:"source_path,omitempty"`
	StaleReason     string      `json:"stale_reason,omitempty"`
}

// Source records where the registry's issues came from.
type Source struct {
	Type string `json:"type"`
	Repo string `json:"repo"`
}

// Registry is the top-level document written to reviews.json.
type Registry struct {
	Version     int     `json:"version"`
	GeneratedAt string  `json:"generated_at"`
	Source      Source  `json:"source"`
	Reviews     Reviews `json:"reviews"`
}

// Reviews maps review_id to Entry and remembers first-insertion order.
// The zero value is an empty mapping ready to use.
type Reviews struct {
	keys    []string
	entries map[string]*Entry
}

// Get returns the entry stored for id.
func (r *Reviews) Get(id string) (*Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Set stores entry under id. Replacing an existing id keeps its position.
func (r *Reviews) Set(id string, entry *Entry) {
	if r.entries == nil {
		r.entries = make(map[string]*Entry)
	}
	if _, ok := r.entries[id]; !ok {
		r.keys = append(r.keys, id)
	}
	r.entries[id] = entry
}

// Keys returns the review ids in insertion order.
func (r *Reviews) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of entries.
func (r *Reviews) Len() int {
	return len(r.keys)
}

// MarshalJSON writes entries as a JSON object in insertion order.
func (r Reviews) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(id)
		if err != nil {
			return nil, err
		}
		val, err := marshalNoEscape(r.entries[id])
		if err != nil {
			return nil, fmt.Errorf("encoding review %q: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of entries, keeping document order.
func (r *Reviews) UnmarshalJSON(data []byte) error {
	*r = Reviews{}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("reviews: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("reviews: expected string key, got %v", tok)
		}
		var entry Entry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("reviews: decoding %q: %w", id, err)
		}
		r.Set(id, &entry)
	}

	_, err = dec.Token()
	return err
}

// marshalNoEscape encodes v without escaping <, > and &, so URLs in the
// registry stay readable.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
