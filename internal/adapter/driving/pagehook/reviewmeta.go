package pagehook

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ReviewIDKey is the metadata field carrying a page's review id.
const ReviewIDKey = "nd_review_id"

// markdownSuffixes are the source extensions checked for front-matter.
var markdownSuffixes = []string{".md", ".myst"}

// MetaSource describes where page metadata can be found.
type MetaSource struct {
	// SrcDir is the documentation source directory.
	SrcDir string
	// Metadata is the per-page metadata collected by the build environment.
	Metadata map[string]map[string]any
	// NBMetadata is the per-page notebook metadata collected by the build.
	NBMetadata map[string]map[string]any
}

// ReviewID returns the review id for page, or "" when none is recorded.
// Sources are consulted in order: Markdown front-matter, build metadata,
// notebook build metadata, then the notebook file itself. Unreadable or
// malformed sources are skipped.
func (s MetaSource) ReviewID(page string) string {
	if id := s.fromFrontMatter(page); id != "" {
		return id
	}
	if id := stringValue(s.Metadata[page][ReviewIDKey]); id != "" {
		return id
	}
	if id := stringValue(s.NBMetadata[page][ReviewIDKey]); id != "" {
		return id
	}
	return s.fromNotebook(page)
}

func (s MetaSource) fromFrontMatter(page string) string {
	for _, suffix := range markdownSuffixes {
		data, err := os.ReadFile(filepath.Join(s.SrcDir, page+suffix))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Debug("reading page source failed", "page", page, "error", err)
			}
			continue
		}

		fields, err := ParseFrontMatter(data)
		if err != nil {
			slog.Debug("front-matter unreadable", "page", page, "error", err)
			continue
		}
		if id := stringValue(fields[ReviewIDKey]); id != "" {
			return id
		}
	}
	return ""
}

func (s MetaSource) fromNotebook(page string) string {
	data, err := os.ReadFile(filepath.Join(s.SrcDir, page+".ipynb"))
	if err != nil {
		return ""
	}

	var nb struct {
		Metadata map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(data, &nb); err != nil {
		slog.Debug("notebook unreadable", "page", page, "error", err)
		return ""
	}
	return stringValue(nb.Metadata[ReviewIDKey])
}

//go:generate templ generate

// RenderMetaTag returns MetaTag(reviewID) as a string followed by a newline.
func RenderMetaTag(reviewID string) (string, error) {
	var b strings.Builder
	if err := MetaTag(reviewID).Render(context.Background(), &b); err != nil {
		return "", err
	}
	b.WriteByte('\n')
	return b.String(), nil
}

// AddReviewMeta appends the review id meta tag for page to ctx["metatags"].
// It reports whether a tag was added; ctx is untouched otherwise.
func AddReviewMeta(ctx Context, src MetaSource, page string) bool {
	id := src.ReviewID(page)
	if id == "" {
		return false
	}

	tag, err := RenderMetaTag(id)
	if err != nil {
		slog.Warn("rendering review meta tag failed", "page", page, "error", err)
		return false
	}

	existing, _ := ctx["metatags"].(string)
	ctx["metatags"] = existing + tag
	return true
}
