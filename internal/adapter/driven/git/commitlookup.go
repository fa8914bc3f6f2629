// Package git implements the CommitLookup port using the git CLI.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ericfisherdev/reviewregistry/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CommitLookup = (*CommitLookup)(nil)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 30 * time.Second

// CommitLookup answers history questions about a git checkout.
type CommitLookup struct {
	dir     string // working directory for git commands
	timeout time.Duration
}

// NewCommitLookup creates a CommitLookup for the checkout at dir. A
// non-positive timeout falls back to DefaultTimeout.
func NewCommitLookup(dir string, timeout time.Duration) *CommitLookup {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CommitLookup{dir: dir, timeout: timeout}
}

// LatestCommit returns the full hash of the most recent commit touching path.
// Untracked paths yield "" with a nil error.
func (g *CommitLookup) LatestCommit(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", g.dir, "log", "--format=%H", "-1", "--", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git log %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}
