// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
	"github.com/ericfisherdev/reviewregistry/internal/domain/port/driven"
)

// StateChange records a review whose state differs from the previous run.
type StateChange struct {
	ReviewID string
	From     model.ReviewState // Empty when the review is new.
	To       model.ReviewState
}

// GenerateResult summarizes one registry generation run.
type GenerateResult struct {
	Registry   *model.Registry
	StaleCount int
	Changes    []StateChange // Only populated when run history is enabled.
}

// GenerateService fetches review issues, builds the registry, optionally
// applies staleness detection and publishes the result.
type GenerateService struct {
	source    driven.IssueSource
	store     driven.RegistryStore
	staleness *StalenessService // nil disables staleness detection.
	history   driven.RunStore   // nil disables run history.
	now       func() time.Time
}

// NewGenerateService creates a GenerateService. staleness and history may be nil.
func NewGenerateService(
	source driven.IssueSource,
	store driven.RegistryStore,
	staleness *StalenessService,
	history driven.RunStore,
) *GenerateService {
	return &GenerateService{
		source:    source,
		store:     store,
		staleness: staleness,
		history:   history,
		now:       time.Now,
	}
}

// Generate runs a full registry build for repoFullName. Fetch and store
// failures abort the run before anything is written. History failures are
// logged and do not fail the run.
func (s *GenerateService) Generate(ctx context.Context, repoFullName string) (*GenerateResult, error) {
	start := time.Now()

	issues, err := s.source.FetchReviewIssues(ctx, repoFullName)
	if err != nil {
		return nil, fmt.Errorf("fetching review issues: %w", err)
	}
	slog.Info("review issues loaded", "repo", repoFullName, "count", len(issues))

	reg := BuildRegistry(issues, repoFullName, s.now())

	result := &GenerateResult{Registry: reg}
	if s.staleness != nil {
		result.StaleCount = s.staleness.Apply(ctx, reg)
	}

	if s.history != nil {
		result.Changes = s.diffWithPreviousRun(ctx, repoFullName, reg)
	}

	if err := s.store.Save(ctx, reg); err != nil {
		return nil, fmt.Errorf("saving registry: %w", err)
	}

	if s.history != nil {
		runID, err := s.history.RecordRun(ctx, reg, result.StaleCount)
		if err != nil {
			slog.Warn("failed to record registry run", "repo", repoFullName, "error", err)
		} else {
			slog.Debug("registry run recorded", "run_id", runID)
		}
	}

	slog.Info("registry generated",
		"repo", repoFullName,
		"reviews", reg.Reviews.Len(),
		"stale", result.StaleCount,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return result, nil
}

// diffWithPreviousRun compares reg with the latest recorded run and logs every
// state change. Removed reviews are not reported.
func (s *GenerateService) diffWithPreviousRun(ctx context.Context, repoFullName string, reg *model.Registry) []StateChange {
	previous, err := s.history.LatestStates(ctx, repoFullName)
	if err != nil {
		slog.Warn("failed to load previous registry run", "repo", repoFullName, "error", err)
		return nil
	}

	var changes []StateChange
	for _, id := range reg.Reviews.Keys() {
		entry, _ := reg.Reviews.Get(id)
		prev, seen := previous[id]
		if seen && prev == entry.State {
			continue
		}

		change := StateChange{ReviewID: id, To: entry.State}
		if seen {
			change.From = prev
		}
		changes = append(changes, change)

		slog.Info("review state changed",
			"review_id", id,
			"from", change.From,
			"to", change.To,
		)
	}

	return changes
}
