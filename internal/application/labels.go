package application

import (
	"strings"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

// labelStates maps normalized issue labels to review states.
var labelStates = map[string]model.ReviewState{
	"reviewed":           model.ReviewStateReviewed,
	"review:accepted":    model.ReviewStateReviewed,
	"review:in-progress": model.ReviewStateInProgress,
	"review:in progress": model.ReviewStateInProgress,
	"review:queued":      model.ReviewStateQueued,
	"review:stale":       model.ReviewStateStale,
}

// InferState returns the highest-precedence state mapped from labels, or
// unreviewed when no label is recognized. Label order does not matter.
func InferState(labels []string) model.ReviewState {
	mapped := make(map[model.ReviewState]struct{}, len(labels))
	for _, l := range labels {
		if s, ok := labelStates[strings.ToLower(strings.TrimSpace(l))]; ok {
			mapped[s] = struct{}{}
		}
	}

	for _, s := range model.StatePrecedence {
		if _, ok := mapped[s]; ok {
			return s
		}
	}
	return model.ReviewStateUnreviewed
}
