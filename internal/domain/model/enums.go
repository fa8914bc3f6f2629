package model

// ReviewState represents the review status of a registry entry.
type ReviewState string

const (
	ReviewStateStale      ReviewState = "stale"
	ReviewStateReviewed   ReviewState = "reviewed"
	ReviewStateInProgress ReviewState = "in-progress"
	ReviewStateQueued     ReviewState = "queued"
	ReviewStateUnreviewed ReviewState = "unreviewed"
)

// StatePrecedence lists every review state from highest to lowest precedence.
// New states are added by inserting them at the right position here.
var StatePrecedence = []ReviewState{
	ReviewStateStale,
	ReviewStateReviewed,
	ReviewStateInProgress,
	ReviewStateQueued,
	ReviewStateUnreviewed,
}

// Rank returns the index of s in StatePrecedence. Lower ranks win.
// Unknown states rank after every known state.
func (s ReviewState) Rank() int {
	for i, state := range StatePrecedence {
		if state == s {
			return i
		}
	}
	return len(StatePrecedence)
}

// Outranks reports whether s has strictly higher precedence than other.
func (s ReviewState) Outranks(other ReviewState) bool {
	return s.Rank() < other.Rank()
}
