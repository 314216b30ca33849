package application

import (
	"fmt"
	"strings"

	"github.com/example/smart-calendar/internal/calendar"
)

// CompletionPolicy decides what happens to a recurring event when an
// instance is marked complete.
type CompletionPolicy string

const (
	// CompletionAdvance moves the row to its next instance.
	CompletionAdvance CompletionPolicy = "advance"
	// CompletionNewRow keeps the completed row and inserts a successor.
	CompletionNewRow CompletionPolicy = "new_row"
)

// ParseCompletionPolicy validates a configured policy. Empty means advance.
func ParseCompletionPolicy(s string) (CompletionPolicy, error) {
	switch p := CompletionPolicy(strings.TrimSpace(strings.ToLower(s))); p {
	case "":
		return CompletionAdvance, nil
	case CompletionAdvance, CompletionNewRow:
		return p, nil
	}
	return "", fmt.Errorf("unknown completion policy %q", s)
}

// DismissalScope decides whether a dismissal hides a suggestion for good or
// only at its current date.
type DismissalScope string

const (
	DismissByKey      DismissalScope = "key"
	DismissByRevision DismissalScope = "revision"
)

// ParseDismissalScope validates a configured scope. Empty means key.
func ParseDismissalScope(s string) (DismissalScope, error) {
	switch d := DismissalScope(strings.TrimSpace(strings.ToLower(s))); d {
	case "":
		return DismissByKey, nil
	case DismissByKey, DismissByRevision:
		return d, nil
	}
	return "", fmt.Errorf("unknown dismissal scope %q", s)
}

// Completion is the outcome of MarkComplete. Completed is the finished
// instance; Next is the live instance that replaces it, if the event recurs.
// Under CompletionAdvance both share an id and only Next is stored.
type Completion struct {
	Completed calendar.Event  `json:"completed"`
	Next      *calendar.Event `json:"next,omitempty"`
}
