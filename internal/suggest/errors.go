package suggest

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingID indicates a signal record has no identifier to key on.
	ErrMissingID = errors.New("suggest: source record has no id")
	// ErrMissingDate indicates a signal record lacks the date a rule infers from.
	ErrMissingDate = errors.New("suggest: source record has no date")
)

// InferenceError reports a malformed signal record. The candidate it would
// have produced is skipped; other candidates are unaffected.
type InferenceError struct {
	Rule     Rule
	SourceID string
	Err      error
}

// Error implements the error interface.
func (e *InferenceError) Error() string {
	if e == nil {
		return ""
	}
	id := e.SourceID
	if id == "" {
		id = "<none>"
	}
	return fmt.Sprintf("suggest: rule %s source %s: %v", e.Rule, id, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *InferenceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
