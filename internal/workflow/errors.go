package workflow

import "fmt"

// ValidationError is a local, non-fatal input failure: empty field, password
// mismatch, invalid email, no image selected. It is raised before any
// gateway call and leaves the view and the user's inputs untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidTransitionError means the event is not defined for the current
// view. It indicates a presentation-layer bug (or a stale client), not a
// user mistake.
type InvalidTransitionError struct {
	View  string
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid in view %q", e.Event, e.View)
}
