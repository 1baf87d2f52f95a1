package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrBusy is returned when a transition is requested while a save is in flight.
	ErrBusy = errors.New("wizard is saving")

	// ErrNotPersisted is the cause of a strict-mode failure to update a
	// campaign that was never created.
	ErrNotPersisted = errors.New("campaign has not been created yet")

	// ErrNotOnReview is returned by Submit before the last step.
	ErrNotOnReview = errors.New("submit is only allowed from the review step")

	// ErrSubmitted is returned by any transition after a successful Submit.
	ErrSubmitted = errors.New("campaign already submitted")
)

// Op names the gateway call that failed.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpSubmit Op = "submit"
)

// PersistenceError reports a failed create or update. The step index is
// left unchanged so the caller may retry.
type PersistenceError struct {
	Op   Op
	Step string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s campaign at step %s: %v", e.Op, e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError lists the required fields a step is missing, keyed by
// field name with the failed rule as value.
type ValidationError struct {
	Step   string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name, rule := range e.Fields {
		names = append(names, name+" ("+rule+")")
	}
	sort.Strings(names)
	return fmt.Sprintf("step %s is incomplete: %s", e.Step, strings.Join(names, ", "))
}
