package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/josephgoksu/flowkit/store"
)

var (
	// ErrNoWorkflowConfig means the project has not been initialized.
	ErrNoWorkflowConfig = store.ErrNoWorkflowConfig
	// ErrNotFound means the tracking document has not been created yet.
	ErrNotFound = store.ErrNotFound

	ErrPhaseNotFound          = errors.New("phase not found")
	ErrTaskNotFound           = errors.New("task not found in current phase")
	ErrTaskExists             = errors.New("task already exists in phase")
	ErrInvalidTask            = errors.New("invalid task")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrNoPhaseInProgress      = errors.New("no phase in progress")
	ErrNoTasksInCurrentPhase  = errors.New("no tasks in current phase")
	ErrGateNotesRequired      = errors.New("a reason is required when a quality gate fails")
	ErrDependenciesIncomplete = errors.New("task dependencies are not completed")
	ErrCompletionClosed       = errors.New("phase completion already finished")
	ErrNoPendingGate          = errors.New("no quality gate awaiting a verdict")
)

// PhaseNotFoundError carries the query and the valid phase names so callers
// can list alternatives.
type PhaseNotFoundError struct {
	Query     string
	Available []string
}

func (e *PhaseNotFoundError) Error() string {
	return fmt.Sprintf("phase %q not found (available: %s)", e.Query, strings.Join(e.Available, ", "))
}

func (e *PhaseNotFoundError) Unwrap() error {
	return ErrPhaseNotFound
}

// Kind groups errors by the condition that produced them.
type Kind int

const (
	// KindUnrecoverable covers I/O failures and anything unexpected.
	KindUnrecoverable Kind = iota
	// KindConfigurationMissing means a prerequisite command has not been run.
	KindConfigurationMissing
	// KindEntityNotFound means a named phase or task lookup failed.
	KindEntityNotFound
	// KindInvalidStateTransition means the operation is not allowed in the current state.
	KindInvalidStateTransition
)

// Classify maps an error onto the error taxonomy. Everything except
// KindUnrecoverable is reported to the user and treated as handled.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnrecoverable
	case errors.Is(err, ErrNoWorkflowConfig), errors.Is(err, ErrNotFound):
		return KindConfigurationMissing
	case errors.Is(err, ErrPhaseNotFound), errors.Is(err, ErrTaskNotFound):
		return KindEntityNotFound
	case errors.Is(err, ErrNoPhaseInProgress),
		errors.Is(err, ErrNoTasksInCurrentPhase),
		errors.Is(err, ErrDependenciesIncomplete),
		errors.Is(err, ErrTaskExists),
		errors.Is(err, ErrInvalidTask),
		errors.Is(err, ErrInvalidTaskStatus),
		errors.Is(err, ErrGateNotesRequired):
		return KindInvalidStateTransition
	default:
		return KindUnrecoverable
	}
}
