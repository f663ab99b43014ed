package store

import (
	"errors"

	"github.com/josephgoksu/flowkit/models"
)

var (
	// ErrNoWorkflowConfig is returned when the workflow configuration directory
	// has not been created yet.
	ErrNoWorkflowConfig = errors.New("workflow configuration directory not found")
	// ErrNotFound is returned when no tracking document exists yet.
	ErrNotFound = errors.New("workflow tracking file not found")
)

// WorkflowStore defines the contract for persisting the workflow document.
// Every operation reads or writes the whole document; there is no partial
// update protocol.
type WorkflowStore interface {
	// Path returns the location of the tracking document.
	Path() string

	// ConfigDirExists reports whether the workflow configuration directory
	// that holds the tracking document is present.
	ConfigDirExists() (bool, error)

	// Load reads and validates the full document.
	// It returns ErrNoWorkflowConfig or ErrNotFound when the prerequisites are missing.
	Load() (*models.WorkflowDocument, error)

	// Save replaces the document on disk. The previous content stays intact
	// if the write fails part way.
	Save(doc *models.WorkflowDocument) error

	// Lock acquires an exclusive advisory lock for one read-modify-write cycle.
	// The returned function releases it.
	Lock() (unlock func(), err error)
}
