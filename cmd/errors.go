package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/josephgoksu/flowkit/internal/persona"
	"github.com/josephgoksu/flowkit/internal/ui"
	"github.com/josephgoksu/flowkit/internal/workflow"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PrintError prints an error message without exiting, allowing for recovery.
// In verbose mode the underlying technical error is printed instead.
func PrintError(w io.Writer, verbose bool, userMsg string, technicalErr error) {
	if verbose && technicalErr != nil {
		fmt.Fprintf(w, "Error: %v\n", technicalErr)
		return
	}
	ui.Fail(w, "%s", userMsg)
}

// LogError logs an error without printing to stderr if verbose mode is off.
func LogError(w io.Writer, v *viper.Viper, msg string, err error) {
	if v == nil || !v.GetBool("verbose") {
		return
	}
	if err != nil {
		fmt.Fprintf(w, "[DEBUG] %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(w, "[DEBUG] %s\n", msg)
	}
}

// userMessage is the one-line text shown for an unrecoverable error.
func userMessage(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

// report prints a recoverable error and swallows it. Unrecoverable errors are
// returned so the command exits non-zero.
func (c *cli) report(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ui.ErrCancelled) {
		ui.Warn(w, "Cancelled. Nothing was changed.")
		return nil
	}

	var pnf *workflow.PhaseNotFoundError
	var personaNF *persona.NotFoundError
	switch {
	case errors.As(err, &pnf):
		ui.Fail(w, "Phase %q not found", pnf.Query)
		ui.Hint(w, "Available phases:")
		for _, name := range pnf.Available {
			ui.Hint(w, "  %s", name)
		}
		return nil
	case errors.As(err, &personaNF):
		ui.Fail(w, "Persona %q not found", personaNF.Name)
		ui.Hint(w, "Available personas: %s", joinOr(personaNF.Available, "none"))
		return nil
	}

	switch workflow.Classify(err) {
	case workflow.KindConfigurationMissing:
		if errors.Is(err, workflow.ErrNoWorkflowConfig) {
			ui.Fail(w, "No workflow configuration found at %s", c.paths.ConfigDir)
			ui.Hint(w, "Run 'pc init' to set up this project first.")
		} else {
			ui.Fail(w, "No workflow tracking file found at %s", c.paths.TrackingFile)
			ui.Hint(w, "Run '%s' to create it.", c.initCommand())
		}
	case workflow.KindEntityNotFound:
		ui.Fail(w, "%v", err)
	case workflow.KindInvalidStateTransition:
		ui.Warn(w, "%s", capitalize(err.Error()))
		c.hintFor(w, err)
	default:
		return err
	}
	c.log.Debug("recovered error", zap.Error(err))
	return nil
}

func (c *cli) hintFor(w io.Writer, err error) {
	switch {
	case errors.Is(err, workflow.ErrNoPhaseInProgress):
		ui.Hint(w, "Start a phase with '%s'.", c.subcommand("start <phase>"))
	case errors.Is(err, workflow.ErrNoTasksInCurrentPhase):
		ui.Hint(w, "Add one with 'wt add-task'.")
	case errors.Is(err, workflow.ErrInvalidTaskStatus):
		ui.Hint(w, "Valid statuses: pending, in-progress, completed, blocked.")
	}
}

// initCommand names the command that creates the tracking file.
func (c *cli) initCommand() string {
	return c.subcommand("init")
}

func (c *cli) subcommand(name string) string {
	if c.name == "pc" {
		return "pc workflow " + name
	}
	return "wt " + name
}
