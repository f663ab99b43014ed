package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/josephgoksu/flowkit/internal/workflow"
	"github.com/josephgoksu/flowkit/models"
	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user interrupts a prompt.
var ErrCancelled = errors.New("cancelled by user")

// Asker is the set of interactive questions the CLIs ask.
type Asker interface {
	Select(label string, items []string) (int, error)
	Text(label, defaultValue string, validate func(string) error) (string, error)
	Confirm(label string) (bool, error)
}

// PromptAsker asks through promptui. Nil streams use the terminal.
type PromptAsker struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

var _ Asker = (*PromptAsker)(nil)

func (a *PromptAsker) Select(label string, items []string) (int, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ . | cyan }}`,
		Inactive: `  {{ . | faint }}`,
		Selected: `{{ "✔" | green }} {{ . | faint }}`,
	}
	searcher := func(input string, index int) bool {
		return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
	}
	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Templates: templates,
		Searcher:  searcher,
		Size:      10,
		Stdin:     a.Stdin,
		Stdout:    a.Stdout,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return -1, promptError(err)
	}
	return i, nil
}

func (a *PromptAsker) Text(label, defaultValue string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: validate,
		Stdin:    a.Stdin,
		Stdout:   a.Stdout,
	}
	out, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(out), nil
}

func (a *PromptAsker) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     a.Stdin,
		Stdout:    a.Stdout,
	}
	_, err := prompt.Run()
	if err == nil {
		return true, nil
	}
	// promptui reports a "no" answer as ErrAbort.
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	return false, promptError(err)
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrCancelled
	}
	return err
}

// Required rejects blank input.
func Required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

// ValidateHours accepts an empty string or a non-negative number.
func ValidateHours(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("enter a number of hours")
	}
	if v < 0 {
		return fmt.Errorf("hours cannot be negative")
	}
	return nil
}

// GateDecider answers quality gates by asking the user. A failing verdict
// always carries a reason.
type GateDecider struct {
	Asker Asker
	Out   io.Writer
}

var _ workflow.GateDecider = (*GateDecider)(nil)

const (
	gatePass = "Pass"
	gateFail = "Fail"
)

// DecideGate prints the gate and asks for a verdict.
func (d *GateDecider) DecideGate(ctx context.Context, req workflow.GateRequest) (workflow.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return workflow.Verdict{}, err
	}
	if d.Out != nil {
		fmt.Fprintf(d.Out, "\n%s %s\n", StyleTitle.Render(req.Gate.Name), StyleSubtle.Render(fmt.Sprintf("(%d remaining)", req.Remaining)))
		if req.Gate.Criteria != "" {
			fmt.Fprintf(d.Out, "  %s\n", StyleSubtle.Render(req.Gate.Criteria))
		}
	}

	i, err := d.Asker.Select(fmt.Sprintf("Has %q been met", req.Gate.Name), []string{gatePass, gateFail})
	if err != nil {
		return workflow.Verdict{}, err
	}
	if i == 0 {
		return workflow.Verdict{Passed: true}, nil
	}
	notes, err := d.Asker.Text("Why did it fail", "", Required("a reason"))
	if err != nil {
		return workflow.Verdict{}, err
	}
	return workflow.Verdict{Passed: false, Notes: notes}, nil
}

// TaskLabel is how a task is shown in selection lists.
func TaskLabel(t models.Task) string {
	return fmt.Sprintf("%s (%s, %s)", t.Name, t.ID, t.Status)
}

// SelectTask asks the user to pick one of tasks.
func SelectTask(a Asker, label string, tasks []models.Task) (models.Task, error) {
	if len(tasks) == 0 {
		return models.Task{}, workflow.ErrNoTasksInCurrentPhase
	}
	items := make([]string, len(tasks))
	for i, t := range tasks {
		items[i] = TaskLabel(t)
	}
	i, err := a.Select(label, items)
	if err != nil {
		return models.Task{}, err
	}
	return tasks[i], nil
}

// SelectTaskStatus asks for a task status, starting from current.
func SelectTaskStatus(a Asker, current models.TaskStatus) (models.TaskStatus, error) {
	items := make([]string, len(models.TaskStatuses))
	for i, s := range models.TaskStatuses {
		items[i] = string(s)
		if s == current {
			items[i] += " (current)"
		}
	}
	i, err := a.Select("New status", items)
	if err != nil {
		return "", err
	}
	return models.TaskStatuses[i], nil
}

// AskHours asks for an hour count. Blank input keeps current and returns nil.
func AskHours(a Asker, label string, current float64) (*float64, error) {
	def := ""
	if current > 0 {
		def = strconv.FormatFloat(current, 'f', -1, 64)
	}
	s, err := a.Text(label, def, ValidateHours)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
