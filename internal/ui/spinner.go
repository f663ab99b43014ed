package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type spinnerDoneMsg struct{ err error }

// spinnerModel shows a spinner next to label until the work command
// reports back.
type spinnerModel struct {
	spinner spinner.Model
	label   string
	work    tea.Cmd
	cancel  context.CancelFunc
	done    bool
	err     error
}

func newSpinnerModel(label string, work tea.Cmd, cancel context.CancelFunc) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorPrimary)
	return spinnerModel{spinner: s, label: label, work: work, cancel: cancel}
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancel()
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), StyleSubtle.Render(m.label))
}

// RunWithSpinner runs fn while a spinner is shown on w. Without a terminal
// fn runs directly. Pressing ctrl+c cancels fn's context and returns
// ErrCancelled.
func RunWithSpinner[T any](ctx context.Context, w io.Writer, label string, fn func(context.Context) (T, error)) (T, error) {
	if !IsInteractive() {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result T
	work := func() tea.Msg {
		var err error
		result, err = fn(ctx)
		return spinnerDoneMsg{err: err}
	}

	p := tea.NewProgram(newSpinnerModel(label, work, cancel), tea.WithOutput(w), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		var zero T
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, fmt.Errorf("spinner: %w", err)
	}
	m := final.(spinnerModel)
	if m.err != nil {
		var zero T
		return zero, m.err
	}
	return result, nil
}
