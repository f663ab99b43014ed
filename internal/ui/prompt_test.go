package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/josephgoksu/flowkit/internal/workflow"
	"github.com/josephgoksu/flowkit/models"
	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAsker replays canned answers and records the labels asked.
type scriptedAsker struct {
	selects  []int
	texts    []string
	confirms []bool
	err      error
	asked    []string
	items    [][]string
}

func (s *scriptedAsker) Select(label string, items []string) (int, error) {
	s.asked = append(s.asked, label)
	s.items = append(s.items, items)
	if s.err != nil {
		return -1, s.err
	}
	i := s.selects[0]
	s.selects = s.selects[1:]
	return i, nil
}

func (s *scriptedAsker) Text(label, _ string, validate func(string) error) (string, error) {
	s.asked = append(s.asked, label)
	if s.err != nil {
		return "", s.err
	}
	v := s.texts[0]
	s.texts = s.texts[1:]
	if validate != nil {
		if err := validate(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

func (s *scriptedAsker) Confirm(label string) (bool, error) {
	s.asked = append(s.asked, label)
	if s.err != nil {
		return false, s.err
	}
	v := s.confirms[0]
	s.confirms = s.confirms[1:]
	return v, nil
}

func gateRequest() workflow.GateRequest {
	return workflow.GateRequest{
		PhaseName: "Discovery & Planning",
		Remaining: 2,
		Gate:      models.QualityGate{Name: "Requirements Approved", Criteria: "Stakeholders signed off"},
	}
}

func TestGateDecider_Pass(t *testing.T) {
	asker := &scriptedAsker{selects: []int{0}}
	var out bytes.Buffer
	d := &GateDecider{Asker: asker, Out: &out}

	v, err := d.DecideGate(context.Background(), gateRequest())
	require.NoError(t, err)
	assert.True(t, v.Passed)
	assert.Empty(t, v.Notes)
	assert.Equal(t, []string{gatePass, gateFail}, asker.items[0])
	assert.Contains(t, out.String(), "Requirements Approved")
	assert.Contains(t, out.String(), "Stakeholders signed off")
	assert.Contains(t, out.String(), "2 remaining")
}

func TestGateDecider_FailAsksForReason(t *testing.T) {
	asker := &scriptedAsker{selects: []int{1}, texts: []string{"Legal has not reviewed"}}
	d := &GateDecider{Asker: asker}

	v, err := d.DecideGate(context.Background(), gateRequest())
	require.NoError(t, err)
	assert.False(t, v.Passed)
	assert.Equal(t, "Legal has not reviewed", v.Notes)
	assert.Len(t, asker.asked, 2)
}

func TestGateDecider_FailWithoutReason(t *testing.T) {
	asker := &scriptedAsker{selects: []int{1}, texts: []string{"   "}}
	d := &GateDecider{Asker: asker}

	_, err := d.DecideGate(context.Background(), gateRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a reason is required")
}

func TestGateDecider_Errors(t *testing.T) {
	d := &GateDecider{Asker: &scriptedAsker{err: ErrCancelled}}
	_, err := d.DecideGate(context.Background(), gateRequest())
	assert.ErrorIs(t, err, ErrCancelled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	asker := &scriptedAsker{}
	d = &GateDecider{Asker: asker}
	_, err = d.DecideGate(ctx, gateRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, asker.asked)
}

func TestSelectTask(t *testing.T) {
	tasks := []models.Task{
		{ID: "market-research", Name: "Market Research", Status: models.StatusCompleted},
		{ID: "requirements-gathering", Name: "Requirements Gathering", Status: models.StatusPending},
	}
	asker := &scriptedAsker{selects: []int{1}}

	got, err := SelectTask(asker, "Select a task", tasks)
	require.NoError(t, err)
	assert.Equal(t, "requirements-gathering", got.ID)
	assert.Equal(t, "Market Research (market-research, completed)", asker.items[0][0])

	_, err = SelectTask(asker, "Select a task", nil)
	assert.ErrorIs(t, err, workflow.ErrNoTasksInCurrentPhase)
}

func TestSelectTaskStatus(t *testing.T) {
	asker := &scriptedAsker{selects: []int{2}}
	got, err := SelectTaskStatus(asker, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got)
	assert.Equal(t, []string{"pending", "in-progress (current)", "completed", "blocked"}, asker.items[0])
}

func TestAskHours(t *testing.T) {
	asker := &scriptedAsker{texts: []string{"6.5", "", "-1", "lots"}}

	h, err := AskHours(asker, "Actual hours", 0)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, 6.5, *h)

	h, err = AskHours(asker, "Actual hours", 4)
	require.NoError(t, err)
	assert.Nil(t, h, "blank keeps the current value")

	_, err = AskHours(asker, "Actual hours", 0)
	assert.EqualError(t, err, "hours cannot be negative")

	_, err = AskHours(asker, "Actual hours", 0)
	assert.EqualError(t, err, "enter a number of hours")
}

func TestPromptError(t *testing.T) {
	assert.ErrorIs(t, promptError(promptui.ErrInterrupt), ErrCancelled)
	assert.ErrorIs(t, promptError(promptui.ErrEOF), ErrCancelled)

	other := errors.New("tty closed")
	assert.Equal(t, other, promptError(other))
}

func TestRequired(t *testing.T) {
	v := Required("task name")
	assert.EqualError(t, v("  "), "task name is required")
	assert.NoError(t, v("Spike"))
}
