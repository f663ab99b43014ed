package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/josephgoksu/flowkit/internal/workflow"
	"github.com/josephgoksu/flowkit/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusDoc(t *testing.T) *models.WorkflowDocument {
	t.Helper()
	doc := workflow.NewDocument(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))
	require.NotEmpty(t, doc.Phases)
	started := time.Now().Add(-3 * time.Hour)
	doc.Phases[0].Status = models.PhaseInProgress
	doc.Phases[0].StartedAt = &started
	doc.Phases[0].Tasks[0].Status = models.StatusCompleted
	doc.Phases[0].QualityGates[0].Status = models.GateFailed
	doc.Phases[0].QualityGates[0].Notes = "Budget not signed"
	return doc
}

func TestRenderStatus(t *testing.T) {
	doc := statusDoc(t)
	var buf bytes.Buffer
	RenderStatus(&buf, workflow.BuildStatus(doc))
	out := buf.String()

	assert.Contains(t, out, "0 of 5 phases completed")
	for _, p := range doc.Phases {
		assert.Contains(t, out, p.Name)
	}
	assert.Contains(t, out, "Current phase:")
	assert.Contains(t, out, "started 3h ago")
	assert.Contains(t, out, "market-research")
	assert.Contains(t, out, doc.Phases[0].QualityGates[0].Name)
	assert.Contains(t, out, "Budget not signed")
	assert.Contains(t, out, "Metrics")
	assert.Contains(t, out, models.MetricBugRate)
}

func TestRenderStatus_Blocked(t *testing.T) {
	doc := statusDoc(t)
	doc.Phases[0].Status = models.PhaseBlocked
	doc.Phases[0].BlockedReason = "Waiting on vendor"

	var buf bytes.Buffer
	RenderStatus(&buf, workflow.BuildStatus(doc))
	assert.Contains(t, buf.String(), "Blocked: Waiting on vendor")
}

func TestRenderStatus_Terminal(t *testing.T) {
	doc := workflow.NewDocument(time.Now())
	for i := range doc.Phases {
		doc.Phases[i].Status = models.PhaseCompleted
	}
	doc.CurrentPhase = len(doc.Phases) - 1

	var buf bytes.Buffer
	RenderStatus(&buf, workflow.BuildStatus(doc))
	out := buf.String()
	assert.Contains(t, out, "5 of 5 phases completed")
	assert.Contains(t, out, "All phases completed")
	assert.NotContains(t, out, "Current phase:")
}

func TestPhaseGlyph(t *testing.T) {
	assert.Equal(t, "✓", PhaseGlyph(models.PhaseCompleted))
	assert.Equal(t, "▶", PhaseGlyph(models.PhaseInProgress))
	assert.Equal(t, "■", PhaseGlyph(models.PhaseBlocked))
	assert.Equal(t, "○", PhaseGlyph(models.PhasePending))
}

func TestProgressBar(t *testing.T) {
	assert.Contains(t, ProgressBar(40), "40%")
	assert.Contains(t, ProgressBar(0), "0%")
	assert.Contains(t, ProgressBar(100), "100%")
}
