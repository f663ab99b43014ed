package ui

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/josephgoksu/flowkit/internal/workflow"
	"github.com/josephgoksu/flowkit/models"
)

const progressWidth = 30

// ProgressBar renders percent (0-100) as a bar followed by the percentage.
func ProgressBar(percent int) string {
	bar := progress.New(
		progress.WithSolidFill(string(ColorPrimary)),
		progress.WithWidth(progressWidth),
	)
	return bar.ViewAs(float64(percent) / 100)
}

// PhaseGlyph returns the marker shown next to a phase of the given status.
func PhaseGlyph(s models.PhaseStatus) string {
	switch s {
	case models.PhaseCompleted:
		return GlyphSuccess
	case models.PhaseInProgress:
		return "▶"
	case models.PhaseBlocked:
		return "■"
	default:
		return "○"
	}
}

func gateGlyph(s models.GateStatus) string {
	switch s {
	case models.GatePassed:
		return Icon(GlyphSuccess, StyleSuccess)
	case models.GateFailed:
		return Icon("✗", StyleError)
	default:
		return Icon("○", StyleSubtle)
	}
}

// RenderStatus writes the human-readable workflow status.
func RenderStatus(w io.Writer, v *workflow.StatusView) {
	fmt.Fprintf(w, "%s  %s\n", StyleTitle.Render("Workflow progress"), StyleSubtle.Render("since "+v.CreatedAt.Local().Format("2006-01-02 15:04")))
	fmt.Fprintf(w, "%s  %d of %d phases completed\n\n", ProgressBar(v.OverallProgress), v.CompletedPhases, v.TotalPhases)

	phases := &Table{Headers: []string{"", "#", "Phase", "Status", "Tasks", "Gates"}}
	for _, p := range v.Phases {
		marker := PhaseGlyph(p.Status)
		if p.Current {
			marker = ">" + marker
		}
		phases.Rows = append(phases.Rows, []string{
			marker,
			strconv.Itoa(p.Index + 1),
			p.Name,
			string(p.Status),
			fmt.Sprintf("%d/%d (%d%%)", p.CompletedTasks, p.TotalTasks, p.TaskCompletion),
			fmt.Sprintf("%d/%d", p.PassedGates, p.TotalGates),
		})
	}
	fmt.Fprint(w, phases.Render())

	if v.Terminal {
		fmt.Fprintln(w)
		Success(w, "All phases completed")
		renderMetrics(w, v.Metrics)
		return
	}

	cur := v.CurrentPhaseView()
	if cur == nil {
		return
	}
	fmt.Fprintf(w, "\n%s %s\n", StyleSectionTitle.Render("Current phase:"), StyleActive.Render(cur.Name))
	if cur.StartedAt != nil {
		fmt.Fprintf(w, "  %s\n", StyleSubtle.Render("started "+FormatAge(time.Since(*cur.StartedAt))+" ago"))
	}
	if cur.Status == models.PhaseBlocked && cur.BlockedReason != "" {
		Warn(w, "Blocked: %s", cur.BlockedReason)
	}

	if len(cur.Tasks) > 0 {
		fmt.Fprintln(w)
		RenderTasks(w, cur.Tasks)
	}
	if len(cur.QualityGates) > 0 {
		fmt.Fprintf(w, "\n%s\n", StyleTitle.Render("Quality gates"))
		for _, g := range cur.QualityGates {
			line := fmt.Sprintf("  %s %s", gateGlyph(g.Status), g.Name)
			if g.Notes != "" {
				line += StyleSubtle.Render(" - " + g.Notes)
			}
			fmt.Fprintln(w, line)
		}
	}
	renderMetrics(w, v.Metrics)
}

// RenderTasks writes tasks as a table.
func RenderTasks(w io.Writer, tasks []models.Task) {
	t := &Table{Headers: []string{"ID", "Task", "Status", "Persona", "Est", "Actual", "Depends on"}, MaxWidth: 40}
	for _, task := range tasks {
		t.Rows = append(t.Rows, []string{
			task.ID,
			task.Name,
			string(task.Status),
			task.AssignedPersona,
			FormatHours(task.EstimatedHours),
			FormatHours(task.ActualHours),
			strings.Join(task.Dependencies, ", "),
		})
	}
	fmt.Fprint(w, t.Render())
}

func renderMetrics(w io.Writer, metrics map[string]float64) {
	if len(metrics) == 0 {
		return
	}
	names := make([]string, 0, len(metrics))
	for k := range metrics {
		names = append(names, k)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "\n%s\n", StyleTitle.Render("Metrics"))
	for _, k := range names {
		fmt.Fprintf(w, "  %-20s %s\n", k, strconv.FormatFloat(metrics[k], 'f', -1, 64))
	}
}

// FormatHours prints an hour count compactly.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// FormatAge renders a duration at a human granularity.
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "moments"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
