// Package report aggregates a workflow document into a point-in-time report
// and exports it as a standalone artifact.
package report

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/flowkit/models"
)

// Report is a point-in-time export of the workflow document. It is never
// written over the live tracking file.
type Report struct {
	ReportID       string             `json:"reportId" yaml:"reportId" toml:"reportId"`
	GeneratedAt    time.Time          `json:"generatedAt" yaml:"generatedAt" toml:"generatedAt"`
	ProjectSummary ProjectSummary     `json:"projectSummary" yaml:"projectSummary" toml:"projectSummary"`
	PhaseBreakdown []PhaseBreakdown   `json:"phaseBreakdown" yaml:"phaseBreakdown" toml:"phaseBreakdown"`
	Metrics        map[string]float64 `json:"metrics" yaml:"metrics" toml:"metrics"`
}

// ProjectSummary holds project-wide totals.
type ProjectSummary struct {
	CreatedAt           time.Time `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	CurrentPhase        string    `json:"currentPhase" yaml:"currentPhase" toml:"currentPhase"`
	TotalPhases         int       `json:"totalPhases" yaml:"totalPhases" toml:"totalPhases"`
	CompletedPhases     int       `json:"completedPhases" yaml:"completedPhases" toml:"completedPhases"`
	OverallProgress     int       `json:"overallProgress" yaml:"overallProgress" toml:"overallProgress"`
	TotalTasks          int       `json:"totalTasks" yaml:"totalTasks" toml:"totalTasks"`
	CompletedTasks      int       `json:"completedTasks" yaml:"completedTasks" toml:"completedTasks"`
	TotalEstimatedHours float64   `json:"totalEstimatedHours" yaml:"totalEstimatedHours" toml:"totalEstimatedHours"`
	TotalActualHours    float64   `json:"totalActualHours" yaml:"totalActualHours" toml:"totalActualHours"`
	Efficiency          int       `json:"efficiency" yaml:"efficiency" toml:"efficiency"`
}

// PhaseBreakdown holds per-phase percentages.
type PhaseBreakdown struct {
	Name               string             `json:"name" yaml:"name" toml:"name"`
	Status             models.PhaseStatus `json:"status" yaml:"status" toml:"status"`
	TaskCompletion     int                `json:"taskCompletion" yaml:"taskCompletion" toml:"taskCompletion"`
	QualityGatesPassed int                `json:"qualityGatesPassed" yaml:"qualityGatesPassed" toml:"qualityGatesPassed"`
	TotalTasks         int                `json:"totalTasks" yaml:"totalTasks" toml:"totalTasks"`
	CompletedTasks     int                `json:"completedTasks" yaml:"completedTasks" toml:"completedTasks"`
	EstimatedHours     float64            `json:"estimatedHours" yaml:"estimatedHours" toml:"estimatedHours"`
	ActualHours        float64            `json:"actualHours" yaml:"actualHours" toml:"actualHours"`
}

// Generate aggregates doc. It only reads the document.
func Generate(doc *models.WorkflowDocument, now time.Time) *Report {
	r := &Report{
		ReportID:       uuid.NewString(),
		GeneratedAt:    now,
		PhaseBreakdown: make([]PhaseBreakdown, 0, len(doc.Phases)),
		Metrics:        make(map[string]float64, len(doc.Metrics)),
	}
	for k, v := range doc.Metrics {
		r.Metrics[k] = v
	}

	sum := &r.ProjectSummary
	sum.CreatedAt = doc.CreatedAt
	sum.TotalPhases = len(doc.Phases)
	sum.CompletedPhases = doc.CompletedPhases()
	sum.OverallProgress = models.Percent(sum.CompletedPhases, sum.TotalPhases)
	if cur := doc.Current(); cur != nil {
		sum.CurrentPhase = cur.Name
	}

	for i := range doc.Phases {
		p := &doc.Phases[i]
		tasks, done := p.TaskCounts()
		gates, passed := p.GateCounts()

		var est, actual float64
		for _, t := range p.Tasks {
			est += t.EstimatedHours
			actual += t.ActualHours
		}

		r.PhaseBreakdown = append(r.PhaseBreakdown, PhaseBreakdown{
			Name:               p.Name,
			Status:             p.Status,
			TaskCompletion:     models.Percent(done, tasks),
			QualityGatesPassed: models.Percent(passed, gates),
			TotalTasks:         tasks,
			CompletedTasks:     done,
			EstimatedHours:     est,
			ActualHours:        actual,
		})

		sum.TotalTasks += tasks
		sum.CompletedTasks += done
		sum.TotalEstimatedHours += est
		sum.TotalActualHours += actual
	}
	sum.Efficiency = Efficiency(sum.TotalEstimatedHours, sum.TotalActualHours)
	return r
}

// Efficiency returns round(estimated/actual*100), or 0 when either total is
// zero.
func Efficiency(estimated, actual float64) int {
	if estimated <= 0 || actual <= 0 {
		return 0
	}
	return int(math.Round(estimated / actual * 100))
}
