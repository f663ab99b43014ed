package workflow

import (
	"time"

	"github.com/josephgoksu/flowkit/models"
)

// StatusView is a derived, never-persisted summary of the document.
// Percentages are recomputed from the underlying counts on every call.
type StatusView struct {
	CreatedAt       time.Time          `json:"createdAt"`
	CurrentPhase    int                `json:"currentPhase"`
	TotalPhases     int                `json:"totalPhases"`
	CompletedPhases int                `json:"completedPhases"`
	OverallProgress int                `json:"overallProgress"`
	Terminal        bool               `json:"terminal"`
	Phases          []PhaseStatusView  `json:"phases"`
	Metrics         map[string]float64 `json:"metrics"`
}

// PhaseStatusView summarizes one phase.
type PhaseStatusView struct {
	Index          int                  `json:"index"`
	Name           string               `json:"name"`
	Status         models.PhaseStatus   `json:"status"`
	Current        bool                 `json:"current"`
	StartedAt      *time.Time           `json:"startedAt"`
	CompletedAt    *time.Time           `json:"completedAt"`
	BlockedReason  string               `json:"blockedReason,omitempty"`
	TotalTasks     int                  `json:"totalTasks"`
	CompletedTasks int                  `json:"completedTasks"`
	TaskCompletion int                  `json:"taskCompletion"`
	TotalGates     int                  `json:"totalGates"`
	PassedGates    int                  `json:"passedGates"`
	GatePassRate   int                  `json:"gatePassRate"`
	Tasks          []models.Task        `json:"tasks,omitempty"`
	QualityGates   []models.QualityGate `json:"qualityGates,omitempty"`
}

// BuildStatus computes the status view for a document.
func BuildStatus(doc *models.WorkflowDocument) *StatusView {
	view := &StatusView{
		CreatedAt:       doc.CreatedAt,
		CurrentPhase:    doc.CurrentPhase,
		TotalPhases:     len(doc.Phases),
		CompletedPhases: doc.CompletedPhases(),
		Phases:          make([]PhaseStatusView, len(doc.Phases)),
		Metrics:         doc.Metrics,
	}
	view.OverallProgress = models.Percent(view.CompletedPhases, view.TotalPhases)
	view.Terminal = view.TotalPhases > 0 && view.CompletedPhases == view.TotalPhases

	for i := range doc.Phases {
		p := &doc.Phases[i]
		tasks, done := p.TaskCounts()
		gates, passed := p.GateCounts()
		pv := PhaseStatusView{
			Index:          i,
			Name:           p.Name,
			Status:         p.Status,
			Current:        i == doc.CurrentPhase,
			StartedAt:      p.StartedAt,
			CompletedAt:    p.CompletedAt,
			BlockedReason:  p.BlockedReason,
			TotalTasks:     tasks,
			CompletedTasks: done,
			TaskCompletion: models.Percent(done, tasks),
			TotalGates:     gates,
			PassedGates:    passed,
			GatePassRate:   models.Percent(passed, gates),
		}
		if pv.Current {
			pv.Tasks = p.Tasks
			pv.QualityGates = p.QualityGates
		}
		view.Phases[i] = pv
	}
	return view
}

// CurrentPhaseView returns the view of the cursor phase, or nil.
func (v *StatusView) CurrentPhaseView() *PhaseStatusView {
	if v.CurrentPhase < 0 || v.CurrentPhase >= len(v.Phases) {
		return nil
	}
	return &v.Phases[v.CurrentPhase]
}
