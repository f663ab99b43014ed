package models

import (
	"math"
	"strings"
	"time"
)

// PhaseStatus represents the lifecycle state of a workflow phase.
type PhaseStatus string

const (
	PhasePending    PhaseStatus = "pending"
	PhaseInProgress PhaseStatus = "in-progress"
	PhaseCompleted  PhaseStatus = "completed"
	PhaseBlocked    PhaseStatus = "blocked"
)

// TaskStatus represents the possible statuses of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
	StatusBlocked    TaskStatus = "blocked"
)

// TaskStatuses lists every task status in workflow order.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusBlocked}

// GateStatus represents the outcome of a quality gate check.
type GateStatus string

const (
	GatePending GateStatus = "pending"
	GatePassed  GateStatus = "passed"
	GateFailed  GateStatus = "failed"
)

// Well-known metric names. Metrics are supplied externally and never derived
// from task data.
const (
	MetricDevelopmentSpeed    = "developmentSpeed"
	MetricCodeQuality         = "codeQuality"
	MetricTestCoverage        = "testCoverage"
	MetricDeploymentFrequency = "deploymentFrequency"
	MetricBugRate             = "bugRate"
)

// DefaultMetricNames is the KPI set seeded into every new document.
var DefaultMetricNames = []string{
	MetricDevelopmentSpeed,
	MetricCodeQuality,
	MetricTestCoverage,
	MetricDeploymentFrequency,
	MetricBugRate,
}

// WorkflowDocument is the persisted root object, one per project.
type WorkflowDocument struct {
	Phases       []Phase            `json:"phases" validate:"required,min=1,dive"`
	CurrentPhase int                `json:"currentPhase" validate:"gte=0"`
	CreatedAt    time.Time          `json:"createdAt" validate:"required"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Phase is one stage of the development workflow.
type Phase struct {
	Name          string        `json:"name" validate:"required"`
	Status        PhaseStatus   `json:"status" validate:"required,oneof=pending in-progress completed blocked"`
	StartedAt     *time.Time    `json:"startedAt"`
	CompletedAt   *time.Time    `json:"completedAt"`
	BlockedReason string        `json:"blockedReason,omitempty"`
	Tasks         []Task        `json:"tasks" validate:"dive"`
	Deliverables  []string      `json:"deliverables"`
	QualityGates  []QualityGate `json:"qualityGates" validate:"dive"`
}

// Task is a unit of work within a phase.
type Task struct {
	ID              string     `json:"id" validate:"required"`
	Name            string     `json:"name" validate:"required"`
	Description     string     `json:"description"`
	Status          TaskStatus `json:"status" validate:"required,oneof=pending in-progress completed blocked"`
	AssignedPersona string     `json:"assignedPersona"`
	EstimatedHours  float64    `json:"estimatedHours" validate:"gte=0"`
	ActualHours     float64    `json:"actualHours" validate:"gte=0"`
	Dependencies    []string   `json:"dependencies"` // Task IDs within the same phase
}

// QualityGate is a pass/fail checkpoint gating phase completion.
type QualityGate struct {
	Name      string     `json:"name" validate:"required"`
	Criteria  string     `json:"criteria"`
	Status    GateStatus `json:"status" validate:"required,oneof=pending passed failed"`
	CheckedAt *time.Time `json:"checkedAt"`
	Notes     string     `json:"notes"`
}

// IsValidTaskStatus reports whether s is one of the four task states.
func IsValidTaskStatus(s string) bool {
	for _, st := range TaskStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Slugify derives a task id from its name: lower-cased, whitespace runs
// replaced with hyphens.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Percent returns round(n/d*100) clamped to [0,100]. A zero denominator
// yields 0.
func Percent(n, d int) int {
	if d <= 0 || n <= 0 {
		return 0
	}
	if n >= d {
		return 100
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}

// TaskCounts returns the number of tasks and how many are completed.
func (p *Phase) TaskCounts() (total, completed int) {
	for _, t := range p.Tasks {
		if t.Status == StatusCompleted {
			completed++
		}
	}
	return len(p.Tasks), completed
}

// GateCounts returns the number of quality gates and how many passed.
func (p *Phase) GateCounts() (total, passed int) {
	for _, g := range p.QualityGates {
		if g.Status == GatePassed {
			passed++
		}
	}
	return len(p.QualityGates), passed
}

// HasFailedGate reports whether any gate in the phase is failed.
func (p *Phase) HasFailedGate() bool {
	for _, g := range p.QualityGates {
		if g.Status == GateFailed {
			return true
		}
	}
	return false
}

// FailedGates returns copies of the failed gates in declaration order.
func (p *Phase) FailedGates() []QualityGate {
	var failed []QualityGate
	for _, g := range p.QualityGates {
		if g.Status == GateFailed {
			failed = append(failed, g)
		}
	}
	return failed
}

// FindTask returns the index of the task with the given id, or -1.
func (p *Phase) FindTask(id string) int {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// AllTasksCompleted reports whether the phase has tasks and all are completed.
func (p *Phase) AllTasksCompleted() bool {
	total, completed := p.TaskCounts()
	return total > 0 && total == completed
}

// Current returns the phase the cursor points at, or nil for a malformed document.
func (d *WorkflowDocument) Current() *Phase {
	if d.CurrentPhase < 0 || d.CurrentPhase >= len(d.Phases) {
		return nil
	}
	return &d.Phases[d.CurrentPhase]
}

// CompletedPhases counts phases in the completed state.
func (d *WorkflowDocument) CompletedPhases() int {
	n := 0
	for _, p := range d.Phases {
		if p.Status == PhaseCompleted {
			n++
		}
	}
	return n
}
