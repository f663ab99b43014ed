// Package workflow implements the workflow state store operations: phase
// transitions, task mutation, quality-gate evaluation and reporting over the
// persisted workflow document.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/josephgoksu/flowkit/internal/report"
	"github.com/josephgoksu/flowkit/models"
	"github.com/josephgoksu/flowkit/store"
	"go.uber.org/zap"
)

// Config holds the collaborators for a Service.
type Config struct {
	Store store.WorkflowStore
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
	// EnforceDependencies blocks a task from moving to in-progress or
	// completed while a same-phase dependency is not completed.
	EnforceDependencies bool
}

// Service owns every read-modify-write of the workflow document. Each call
// loads the full document, mutates it in memory and writes it back once.
type Service struct {
	store       store.WorkflowStore
	now         func() time.Time
	log         *zap.Logger
	enforceDeps bool
}

// NewService creates a workflow service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("workflow store is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:       cfg.Store,
		now:         func() time.Time { return now().UTC() },
		log:         log.Named("workflow"),
		enforceDeps: cfg.EnforceDependencies,
	}, nil
}

// TrackingPath returns where the document lives.
func (s *Service) TrackingPath() string {
	return s.store.Path()
}

// update runs fn against a freshly loaded document under the store lock and
// saves the result when fn succeeds.
func (s *Service) update(ctx context.Context, fn func(doc *models.WorkflowDocument) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock, err := s.store.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.store.Load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Save(doc)
}

// Initialize writes a fresh document from the five-phase template,
// replacing any existing one. It fails without writing when the workflow
// configuration directory is missing.
func (s *Service) Initialize(ctx context.Context) (*models.WorkflowDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	exists, err := s.store.ConfigDirExists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNoWorkflowConfig
	}

	unlock, err := s.store.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc := NewDocument(s.now())
	if err := s.store.Save(doc); err != nil {
		return nil, fmt.Errorf("write workflow document: %w", err)
	}
	s.log.Debug("workflow initialized", zap.String("path", s.store.Path()), zap.Int("phases", len(doc.Phases)))
	return doc, nil
}

// Load returns the current document without modifying it.
func (s *Service) Load(ctx context.Context) (*models.WorkflowDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Load()
}

// Status loads the document and derives the status view.
func (s *Service) Status(ctx context.Context) (*StatusView, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStatus(doc), nil
}

// FindPhase resolves a phase by case-insensitive substring match against its
// name. The first match in phase order wins.
func FindPhase(doc *models.WorkflowDocument, query string) (int, *models.Phase, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q != "" {
		for i := range doc.Phases {
			if strings.Contains(strings.ToLower(doc.Phases[i].Name), q) {
				return i, &doc.Phases[i], nil
			}
		}
	}
	available := make([]string, len(doc.Phases))
	for i, p := range doc.Phases {
		available[i] = p.Name
	}
	return -1, nil, &PhaseNotFoundError{Query: query, Available: available}
}

// StartPhase marks the matched phase in-progress and moves the cursor to it,
// whether or not it is adjacent to the current phase. Any other phase left
// in-progress returns to pending so that only the cursor phase is active.
func (s *Service) StartPhase(ctx context.Context, query string) (*models.Phase, error) {
	var started models.Phase
	err := s.update(ctx, func(doc *models.WorkflowDocument) error {
		idx, phase, err := FindPhase(doc, query)
		if err != nil {
			return err
		}
		now := s.now()
		for i := range doc.Phases {
			if i != idx && doc.Phases[i].Status == models.PhaseInProgress {
				doc.Phases[i].Status = models.PhasePending
			}
		}
		phase.Status = models.PhaseInProgress
		phase.BlockedReason = ""
		if phase.StartedAt == nil {
			phase.StartedAt = &now
		}
		doc.CurrentPhase = idx
		started = *phase
		s.log.Debug("phase started", zap.String("phase", phase.Name), zap.Int("index", idx))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &started, nil
}

// BlockPhase moves the in-progress current phase to blocked and records why.
// StartPhase resumes it.
func (s *Service) BlockPhase(ctx context.Context, reason string) (*models.Phase, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a reason is required to block a phase", ErrInvalidTask)
	}
	var blocked models.Phase
	err := s.update(ctx, func(doc *models.WorkflowDocument) error {
		phase := doc.Current()
		if phase == nil || phase.Status != models.PhaseInProgress {
			return ErrNoPhaseInProgress
		}
		phase.Status = models.PhaseBlocked
		phase.BlockedReason = reason
		blocked = *phase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &blocked, nil
}

// TaskUpdate carries the only task fields that may change after creation.
// A nil field keeps the current value.
type TaskUpdate struct {
	Status      *models.TaskStatus
	ActualHours *float64
}

// UpdateResult reports the updated task and whether every task in the phase
// is now completed. PhaseReady is advisory and never completes the phase.
type UpdateResult struct {
	PhaseName  string
	Task       models.Task
	PhaseReady bool
}

// CurrentTasks returns the tasks of the phase at the cursor.
func (s *Service) CurrentTasks(ctx context.Context) (string, []models.Task, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return "", nil, err
	}
	phase := doc.Current()
	if phase == nil {
		return "", nil, ErrNoPhaseInProgress
	}
	if len(phase.Tasks) == 0 {
		return phase.Name, nil, ErrNoTasksInCurrentPhase
	}
	tasks := make([]models.Task, len(phase.Tasks))
	copy(tasks, phase.Tasks)
	return phase.Name, tasks, nil
}

// UpdateTask changes the status and actual hours of a task in the current
// phase. Tasks in other phases are never touched.
func (s *Service) UpdateTask(ctx context.Context, taskID string, upd TaskUpdate) (*UpdateResult, error) {
	if upd.Status != nil && !models.IsValidTaskStatus(string(*upd.Status)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTaskStatus, *upd.Status)
	}
	if upd.ActualHours != nil && *upd.ActualHours < 0 {
		return nil, fmt.Errorf("%w: actual hours cannot be negative", ErrInvalidTask)
	}

	var result UpdateResult
	err := s.update(ctx, func(doc *models.WorkflowDocument) error {
		phase := doc.Current()
		if phase == nil || len(phase.Tasks) == 0 {
			return ErrNoTasksInCurrentPhase
		}
		idx := phase.FindTask(taskID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		task := &phase.Tasks[idx]

		if upd.Status != nil {
			if s.enforceDeps && (*upd.Status == models.StatusInProgress || *upd.Status == models.StatusCompleted) {
				if open := incompleteDependencies(phase, task); len(open) > 0 {
					return fmt.Errorf("%w: %s waits on %s", ErrDependenciesIncomplete, task.ID, strings.Join(open, ", "))
				}
			}
			task.Status = *upd.Status
		}
		if upd.ActualHours != nil {
			task.ActualHours = *upd.ActualHours
		}

		result = UpdateResult{
			PhaseName:  phase.Name,
			Task:       *task,
			PhaseReady: phase.AllTasksCompleted(),
		}
		s.log.Debug("task updated",
			zap.String("phase", phase.Name),
			zap.String("task", task.ID),
			zap.String("status", string(task.Status)),
			zap.Float64("actualHours", task.ActualHours))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// incompleteDependencies lists dependency ids that are not completed.
// Unknown ids count as incomplete.
func incompleteDependencies(phase *models.Phase, task *models.Task) []string {
	var open []string
	for _, dep := range task.Dependencies {
		i := phase.FindTask(dep)
		if i < 0 || phase.Tasks[i].Status != models.StatusCompleted {
			open = append(open, dep)
		}
	}
	return open
}

// NewTask holds the caller-supplied fields for AddTask.
type NewTask struct {
	Name            string
	Description     string
	AssignedPersona string
	EstimatedHours  float64
}

// AddTask appends a pending task to the matched phase regardless of the
// phase's status. The id is slugged from the name.
func (s *Service) AddTask(ctx context.Context, phaseQuery string, in NewTask) (string, *models.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", nil, fmt.Errorf("%w: task name is required", ErrInvalidTask)
	}
	if in.EstimatedHours < 0 {
		return "", nil, fmt.Errorf("%w: estimated hours cannot be negative", ErrInvalidTask)
	}

	var (
		phaseName string
		created   models.Task
	)
	err := s.update(ctx, func(doc *models.WorkflowDocument) error {
		_, phase, err := FindPhase(doc, phaseQuery)
		if err != nil {
			return err
		}
		id := models.Slugify(name)
		if phase.FindTask(id) >= 0 {
			return fmt.Errorf("%w: %s in %s", ErrTaskExists, id, phase.Name)
		}
		created = models.Task{
			ID:              id,
			Name:            name,
			Description:     strings.TrimSpace(in.Description),
			Status:          models.StatusPending,
			AssignedPersona: strings.TrimSpace(in.AssignedPersona),
			EstimatedHours:  in.EstimatedHours,
			ActualHours:     0,
			Dependencies:    []string{},
		}
		phase.Tasks = append(phase.Tasks, created)
		phaseName = phase.Name
		s.log.Debug("task added", zap.String("phase", phase.Name), zap.String("task", id))
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return phaseName, &created, nil
}

// SetMetric records an externally supplied KPI value.
func (s *Service) SetMetric(ctx context.Context, name string, value float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("metric name is required")
	}
	return s.update(ctx, func(doc *models.WorkflowDocument) error {
		if doc.Metrics == nil {
			doc.Metrics = make(map[string]float64)
		}
		doc.Metrics[name] = value
		return nil
	})
}

// Report aggregates the whole document into a point-in-time report.
func (s *Service) Report(ctx context.Context) (*report.Report, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return report.Generate(doc, s.now()), nil
}
