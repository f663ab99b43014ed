package workflow

import (
	"context"
	"strings"

	"github.com/josephgoksu/flowkit/models"
	"go.uber.org/zap"
)

// GateRequest asks the caller for a pass/fail verdict on one quality gate.
type GateRequest struct {
	PhaseName string
	// Position is the gate's index within the phase.
	Position int
	// Remaining counts the gates still awaiting a verdict, this one included.
	Remaining int
	Gate      models.QualityGate
}

// Verdict is the caller's answer to a GateRequest. Notes are required when
// Passed is false.
type Verdict struct {
	Passed bool
	Notes  string
}

// GateDecider supplies verdicts during CompletePhase.
type GateDecider interface {
	DecideGate(ctx context.Context, req GateRequest) (Verdict, error)
}

// GateDeciderFunc adapts a function to GateDecider.
type GateDeciderFunc func(ctx context.Context, req GateRequest) (Verdict, error)

// DecideGate calls f.
func (f GateDeciderFunc) DecideGate(ctx context.Context, req GateRequest) (Verdict, error) {
	return f(ctx, req)
}

// PassAll approves every pending gate.
var PassAll = GateDeciderFunc(func(context.Context, GateRequest) (Verdict, error) {
	return Verdict{Passed: true}, nil
})

// CompletionOptions tunes a completion attempt.
type CompletionOptions struct {
	// RecheckFailed returns previously failed gates to pending so they are
	// asked again.
	RecheckFailed bool
}

// CompletionResult describes the outcome of a completion attempt.
type CompletionResult struct {
	PhaseName string
	Completed bool
	// Failures lists failed gates with their recorded notes.
	Failures []models.QualityGate
	// Unresolved lists gates still pending when the attempt finished.
	Unresolved []string
	// NextPhase is the phase started by the advance, empty when terminal.
	NextPhase string
	// Terminal is true once every phase is completed.
	Terminal  bool
	Evaluated int
}

// Completion is one suspended phase-completion attempt. It yields pending
// gates through Next, takes verdicts through Resolve and persists on Finish.
// Abort releases it without writing, leaving the previous state on disk.
type Completion struct {
	svc       *Service
	ctx       context.Context
	unlock    func()
	doc       *models.WorkflowDocument
	phase     *models.Phase
	pending   []int
	pos       int
	awaiting  bool
	evaluated int
	closed    bool
}

// BeginCompletion loads the document and prepares the completion of the
// phase at the cursor. The phase must be in-progress.
func (s *Service) BeginCompletion(ctx context.Context, opts CompletionOptions) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock, err := s.store.Lock()
	if err != nil {
		return nil, err
	}
	doc, err := s.store.Load()
	if err != nil {
		unlock()
		return nil, err
	}
	phase := doc.Current()
	if phase == nil || phase.Status != models.PhaseInProgress {
		unlock()
		return nil, ErrNoPhaseInProgress
	}

	c := &Completion{svc: s, ctx: ctx, unlock: unlock, doc: doc, phase: phase}
	for i := range phase.QualityGates {
		g := &phase.QualityGates[i]
		if opts.RecheckFailed && g.Status == models.GateFailed {
			g.Status = models.GatePending
			g.CheckedAt = nil
			g.Notes = ""
		}
		if g.Status == models.GatePending {
			c.pending = append(c.pending, i)
		}
	}
	return c, nil
}

// Phase returns the name of the phase being completed.
func (c *Completion) Phase() string {
	return c.phase.Name
}

// Pending counts the gates still awaiting a verdict.
func (c *Completion) Pending() int {
	if c.closed {
		return 0
	}
	return len(c.pending) - c.pos
}

// Next returns the next gate awaiting a verdict. It keeps returning the same
// gate until Resolve accepts a verdict for it.
func (c *Completion) Next() (GateRequest, bool) {
	if c.closed || c.pos >= len(c.pending) {
		return GateRequest{}, false
	}
	c.awaiting = true
	idx := c.pending[c.pos]
	return GateRequest{
		PhaseName: c.phase.Name,
		Position:  idx,
		Remaining: len(c.pending) - c.pos,
		Gate:      c.phase.QualityGates[idx],
	}, true
}

// Resolve records the verdict for the gate last returned by Next.
func (c *Completion) Resolve(v Verdict) error {
	if c.closed {
		return ErrCompletionClosed
	}
	if !c.awaiting {
		return ErrNoPendingGate
	}
	notes := strings.TrimSpace(v.Notes)
	if !v.Passed && notes == "" {
		return ErrGateNotesRequired
	}

	now := c.svc.now()
	gate := &c.phase.QualityGates[c.pending[c.pos]]
	if v.Passed {
		gate.Status = models.GatePassed
	} else {
		gate.Status = models.GateFailed
	}
	gate.CheckedAt = &now
	gate.Notes = notes

	c.awaiting = false
	c.pos++
	c.evaluated++
	return nil
}

// Abort releases the completion without writing anything.
func (c *Completion) Abort() {
	if c.closed {
		return
	}
	c.closed = true
	c.unlock()
}

// Finish persists every gate verdict collected so far and completes the
// phase when all gates have passed. Failed gates leave the phase in-progress
// and the cursor where it is.
func (c *Completion) Finish() (*CompletionResult, error) {
	if c.closed {
		return nil, ErrCompletionClosed
	}
	c.closed = true
	defer c.unlock()

	if err := c.ctx.Err(); err != nil {
		return nil, err
	}

	res := &CompletionResult{PhaseName: c.phase.Name, Evaluated: c.evaluated}
	for _, g := range c.phase.QualityGates {
		if g.Status == models.GatePending {
			res.Unresolved = append(res.Unresolved, g.Name)
		}
	}
	res.Failures = c.phase.FailedGates()

	log := c.svc.log.With(zap.String("phase", c.phase.Name))
	if len(res.Failures) == 0 && len(res.Unresolved) == 0 {
		now := c.svc.now()
		c.phase.Status = models.PhaseCompleted
		if c.phase.CompletedAt == nil {
			c.phase.CompletedAt = &now
		}
		res.Completed = true

		if next := c.doc.CurrentPhase + 1; next < len(c.doc.Phases) {
			c.doc.CurrentPhase = next
			np := &c.doc.Phases[next]
			np.Status = models.PhaseInProgress
			if np.StartedAt == nil {
				np.StartedAt = &now
			}
			res.NextPhase = np.Name
		} else {
			res.Terminal = true
		}
		log.Debug("phase completed", zap.String("next", res.NextPhase), zap.Bool("terminal", res.Terminal))
	} else {
		log.Debug("phase completion blocked",
			zap.Int("failedGates", len(res.Failures)),
			zap.Int("unresolvedGates", len(res.Unresolved)))
	}

	if err := c.svc.store.Save(c.doc); err != nil {
		return nil, err
	}
	return res, nil
}

// CompletePhase drives a completion attempt with decider answering every
// pending gate, then persists the outcome. If the decider fails or ctx is
// cancelled before all gates are answered, nothing is written.
func (s *Service) CompletePhase(ctx context.Context, decider GateDecider, opts CompletionOptions) (*CompletionResult, error) {
	c, err := s.BeginCompletion(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c.Run(decider)
}

// Run asks decider about every remaining gate and finishes the completion.
// The completion is aborted without writing when decider fails.
func (c *Completion) Run(decider GateDecider) (*CompletionResult, error) {
	ctx := c.ctx
	for {
		req, ok := c.Next()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			c.Abort()
			return nil, err
		}
		v, err := decider.DecideGate(ctx, req)
		if err != nil {
			c.Abort()
			return nil, err
		}
		if err := c.Resolve(v); err != nil {
			c.Abort()
			return nil, err
		}
	}
	return c.Finish()
}
