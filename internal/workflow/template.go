package workflow

import (
	"time"

	"github.com/josephgoksu/flowkit/models"
)

type taskSpec struct {
	name        string
	description string
	persona     string
	hours       float64
	deps        []string
}

type gateSpec struct {
	name     string
	criteria string
}

type phaseSpec struct {
	name         string
	tasks        []taskSpec
	deliverables []string
	gates        []gateSpec
}

// defaultPhases is the fixed five-phase development template.
var defaultPhases = []phaseSpec{
	{
		name: "Discovery & Planning",
		tasks: []taskSpec{
			{"Market Research", "Analyze competitors, target users and market fit", "Product Manager", 16, nil},
			{"Requirements Gathering", "Collect functional and non-functional requirements from stakeholders", "Product Manager", 24, []string{"market-research"}},
			{"Technical Feasibility", "Assess architecture options, risks and constraints", "Tech Lead", 12, []string{"requirements-gathering"}},
			{"Project Roadmap", "Define milestones, scope and release plan", "Product Manager", 8, []string{"requirements-gathering", "technical-feasibility"}},
		},
		deliverables: []string{"Product Requirements Document", "Technical Feasibility Report", "Project Roadmap"},
		gates: []gateSpec{
			{"Requirements Approved", "Stakeholders have reviewed and signed off on the requirements"},
			{"Feasibility Confirmed", "Technical approach validated with no blocking risks"},
		},
	},
	{
		name: "Design & Prototyping",
		tasks: []taskSpec{
			{"User Research", "Interview users and build personas and journeys", "UX Designer", 16, nil},
			{"Wireframes", "Produce low-fidelity wireframes for the core flows", "UX Designer", 20, []string{"user-research"}},
			{"UI Design", "Create high-fidelity visual designs and the design system", "UI Designer", 32, []string{"wireframes"}},
			{"System Architecture", "Design services, data model and integration points", "Tech Lead", 24, nil},
			{"Interactive Prototype", "Build a clickable prototype for validation", "UX Designer", 16, []string{"ui-design"}},
		},
		deliverables: []string{"Wireframes", "UI Design System", "Architecture Document", "Interactive Prototype"},
		gates: []gateSpec{
			{"Design Review Passed", "Designs reviewed against requirements and accessibility guidelines"},
			{"Architecture Review Passed", "Architecture reviewed for scalability, security and cost"},
			{"Prototype Validated", "Prototype tested with at least five users"},
		},
	},
	{
		name: "Development Setup",
		tasks: []taskSpec{
			{"Repository Setup", "Create repositories, branching model and code owners", "DevOps Engineer", 4, nil},
			{"CI/CD Pipeline", "Automate build, test and deployment pipelines", "DevOps Engineer", 16, []string{"repository-setup"}},
			{"Development Environment", "Provide reproducible local and shared environments", "DevOps Engineer", 8, []string{"repository-setup"}},
			{"Coding Standards", "Agree on linting, formatting and review conventions", "Tech Lead", 4, nil},
		},
		deliverables: []string{"Source Repositories", "CI/CD Pipeline", "Environment Documentation", "Coding Guidelines"},
		gates: []gateSpec{
			{"Pipeline Green", "CI pipeline runs build, lint and tests on every change"},
			{"Environments Ready", "Every developer can run the system locally"},
		},
	},
	{
		name: "Implementation",
		tasks: []taskSpec{
			{"Backend Development", "Implement APIs, business logic and persistence", "Backend Developer", 120, nil},
			{"Frontend Development", "Implement UI components and client state", "Frontend Developer", 100, nil},
			{"API Integration", "Connect frontend to backend and third-party services", "Frontend Developer", 40, []string{"backend-development", "frontend-development"}},
			{"Automated Testing", "Write unit, integration and end-to-end tests", "QA Engineer", 60, nil},
			{"Code Review", "Review all changes before merge", "Tech Lead", 30, nil},
		},
		deliverables: []string{"Feature-complete Application", "Test Suites", "API Documentation"},
		gates: []gateSpec{
			{"Test Coverage Met", "Automated test coverage at or above 80%"},
			{"No Critical Bugs", "Zero open critical or high severity defects"},
			{"Security Review Passed", "Dependency and code security scans are clean"},
		},
	},
	{
		name: "Deployment & Monitoring",
		tasks: []taskSpec{
			{"Production Deployment", "Deploy the release to production", "DevOps Engineer", 8, nil},
			{"Monitoring Setup", "Configure metrics, logs, dashboards and alerts", "DevOps Engineer", 12, nil},
			{"Performance Testing", "Load test critical paths against targets", "QA Engineer", 16, nil},
			{"Documentation", "Publish user and operations documentation", "Technical Writer", 12, nil},
		},
		deliverables: []string{"Production Release", "Monitoring Dashboards", "Runbooks", "User Documentation"},
		gates: []gateSpec{
			{"Deployment Verified", "Smoke tests pass in production"},
			{"Monitoring Active", "Alerts route to the on-call rotation"},
			{"Performance Targets Met", "p95 latency and error rate within agreed budgets"},
		},
	},
}

// PhaseNames returns the template's phase names in execution order.
func PhaseNames() []string {
	names := make([]string, len(defaultPhases))
	for i, p := range defaultPhases {
		names[i] = p.name
	}
	return names
}

// NewDocument builds a fresh document from the five-phase template.
// Every phase is pending and the cursor points at the first phase.
func NewDocument(now time.Time) *models.WorkflowDocument {
	phases := make([]models.Phase, len(defaultPhases))
	for i, spec := range defaultPhases {
		tasks := make([]models.Task, len(spec.tasks))
		for j, ts := range spec.tasks {
			deps := make([]string, len(ts.deps))
			copy(deps, ts.deps)
			tasks[j] = models.Task{
				ID:              models.Slugify(ts.name),
				Name:            ts.name,
				Description:     ts.description,
				Status:          models.StatusPending,
				AssignedPersona: ts.persona,
				EstimatedHours:  ts.hours,
				ActualHours:     0,
				Dependencies:    deps,
			}
		}

		gates := make([]models.QualityGate, len(spec.gates))
		for j, gs := range spec.gates {
			gates[j] = models.QualityGate{
				Name:     gs.name,
				Criteria: gs.criteria,
				Status:   models.GatePending,
			}
		}

		deliverables := make([]string, len(spec.deliverables))
		copy(deliverables, spec.deliverables)

		phases[i] = models.Phase{
			Name:         spec.name,
			Status:       models.PhasePending,
			Tasks:        tasks,
			Deliverables: deliverables,
			QualityGates: gates,
		}
	}

	metrics := make(map[string]float64, len(models.DefaultMetricNames))
	for _, name := range models.DefaultMetricNames {
		metrics[name] = 0
	}

	return &models.WorkflowDocument{
		Phases:       phases,
		CurrentPhase: 0,
		CreatedAt:    now,
		Metrics:      metrics,
	}
}
