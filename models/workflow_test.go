package models

import (
	"testing"
	"time"
)

func validDocument() WorkflowDocument {
	return WorkflowDocument{
		Phases: []Phase{
			{
				Name:   "Discovery & Planning",
				Status: PhasePending,
				Tasks: []Task{
					{ID: "market-research", Name: "Market Research", Status: StatusPending, EstimatedHours: 8},
				},
				QualityGates: []QualityGate{
					{Name: "Requirements Approved", Status: GatePending},
				},
			},
		},
		CreatedAt: time.Now(),
		Metrics:   map[string]float64{},
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *WorkflowDocument)
		wantErr bool
	}{
		{name: "valid document", mutate: func(d *WorkflowDocument) {}},
		{name: "no phases", mutate: func(d *WorkflowDocument) { d.Phases = nil }, wantErr: true},
		{name: "cursor out of range", mutate: func(d *WorkflowDocument) { d.CurrentPhase = 3 }, wantErr: true},
		{name: "negative cursor", mutate: func(d *WorkflowDocument) { d.CurrentPhase = -1 }, wantErr: true},
		{name: "invalid phase status", mutate: func(d *WorkflowDocument) { d.Phases[0].Status = "done" }, wantErr: true},
		{name: "invalid task status", mutate: func(d *WorkflowDocument) { d.Phases[0].Tasks[0].Status = "doing" }, wantErr: true},
		{name: "negative hours", mutate: func(d *WorkflowDocument) { d.Phases[0].Tasks[0].ActualHours = -1 }, wantErr: true},
		{name: "invalid gate status", mutate: func(d *WorkflowDocument) { d.Phases[0].QualityGates[0].Status = "ok" }, wantErr: true},
		{name: "missing task id", mutate: func(d *WorkflowDocument) { d.Phases[0].Tasks[0].ID = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(&doc)
			err := ValidateDocument(&doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Market Research":      "market-research",
		"  API   Design ":      "api-design",
		"CI/CD Pipeline":       "ci/cd-pipeline",
		"single":               "single",
		"Write Unit Tests Now": "write-unit-tests-now",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		n, d, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{2, 4, 50},
		{1, 3, 33},
		{2, 3, 67},
		{4, 4, 100},
		{5, 4, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.n, tt.d); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.n, tt.d, got, tt.want)
		}
	}
}

func TestPhaseCounts(t *testing.T) {
	p := Phase{
		Tasks: []Task{
			{ID: "a", Status: StatusCompleted},
			{ID: "b", Status: StatusInProgress},
			{ID: "c", Status: StatusCompleted},
		},
		QualityGates: []QualityGate{
			{Name: "g1", Status: GatePassed},
			{Name: "g2", Status: GateFailed, Notes: "coverage too low"},
		},
	}

	total, completed := p.TaskCounts()
	if total != 3 || completed != 2 {
		t.Errorf("TaskCounts() = %d/%d, want 3/2", total, completed)
	}
	gates, passed := p.GateCounts()
	if gates != 2 || passed != 1 {
		t.Errorf("GateCounts() = %d/%d, want 2/1", gates, passed)
	}
	if !p.HasFailedGate() {
		t.Error("HasFailedGate() = false, want true")
	}
	if failed := p.FailedGates(); len(failed) != 1 || failed[0].Name != "g2" {
		t.Errorf("FailedGates() = %+v", failed)
	}
	if p.FindTask("c") != 2 || p.FindTask("zzz") != -1 {
		t.Error("FindTask returned wrong index")
	}
	if p.AllTasksCompleted() {
		t.Error("AllTasksCompleted() = true with a task in progress")
	}
}

func TestIsValidTaskStatus(t *testing.T) {
	for _, s := range []string{"pending", "in-progress", "completed", "blocked"} {
		if !IsValidTaskStatus(s) {
			t.Errorf("IsValidTaskStatus(%q) = false", s)
		}
	}
	if IsValidTaskStatus("done") {
		t.Error("IsValidTaskStatus(\"done\") = true")
	}
}
