package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPC_InitSelectedPersonas(t *testing.T) {
	h := newHarness(t)
	target := filepath.Join(h.dir, "app")

	out := h.mustRun("pc", "init", target, "--personas", "tech-lead,QA Engineer")
	assert.Contains(t, out, "Installed 2 persona(s): tech-lead, qa-engineer")

	for _, rel := range []string{".ai-workflow/.gitignore", ".ai-workflow/.flowkit.yaml", ".ai-workflow/personas/tech-lead.md", ".ai-workflow/personas/qa-engineer.md"} {
		_, err := os.Stat(filepath.Join(target, rel))
		assert.NoError(t, err, rel)
	}
	_, err := os.Stat(filepath.Join(target, ".ai-workflow/personas/ux-designer.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestPC_InitIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.mustRun("pc", "init", "--personas", "tech-lead")

	path := filepath.Join(h.dir, ".ai-workflow", "personas", "tech-lead.md")
	require.NoError(t, os.WriteFile(path, []byte("# Tech Lead\n\nOwns the release train.\n"), 0o644))

	out := h.mustRun("pc", "init", "--personas", "tech-lead")
	assert.Contains(t, out, "Kept existing: tech-lead")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Owns the release train.")
}

func TestPC_InitUnknownPersona(t *testing.T) {
	h := newHarness(t)
	out, code := h.run("pc", "init", "--personas", "astronaut")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `Persona "astronaut" not found`)
	assert.Contains(t, out, "tech-lead")
}

func TestPC_ListAddShow(t *testing.T) {
	h := newHarness(t)
	h.mustRun("pc", "init", "--personas", "tech-lead")

	out := h.mustRun("pc", "add", "ux-designer", "qa-engineer")
	assert.Contains(t, out, "Installed 2 persona(s)")

	custom := filepath.Join(h.dir, ".ai-workflow", "personas", "data-scientist.md")
	require.NoError(t, os.WriteFile(custom, []byte("# Data Scientist\n\nBuilds models.\n"), 0o644))

	out = h.mustRun("pc", "list")
	assert.Contains(t, out, "backend-developer")
	assert.Contains(t, out, "ux-designer")
	assert.Contains(t, out, "custom")
	assert.Contains(t, out, "Builds models.")

	out = h.mustRun("pc", "show", "Data", "Scientist")
	assert.Contains(t, out, "# Data Scientist")

	out = h.mustRun("pc", "show", "frontend-developer")
	assert.Contains(t, out, "# Frontend Developer")

	out, code := h.run("pc", "show", "astronaut")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `Persona "astronaut" not found`)
	assert.Contains(t, out, "data-scientist")
}

func TestPC_WorkflowCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun("pc", "init")

	out := h.mustRun("pc", "workflow", "init")
	assert.Contains(t, out, "pc workflow start")

	out = h.mustRun("pc", "workflow", "start", "discovery")
	assert.Contains(t, out, `Phase "Discovery & Planning" started`)

	out = h.mustRun("pc", "workflow", "complete", "--yes")
	assert.Contains(t, out, `Phase "Design & Prototyping" started`)

	out = h.mustRun("pc", "workflow", "status")
	assert.Contains(t, out, "1 of 5 phases completed")

	// Both front-ends share the tracking file.
	assert.Equal(t, 1, h.status().CurrentPhase)
}

func TestPC_WorkflowStatusBeforeInit(t *testing.T) {
	h := newHarness(t)
	h.mustRun("pc", "init")

	out, code := h.run("pc", "workflow", "status")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "pc workflow init")
}

func TestPC_ListAndShowInTerminal(t *testing.T) {
	h := newHarness(t)
	h.mustRun("pc", "init", "--personas", "tech-lead")
	h.interactive = true

	out := h.mustRun("pc", "list")
	assert.Contains(t, out, "Personas")
	assert.Contains(t, out, "9 built-in, 1 installed")
	assert.Contains(t, out, "qa-engineer")

	out = h.mustRun("pc", "show", "tech-lead")
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "project")
	assert.Contains(t, out, "# Tech Lead")
}
