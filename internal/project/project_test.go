package project

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

const configDir = ".ai-workflow"

func TestMarkerTypeString(t *testing.T) {
	tests := []struct {
		marker   MarkerType
		expected string
	}{
		{MarkerNone, "none"},
		{MarkerWorkflow, "workflow"},
		{MarkerGit, ".git"},
		{MarkerType(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.marker.String())
		})
	}
}

func TestDetect(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/repo/.git", 0o755))
	require.NoError(t, fsys.MkdirAll("/repo/services/api/.ai-workflow", 0o755))
	require.NoError(t, fsys.MkdirAll("/repo/services/api/cmd/server", 0o755))
	require.NoError(t, fsys.MkdirAll("/repo/services/web/src", 0o755))
	require.NoError(t, fsys.MkdirAll("/scratch/notes", 0o755))
	// A file named like the config dir is not a marker.
	require.NoError(t, afero.WriteFile(fsys, "/scratch/.ai-workflow", []byte("x"), 0o644))

	d := NewDetector(fsys, configDir)

	tests := []struct {
		name       string
		start      string
		wantRoot   string
		wantMarker MarkerType
	}{
		{name: "nested in initialized project", start: "/repo/services/api/cmd/server", wantRoot: "/repo/services/api", wantMarker: MarkerWorkflow},
		{name: "at project root", start: "/repo/services/api", wantRoot: "/repo/services/api", wantMarker: MarkerWorkflow},
		{name: "falls back to git root", start: "/repo/services/web/src", wantRoot: "/repo", wantMarker: MarkerGit},
		{name: "unanchored", start: "/scratch/notes", wantRoot: "/scratch/notes", wantMarker: MarkerNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := d.Detect(tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoot, ctx.RootPath)
			assert.Equal(t, tt.wantMarker, ctx.MarkerType)
			assert.Equal(t, tt.wantRoot+"/.ai-workflow", ctx.ConfigDir)
			assert.Equal(t, tt.wantMarker == MarkerWorkflow, ctx.Initialized())
		})
	}
}

func TestScaffold(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seed := map[string]any{"report": map[string]string{"format": "json"}}

	res, err := Scaffold(fsys, "/proj", ScaffoldOptions{ConfigDir: configDir, Seed: seed})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/proj",
		"/proj/.ai-workflow",
		"/proj/.ai-workflow/personas",
		"/proj/.ai-workflow/.gitignore",
		"/proj/.ai-workflow/.flowkit.yaml",
	}, res.Created)
	assert.Empty(t, res.Existing)

	data, err := afero.ReadFile(fsys, "/proj/.ai-workflow/.flowkit.yaml")
	require.NoError(t, err)
	var parsed map[string]map[string]string
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, "json", parsed["report"]["format"])

	ignore, err := afero.ReadFile(fsys, "/proj/.ai-workflow/.gitignore")
	require.NoError(t, err)
	assert.Contains(t, string(ignore), "*.lock")
}

func TestScaffold_Idempotent(t *testing.T) {
	fsys := afero.NewMemMapFs()
	opts := ScaffoldOptions{ConfigDir: configDir, Seed: map[string]string{"verbose": "false"}}

	_, err := Scaffold(fsys, "/proj", opts)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fsys, "/proj/.ai-workflow/.flowkit.yaml", []byte("verbose: true\n"), 0o644))

	res, err := Scaffold(fsys, "/proj", opts)
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Len(t, res.Existing, 5)

	data, err := afero.ReadFile(fsys, "/proj/.ai-workflow/.flowkit.yaml")
	require.NoError(t, err)
	assert.Equal(t, "verbose: true\n", string(data), "user edits survive")
}

func TestScaffold_WithoutSeed(t *testing.T) {
	fsys := afero.NewMemMapFs()
	res, err := Scaffold(fsys, "/proj", ScaffoldOptions{ConfigDir: configDir})
	require.NoError(t, err)
	assert.Len(t, res.Created, 4)

	_, err = Scaffold(fsys, "/proj", ScaffoldOptions{})
	assert.Error(t, err)
}
