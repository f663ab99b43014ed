package persona

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	projectRoot = "/project"
	configDir   = ".ai-workflow"
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	s, err := NewStore(fsys, configDir)
	require.NoError(t, err)
	return s, fsys
}

func TestList_BuiltIns(t *testing.T) {
	s, _ := newTestStore(t)

	list := s.List()
	require.Len(t, list, 9)
	assert.Equal(t, "backend-developer", list[0].Slug)

	names := make(map[string]string)
	for _, p := range list {
		assert.Equal(t, SourceBuiltIn, p.Source)
		assert.NotEmpty(t, p.Summary, p.Slug)
		names[p.Slug] = p.Name
	}
	assert.Equal(t, "UX Designer", names["ux-designer"])
	assert.Equal(t, "DevOps Engineer", names["devops-engineer"])
	assert.Equal(t, "QA Engineer", names["qa-engineer"])
}

func TestGet_AcceptsNamesAndSlugs(t *testing.T) {
	s, _ := newTestStore(t)

	for _, name := range []string{"Frontend Developer", "frontend-developer", "frontend_developer", "frontend-developer.md", "  FRONTEND DEVELOPER "} {
		p, err := s.Get("", name)
		require.NoError(t, err, name)
		assert.Equal(t, "frontend-developer", p.Slug, name)
		assert.Contains(t, p.Content, "# Frontend Developer")
	}
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get(projectRoot, "Astronaut")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersonaNotFound)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Contains(t, nf.Available, "tech-lead")
	assert.Len(t, nf.Available, 9)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Frontend Developer", "frontend-developer"},
		{"qa_engineer.md", "qa-engineer"},
		{"  Tech Lead  ", "tech-lead"},
		{"../../secrets", ""},
		{"notes/plan", ""},
		{`..\x`, ""},
		{".hidden", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestGet_StaysInsidePersonasDir(t *testing.T) {
	s, fsys := newTestStore(t)
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(projectRoot, "secret.md"), []byte("# Secret\n"), 0o644))
	require.NoError(t, fsys.MkdirAll(s.ProjectDir(projectRoot), 0o755))

	_, err := s.Get(projectRoot, "../../secret")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "../../secret", nf.Name)

	_, err = s.Install(projectRoot, "../tech-lead")
	assert.ErrorIs(t, err, ErrPersonaNotFound)
}

func TestInstall_All(t *testing.T) {
	s, fsys := newTestStore(t)

	res, err := s.Install(projectRoot)
	require.NoError(t, err)
	assert.Len(t, res.Installed, 9)
	assert.Empty(t, res.Skipped)

	data, err := afero.ReadFile(fsys, "/project/.ai-workflow/personas/tech-lead.md")
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Tech Lead")

	again, err := s.Install(projectRoot)
	require.NoError(t, err)
	assert.Empty(t, again.Installed)
	assert.Len(t, again.Skipped, 9)
}

func TestInstall_SelectedKeepsLocalEdits(t *testing.T) {
	s, fsys := newTestStore(t)

	res, err := s.Install(projectRoot, "QA Engineer", "tech-lead")
	require.NoError(t, err)
	assert.Equal(t, []string{"qa-engineer", "tech-lead"}, res.Installed)

	edited := "# Tech Lead\n\nOur tech lead also owns security reviews.\n"
	path := filepath.Join(s.ProjectDir(projectRoot), "tech-lead.md")
	require.NoError(t, afero.WriteFile(fsys, path, []byte(edited), 0o644))

	res, err = s.Install(projectRoot, "tech-lead")
	require.NoError(t, err)
	assert.Equal(t, []string{"tech-lead"}, res.Skipped)

	p, err := s.Get(projectRoot, "Tech Lead")
	require.NoError(t, err)
	assert.Equal(t, SourceProject, p.Source)
	assert.Equal(t, "Our tech lead also owns security reviews.", p.Summary)

	_, err = s.Install(projectRoot, "tech-lead", "astronaut")
	assert.ErrorIs(t, err, ErrPersonaNotFound)
}

func TestInstalled(t *testing.T) {
	s, fsys := newTestStore(t)

	none, err := s.Installed(projectRoot)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = s.Install(projectRoot, "ux-designer")
	require.NoError(t, err)
	custom := filepath.Join(s.ProjectDir(projectRoot), "data-scientist.md")
	require.NoError(t, afero.WriteFile(fsys, custom, []byte("Builds models.\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(s.ProjectDir(projectRoot), "README.txt"), []byte("x"), 0o644))

	installed, err := s.Installed(projectRoot)
	require.NoError(t, err)
	require.Len(t, installed, 2)
	assert.Equal(t, "data-scientist", installed[0].Slug)
	assert.Equal(t, "Data Scientist", installed[0].Name, "name falls back to the slug")
	assert.Equal(t, "ux-designer", installed[1].Slug)

	p, err := s.Get(projectRoot, "Data Scientist")
	require.NoError(t, err)
	assert.Equal(t, SourceProject, p.Source)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Data Scientist", DisplayName("data-scientist"))
	assert.Equal(t, "Security Champion", DisplayName("security-champion"))
}
