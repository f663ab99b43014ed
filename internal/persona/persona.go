// Package persona manages role context documents: the built-in personas
// bundled with the binary and the copies installed into a project.
package persona

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/josephgoksu/flowkit/models"
	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dir is the persona directory inside the workflow config directory.
const Dir = "personas"

// ErrPersonaNotFound is returned when a name matches no persona.
var ErrPersonaNotFound = errors.New("persona not found")

// Source tells where a persona was loaded from.
type Source string

const (
	SourceBuiltIn Source = "built-in"
	SourceProject Source = "project"
)

//go:embed personas/*.md
var bundled embed.FS

// Persona is a role context document.
type Persona struct {
	Slug    string
	Name    string
	Summary string
	Content string
	Source  Source
}

// NotFoundError carries the lookup and the personas that do exist.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("persona %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrPersonaNotFound }

// Store reads built-in personas and manages project copies.
type Store struct {
	fs        afero.Fs
	configDir string
	builtIn   []Persona
}

// NewStore creates a Store. configDir is the workflow config directory name
// relative to a project root.
func NewStore(fsys afero.Fs, configDir string) (*Store, error) {
	builtIn, err := loadBundled()
	if err != nil {
		return nil, err
	}
	return &Store{fs: fsys, configDir: configDir, builtIn: builtIn}, nil
}

func loadBundled() ([]Persona, error) {
	entries, err := fs.ReadDir(bundled, "personas")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded personas: %w", err)
	}
	out := make([]Persona, 0, len(entries))
	for _, e := range entries {
		data, err := bundled.ReadFile(path.Join("personas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded persona %s: %w", e.Name(), err)
		}
		out = append(out, parse(strings.TrimSuffix(e.Name(), ".md"), string(data), SourceBuiltIn))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

// parse reads the display name from the first heading and the summary from
// the first paragraph after it.
func parse(slug, content string, src Source) Persona {
	p := Persona{Slug: slug, Content: content, Source: src}
	inSummary := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case p.Name == "" && strings.HasPrefix(line, "# "):
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			inSummary = true
		case inSummary && line != "" && !strings.HasPrefix(line, "#"):
			p.Summary = line
			inSummary = false
		case strings.HasPrefix(line, "## "):
			inSummary = false
		}
		if p.Name != "" && p.Summary != "" {
			break
		}
	}
	if p.Name == "" {
		p.Name = DisplayName(slug)
	}
	return p
}

// DisplayName turns a slug into a title-cased name.
func DisplayName(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// Normalize maps a display name, slug or file name onto a slug. Names that
// could escape the personas directory normalize to "".
func Normalize(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".md")
	slug := models.Slugify(strings.ReplaceAll(name, "_", " "))
	if strings.ContainsAny(slug, `/\`) || strings.HasPrefix(slug, ".") {
		return ""
	}
	return slug
}

// List returns the built-in personas ordered by slug.
func (s *Store) List() []Persona {
	out := make([]Persona, len(s.builtIn))
	copy(out, s.builtIn)
	return out
}

// Slugs returns the built-in persona slugs.
func (s *Store) Slugs() []string {
	slugs := make([]string, len(s.builtIn))
	for i, p := range s.builtIn {
		slugs[i] = p.Slug
	}
	return slugs
}

func (s *Store) builtInBySlug(slug string) (Persona, bool) {
	for _, p := range s.builtIn {
		if p.Slug == slug {
			return p, true
		}
	}
	return Persona{}, false
}

// ProjectDir returns where project personas live.
func (s *Store) ProjectDir(projectDir string) string {
	return filepath.Join(projectDir, s.configDir, Dir)
}

// Get resolves name against the project's installed personas first, then
// the built-ins. projectDir may be empty to consult built-ins only.
func (s *Store) Get(projectDir, name string) (*Persona, error) {
	slug := Normalize(name)
	if slug != "" && projectDir != "" {
		p, err := s.readProject(projectDir, slug)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if p, ok := s.builtInBySlug(slug); ok {
		return &p, nil
	}
	return nil, &NotFoundError{Name: name, Available: s.available(projectDir)}
}

func (s *Store) readProject(projectDir, slug string) (*Persona, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.ProjectDir(projectDir), slug+".md"))
	if err != nil {
		return nil, err
	}
	p := parse(slug, string(data), SourceProject)
	return &p, nil
}

func (s *Store) available(projectDir string) []string {
	seen := make(map[string]bool)
	for _, slug := range s.Slugs() {
		seen[slug] = true
	}
	if projectDir != "" {
		if installed, err := s.Installed(projectDir); err == nil {
			for _, p := range installed {
				seen[p.Slug] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for slug := range seen {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// InstallResult lists what Install wrote and what was already present.
type InstallResult struct {
	Installed []string
	Skipped   []string
}

// Install copies built-in personas into the project. With no names every
// built-in persona is installed. Existing project copies are left untouched
// so local edits survive.
func (s *Store) Install(projectDir string, names ...string) (*InstallResult, error) {
	var selected []Persona
	if len(names) == 0 {
		selected = s.List()
	} else {
		for _, name := range names {
			p, ok := s.builtInBySlug(Normalize(name))
			if !ok {
				return nil, &NotFoundError{Name: name, Available: s.Slugs()}
			}
			selected = append(selected, p)
		}
	}

	dir := s.ProjectDir(projectDir)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare persona directory %s: %w", dir, err)
	}

	res := &InstallResult{}
	for _, p := range selected {
		target := filepath.Join(dir, p.Slug+".md")
		exists, err := afero.Exists(s.fs, target)
		if err != nil {
			return nil, err
		}
		if exists {
			res.Skipped = append(res.Skipped, p.Slug)
			continue
		}
		if err := afero.WriteFile(s.fs, target, []byte(p.Content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write persona %s: %w", p.Slug, err)
		}
		res.Installed = append(res.Installed, p.Slug)
	}
	return res, nil
}

// Installed lists the personas present in the project, ordered by slug.
func (s *Store) Installed(projectDir string) ([]Persona, error) {
	entries, err := afero.ReadDir(s.fs, s.ProjectDir(projectDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []Persona
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		p, err := s.readProject(projectDir, strings.TrimSuffix(e.Name(), ".md"))
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}
