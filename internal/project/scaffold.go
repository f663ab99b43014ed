package project

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

const (
	// PersonaDir holds installed persona documents inside the config dir.
	PersonaDir = "personas"
	// ConfigFile is the config seed written into the config dir.
	ConfigFile = ".flowkit.yaml"

	gitignoreContent = `# flowkit runtime files
*.lock
*.tmp
crash_logs/
`
)

// ScaffoldOptions controls Scaffold.
type ScaffoldOptions struct {
	// ConfigDir is the workflow config directory name relative to the root.
	ConfigDir string
	// Seed is marshalled to YAML as the initial config file. Nil skips it.
	Seed any
}

// ScaffoldResult lists the paths Scaffold created and those that already
// existed.
type ScaffoldResult struct {
	Root     string
	Created  []string
	Existing []string
}

type scaffoldFile struct {
	path   string
	render func() ([]byte, error)
}

// Scaffold prepares root for workflow tracking. It is idempotent: existing
// files are never overwritten.
func Scaffold(fsys afero.Fs, root string, opts ScaffoldOptions) (*ScaffoldResult, error) {
	if opts.ConfigDir == "" {
		return nil, fmt.Errorf("config directory name is required")
	}
	res := &ScaffoldResult{Root: root}
	configDir := filepath.Join(root, opts.ConfigDir)

	for _, dir := range []string{root, configDir, filepath.Join(configDir, PersonaDir)} {
		exists, err := afero.DirExists(fsys, dir)
		if err != nil {
			return nil, err
		}
		if exists {
			res.Existing = append(res.Existing, dir)
			continue
		}
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		res.Created = append(res.Created, dir)
	}

	files := []scaffoldFile{{
		path:   filepath.Join(configDir, ".gitignore"),
		render: func() ([]byte, error) { return []byte(gitignoreContent), nil },
	}}
	if opts.Seed != nil {
		files = append(files, scaffoldFile{
			path:   filepath.Join(configDir, ConfigFile),
			render: func() ([]byte, error) { return yaml.Marshal(opts.Seed) },
		})
	}

	for _, f := range files {
		exists, err := afero.Exists(fsys, f.path)
		if err != nil {
			return nil, err
		}
		if exists {
			res.Existing = append(res.Existing, f.path)
			continue
		}
		data, err := f.render()
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", filepath.Base(f.path), err)
		}
		if err := afero.WriteFile(fsys, f.path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		res.Created = append(res.Created, f.path)
	}
	return res, nil
}
