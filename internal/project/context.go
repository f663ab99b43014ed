// Package project provides detection and scaffolding for project boundaries.
//
// Detection walks up from a start directory and picks, in order of
// precedence:
//  1. Workflow config directory (.ai-workflow/): an initialized project.
//  2. VCS Root (.git/): fallback for projects that were never initialized.
//  3. Start directory: used if unanchored.
package project

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// MarkerType represents the type of project marker that was detected.
type MarkerType int

const (
	// MarkerNone indicates no project marker was found.
	MarkerNone MarkerType = iota

	// MarkerWorkflow indicates the workflow config directory was found (highest priority).
	MarkerWorkflow

	// MarkerGit indicates a .git directory was found.
	MarkerGit
)

// String returns a human-readable name for the marker type.
func (m MarkerType) String() string {
	switch m {
	case MarkerNone:
		return "none"
	case MarkerWorkflow:
		return "workflow"
	case MarkerGit:
		return ".git"
	default:
		return "unknown"
	}
}

// Context contains information about the detected project boundary.
type Context struct {
	// RootPath is the absolute path to the detected project root.
	RootPath string

	// MarkerType indicates which marker was used to identify the project root.
	MarkerType MarkerType

	// ConfigDir is the absolute workflow config directory under RootPath,
	// whether or not it exists yet.
	ConfigDir string
}

// Initialized reports whether the workflow config directory exists.
func (c *Context) Initialized() bool {
	return c.MarkerType == MarkerWorkflow
}

// Detector finds project roots on an afero filesystem.
// Use afero.NewOsFs() for real filesystem operations,
// or afero.NewMemMapFs() for testing.
type Detector struct {
	fs        afero.Fs
	configDir string
}

// NewDetector creates a Detector looking for configDir.
func NewDetector(fsys afero.Fs, configDir string) *Detector {
	return &Detector{fs: fsys, configDir: configDir}
}

// Detect walks up from startPath. The nearest workflow config directory
// wins outright; otherwise the nearest .git directory; otherwise startPath.
func (d *Detector) Detect(startPath string) (*Context, error) {
	start, err := filepath.Abs(startPath)
	if err != nil {
		return nil, err
	}

	gitRoot := ""
	for dir := start; ; dir = filepath.Dir(dir) {
		ok, err := d.isDir(filepath.Join(dir, d.configDir))
		if err != nil {
			return nil, err
		}
		if ok {
			return d.context(dir, MarkerWorkflow), nil
		}
		if gitRoot == "" {
			if ok, err := d.isDir(filepath.Join(dir, ".git")); err != nil {
				return nil, err
			} else if ok {
				gitRoot = dir
			}
		}
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}

	if gitRoot != "" {
		return d.context(gitRoot, MarkerGit), nil
	}
	return d.context(start, MarkerNone), nil
}

func (d *Detector) context(root string, m MarkerType) *Context {
	return &Context{RootPath: root, MarkerType: m, ConfigDir: filepath.Join(root, d.configDir)}
}

func (d *Detector) isDir(path string) (bool, error) {
	info, err := d.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
