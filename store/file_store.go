package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/josephgoksu/flowkit/models"
	"github.com/spf13/afero"
)

const (
	// DefaultTrackingFile is the tracking document name inside the config dir.
	DefaultTrackingFile = "workflow-tracking.json"
	lockSuffix          = ".lock"
	tempPattern         = ".workflow-tracking-*.tmp"
)

// FileWorkflowStore implements WorkflowStore on top of an afero filesystem.
// Writes go to a temp file in the same directory and are renamed over the
// tracking file, so an interrupted write leaves the previous state on disk.
type FileWorkflowStore struct {
	fs        afero.Fs
	configDir string
	filePath  string
	osBacked  bool
}

// NewFileWorkflowStore creates a store for <configDir>/<fileName>.
// Use afero.NewOsFs() for real filesystem operations, or afero.NewMemMapFs()
// for testing. An empty fileName selects DefaultTrackingFile.
func NewFileWorkflowStore(fsys afero.Fs, configDir, fileName string) *FileWorkflowStore {
	if fileName == "" {
		fileName = DefaultTrackingFile
	}
	_, osBacked := fsys.(*afero.OsFs)
	return &FileWorkflowStore{
		fs:        fsys,
		configDir: configDir,
		filePath:  filepath.Join(configDir, fileName),
		osBacked:  osBacked,
	}
}

// Path returns the tracking document path.
func (s *FileWorkflowStore) Path() string {
	return s.filePath
}

// ConfigDirExists reports whether the workflow configuration directory exists.
func (s *FileWorkflowStore) ConfigDirExists() (bool, error) {
	exists, err := afero.DirExists(s.fs, s.configDir)
	if err != nil {
		return false, fmt.Errorf("check config directory %s: %w", s.configDir, err)
	}
	return exists, nil
}

// Load reads the whole document and validates it.
func (s *FileWorkflowStore) Load() (*models.WorkflowDocument, error) {
	dirExists, err := s.ConfigDirExists()
	if err != nil {
		return nil, err
	}
	if !dirExists {
		return nil, fmt.Errorf("%w: %s", ErrNoWorkflowConfig, s.configDir)
	}

	data, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.filePath)
		}
		return nil, fmt.Errorf("failed to read tracking file %s: %w", s.filePath, err)
	}

	var doc models.WorkflowDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON from %s: %w", s.filePath, err)
	}
	if doc.Metrics == nil {
		doc.Metrics = make(map[string]float64)
	}
	if err := models.ValidateDocument(&doc); err != nil {
		return nil, fmt.Errorf("invalid tracking file %s: %w", s.filePath, err)
	}
	return &doc, nil
}

// Save validates and writes the full document atomically.
func (s *FileWorkflowStore) Save(doc *models.WorkflowDocument) error {
	if doc == nil {
		return fmt.Errorf("cannot save nil workflow document")
	}
	if err := models.ValidateDocument(doc); err != nil {
		return fmt.Errorf("validation failed for workflow document: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workflow document: %w", err)
	}
	data = append(data, '\n')

	tmp, err := afero.TempFile(s.fs, s.configDir, tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", s.configDir, err)
	}
	tempFilePath := tmp.Name()
	defer func() { _ = s.fs.Remove(tempFilePath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}
	if f, ok := tmp.(*os.File); ok {
		if err := f.Sync(); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("failed to sync temporary data file %s: %w", tempFilePath, err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary data file %s: %w", tempFilePath, err)
	}

	if err := s.fs.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	return nil
}

// Lock takes an exclusive flock on <tracking file>.lock. On non-OS
// filesystems it is a no-op.
func (s *FileWorkflowStore) Lock() (func(), error) {
	if !s.osBacked {
		return func() {}, nil
	}
	dirExists, err := s.ConfigDirExists()
	if err != nil {
		return nil, err
	}
	if !dirExists {
		return func() {}, nil
	}

	flk := flock.New(s.filePath + lockSuffix)
	if err := flk.Lock(); err != nil {
		return nil, fmt.Errorf("could not lock %s: %w", s.filePath, err)
	}
	return func() { _ = flk.Unlock() }, nil
}
