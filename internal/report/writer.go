package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"

	filePrefix      = "workflow-report-"
	timestampLayout = "20060102-150405"
	maxNameAttempts = 1000
)

// Writer exports reports as files in a directory.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a Writer on fsys.
func NewWriter(fsys afero.Fs) *Writer {
	return &Writer{fs: fsys}
}

// ParseFormat normalizes a format name. An empty name selects JSON.
func ParseFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s. Supported formats are json, yaml, toml", format)
	}
}

// Marshal encodes r in the given format.
func Marshal(r *Report, format string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatYAML:
		return yaml.Marshal(r)
	case FormatTOML:
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(r); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Write stores r in dir under a name derived from its generation time.
// A numeric suffix is added when that name is taken, so earlier reports are
// never overwritten. It returns the path written.
func (w *Writer) Write(dir string, r *Report, format string) (string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return "", err
	}
	data, err := Marshal(r, f)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	base := filePrefix + r.GeneratedAt.UTC().Format(timestampLayout)
	for i := 0; i < maxNameAttempts; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s-%d", base, i+1)
		}
		path := filepath.Join(dir, name+"."+f)
		exists, err := afero.Exists(w.fs, path)
		if err != nil {
			return "", fmt.Errorf("check report path %s: %w", path, err)
		}
		if exists {
			continue
		}
		if err := afero.WriteFile(w.fs, path, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write report %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("could not find a free report name for %s in %s", base, dir)
}
