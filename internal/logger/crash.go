// Package logger provides crash logging and recovery for the flowkit CLIs.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const (
	// CrashLogDir is the directory for crash logs relative to the workflow config dir
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep
	MaxCrashLogs = 10

	crashPrefix = "crash_"
	crashSuffix = ".json"
)

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	App        string    `json:"app"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	LastInput  string    `json:"last_input,omitempty"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// Recorder collects crash context and writes crash logs.
type Recorder struct {
	mu        sync.RWMutex
	fs        afero.Fs
	app       string
	basePath  string
	version   string
	command   string
	lastInput string
	now       func() time.Time
}

// NewRecorder creates a Recorder writing through fsys.
func NewRecorder(fsys afero.Fs, app string) *Recorder {
	return &Recorder{fs: fsys, app: app, now: time.Now}
}

var defaultRecorder = NewRecorder(afero.NewOsFs(), "flowkit")

// Default returns the process-wide recorder used by HandlePanic.
func Default() *Recorder { return defaultRecorder }

// SetApp names the binary in crash logs.
func (r *Recorder) SetApp(app string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.app = app
}

// SetBasePath sets the base path for crash logs (typically the workflow config directory).
func (r *Recorder) SetBasePath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.basePath = path
}

// SetVersion sets the application version for crash logs.
func (r *Recorder) SetVersion(version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.version = version
}

// SetCommand sets the current command being executed.
func (r *Recorder) SetCommand(cmd string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.command = cmd
}

// SetLastInput sets the last user input for crash context.
func (r *Recorder) SetLastInput(input string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastInput = truncateForLog(strings.TrimSpace(input), 500)
}

func truncateForLog(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// Dir returns the crash log directory.
func (r *Recorder) Dir() string {
	r.mu.RLock()
	basePath := r.basePath
	r.mu.RUnlock()

	if basePath == "" {
		basePath = ".ai-workflow"
	}
	return filepath.Join(basePath, CrashLogDir)
}

// Record builds a crash log for panicValue, writes it and prunes old logs.
// It returns the path written.
func (r *Recorder) Record(panicValue any) (string, error) {
	entry := r.newCrashLog(panicValue)

	dir := r.Dir()
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash log: %w", err)
	}
	path := filepath.Join(dir, crashPrefix+entry.Timestamp.Format("20060102_150405.000000000")+crashSuffix)
	if err := afero.WriteFile(r.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}

	if err := r.prune(dir); err != nil {
		return path, fmt.Errorf("clean old crash logs: %w", err)
	}
	return path, nil
}

func (r *Recorder) newCrashLog(panicValue any) CrashLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return CrashLog{
		Timestamp:  r.now(),
		App:        r.app,
		Version:    r.version,
		Command:    r.command,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		LastInput:  r.lastInput,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// prune removes old crash logs, keeping only MaxCrashLogs most recent.
func (r *Recorder) prune(dir string) error {
	logs, err := r.list(dir)
	if err != nil {
		return err
	}
	if len(logs) <= MaxCrashLogs {
		return nil
	}
	for _, path := range logs[:len(logs)-MaxCrashLogs] {
		if err := r.fs.Remove(path); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func (r *Recorder) list(dir string) ([]string, error) {
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), crashPrefix) && strings.HasSuffix(e.Name(), crashSuffix) {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	// Names embed the timestamp.
	sort.Strings(logs)
	return logs, nil
}

// Report writes the crash log for panicValue and prints a short notice to w.
func (r *Recorder) Report(w io.Writer, panicValue any) {
	path, err := r.Record(panicValue)
	if err != nil && path == "" {
		fmt.Fprintf(w, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(w, "[CRASH] Panic: %v\n%s\n", panicValue, debug.Stack())
		return
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "❌ %s encountered an unexpected error\n", r.appName())
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "A crash log has been saved to:\n")
	fmt.Fprintf(w, "  %s\n", path)
	fmt.Fprintf(w, "\n")
}

func (r *Recorder) appName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.app
}

// HandlePanic is a deferred function that recovers from panics and logs them.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	if v := recover(); v != nil {
		defaultRecorder.Report(os.Stderr, v)
		os.Exit(1)
	}
}
