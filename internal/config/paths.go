package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/josephgoksu/flowkit/internal/logger"
	"github.com/josephgoksu/flowkit/types"
)

// Paths holds the absolute locations derived from configuration.
type Paths struct {
	Root         string
	ConfigDir    string
	TrackingFile string
	ReportDir    string
	CrashLogDir  string
}

// ResolvePaths resolves every path in cfg against root. An empty root falls
// back to project.rootDir and then the working directory. ReportDir stays
// empty unless report.dir is configured; callers write reports to the
// working directory then.
func ResolvePaths(cfg *types.AppConfig, root string) (Paths, error) {
	if root == "" {
		root = cfg.Project.RootDir
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Paths{}, fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return Paths{}, err
	}

	configDir := cfg.Project.ConfigDir
	if !filepath.IsAbs(configDir) {
		configDir = filepath.Join(root, configDir)
	}

	reportDir := cfg.Report.Dir
	if reportDir != "" && !filepath.IsAbs(reportDir) {
		reportDir = filepath.Join(root, reportDir)
	}

	return Paths{
		Root:         root,
		ConfigDir:    configDir,
		TrackingFile: filepath.Join(configDir, cfg.Workflow.TrackingFile),
		ReportDir:    reportDir,
		CrashLogDir:  filepath.Join(configDir, logger.CrashLogDir),
	}, nil
}
