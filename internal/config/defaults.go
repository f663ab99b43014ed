// Package config provides centralized configuration for the flowkit CLIs.
// All default values are defined here to keep a single source of truth.
package config

import (
	"github.com/josephgoksu/flowkit/internal/llm"
	"github.com/josephgoksu/flowkit/types"
	"github.com/spf13/viper"
)

const (
	// ConfigName is the config file name without extension (.flowkit.yaml).
	ConfigName = ".flowkit"

	// EnvPrefix prefixes environment overrides, e.g. FLOWKIT_LLM_PROVIDER.
	EnvPrefix = "FLOWKIT"

	// DefaultConfigDir is the workflow configuration directory.
	DefaultConfigDir = ".ai-workflow"

	// DefaultTrackingFile is the workflow document name inside DefaultConfigDir.
	DefaultTrackingFile = "workflow-tracking.json"

	// DefaultReportFormat is used when neither flag nor config picks one.
	DefaultReportFormat = "json"

	// DefaultLLMTimeoutSeconds bounds a single AI request.
	DefaultLLMTimeoutSeconds = 120
)

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)

	v.SetDefault("project.rootDir", "")
	v.SetDefault("project.configDir", DefaultConfigDir)

	v.SetDefault("workflow.trackingFile", DefaultTrackingFile)
	v.SetDefault("workflow.enforceDependencies", false)

	v.SetDefault("report.format", DefaultReportFormat)
	v.SetDefault("report.dir", "")

	v.SetDefault("llm.provider", string(llm.DefaultProvider))
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.baseURL", "")
	v.SetDefault("llm.timeoutSeconds", DefaultLLMTimeoutSeconds)
}

// DefaultAppConfig returns the configuration produced by defaults alone.
// It is also the seed written by project scaffolding.
func DefaultAppConfig() types.AppConfig {
	return types.AppConfig{
		Project: types.ProjectConfig{
			ConfigDir: DefaultConfigDir,
		},
		Workflow: types.WorkflowConfig{
			TrackingFile: DefaultTrackingFile,
		},
		Report: types.ReportConfig{
			Format: DefaultReportFormat,
		},
		LLM: types.LLMConfig{
			Provider:       string(llm.DefaultProvider),
			TimeoutSeconds: DefaultLLMTimeoutSeconds,
		},
	}
}
