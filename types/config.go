/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose  bool           `mapstructure:"verbose" yaml:"verbose"`
	Config   string         `mapstructure:"config" yaml:"-"`
	Project  ProjectConfig  `mapstructure:"project" yaml:"project" validate:"required"`
	Workflow WorkflowConfig `mapstructure:"workflow" yaml:"workflow" validate:"required"`
	Report   ReportConfig   `mapstructure:"report" yaml:"report"`
	LLM      LLMConfig      `mapstructure:"llm" yaml:"llm" validate:"omitempty"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	// RootDir is the project root; empty means detect from the working directory.
	RootDir   string `mapstructure:"rootDir" yaml:"rootDir,omitempty"`
	ConfigDir string `mapstructure:"configDir" yaml:"configDir" validate:"required"`
}

// WorkflowConfig holds workflow tracking settings
type WorkflowConfig struct {
	TrackingFile        string `mapstructure:"trackingFile" yaml:"trackingFile" validate:"required"`
	EnforceDependencies bool   `mapstructure:"enforceDependencies" yaml:"enforceDependencies"`
}

// ReportConfig holds report export settings
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=json yaml yml toml"`
	Dir    string `mapstructure:"dir" yaml:"dir,omitempty"`
}

// LLMConfig holds configuration for LLM integration
type LLMConfig struct {
	Provider string `mapstructure:"provider" yaml:"provider" validate:"omitempty,oneof=openai anthropic ollama gemini generic"`
	Model    string `mapstructure:"model" yaml:"model,omitempty"`
	// APIKey is normally left empty so the provider env var is used.
	APIKey  string `mapstructure:"apiKey" yaml:"apiKey,omitempty"`
	BaseURL string `mapstructure:"baseURL" yaml:"baseURL,omitempty" validate:"omitempty,url"`
	// TimeoutSeconds bounds a single request
	TimeoutSeconds int `mapstructure:"timeoutSeconds" yaml:"timeoutSeconds" validate:"omitempty,min=5,max=600"`
}
