package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/josephgoksu/flowkit/internal/llm"
	"github.com/josephgoksu/flowkit/types"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDirs(t *testing.T) (work, home string) {
	t.Helper()
	return t.TempDir(), t.TempDir()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	work, home := testDirs(t)

	cfg, err := Load(viper.New(), LoadOptions{WorkDir: work, HomeDir: home})
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig(), *cfg)
}

func TestLoad_ProjectConfigFileWins(t *testing.T) {
	work, home := testDirs(t)
	writeFile(t, filepath.Join(home, ".flowkit.yaml"), "report:\n  format: toml\n")
	writeFile(t, filepath.Join(work, ".ai-workflow", ".flowkit.yaml"), `
workflow:
  enforceDependencies: true
report:
  format: yaml
llm:
  provider: ollama
  model: qwen2.5
`)

	cfg, err := Load(viper.New(), LoadOptions{WorkDir: work, HomeDir: home})
	require.NoError(t, err)
	assert.True(t, cfg.Workflow.EnforceDependencies)
	assert.Equal(t, "yaml", cfg.Report.Format)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "qwen2.5", cfg.LLM.Model)
	assert.Equal(t, DefaultTrackingFile, cfg.Workflow.TrackingFile)
}

func TestLoad_HomeConfigWithoutProject(t *testing.T) {
	work, home := testDirs(t)
	writeFile(t, filepath.Join(home, ".flowkit.yaml"), "report:\n  format: toml\n")

	cfg, err := Load(viper.New(), LoadOptions{WorkDir: work, HomeDir: home})
	require.NoError(t, err)
	assert.Equal(t, "toml", cfg.Report.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	work, home := testDirs(t)
	writeFile(t, filepath.Join(work, ".ai-workflow", ".flowkit.yaml"), "llm:\n  provider: ollama\n")
	t.Setenv("FLOWKIT_LLM_PROVIDER", "anthropic")
	t.Setenv("FLOWKIT_WORKFLOW_TRACKINGFILE", "tracking.json")

	cfg, err := Load(viper.New(), LoadOptions{WorkDir: work, HomeDir: home})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "tracking.json", cfg.Workflow.TrackingFile)
}

func TestLoad_DotEnv(t *testing.T) {
	work, home := testDirs(t)
	writeFile(t, filepath.Join(work, ".env"), "FLOWKIT_REPORT_DIR=reports\n")
	t.Cleanup(func() { _ = os.Unsetenv("FLOWKIT_REPORT_DIR") })

	cfg, err := Load(viper.New(), LoadOptions{WorkDir: work, HomeDir: home})
	require.NoError(t, err)
	assert.Equal(t, "reports", cfg.Report.Dir)
}

func TestLoad_ExplicitFile(t *testing.T) {
	work, home := testDirs(t)
	explicit := filepath.Join(work, "custom.yaml")
	writeFile(t, explicit, "project:\n  configDir: .workflow\n")

	cfg, err := Load(viper.New(), LoadOptions{WorkDir: work, HomeDir: home, ConfigFile: explicit})
	require.NoError(t, err)
	assert.Equal(t, ".workflow", cfg.Project.ConfigDir)

	_, err = Load(viper.New(), LoadOptions{WorkDir: work, HomeDir: home, ConfigFile: filepath.Join(work, "missing.yaml")})
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown provider", content: "llm:\n  provider: skynet\n"},
		{name: "unknown report format", content: "report:\n  format: xml\n"},
		{name: "timeout too short", content: "llm:\n  timeoutSeconds: 1\n"},
		{name: "bad base url", content: "llm:\n  baseURL: not a url\n"},
		{name: "malformed yaml", content: "llm: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work, home := testDirs(t)
			writeFile(t, filepath.Join(work, ".ai-workflow", ".flowkit.yaml"), tt.content)
			_, err := Load(viper.New(), LoadOptions{WorkDir: work, HomeDir: home})
			assert.Error(t, err)
		})
	}
}

func TestResolvePaths(t *testing.T) {
	cfg := DefaultAppConfig()

	p, err := ResolvePaths(&cfg, "/srv/app")
	require.NoError(t, err)
	assert.Equal(t, Paths{
		Root:         "/srv/app",
		ConfigDir:    "/srv/app/.ai-workflow",
		TrackingFile: "/srv/app/.ai-workflow/workflow-tracking.json",
		ReportDir:    "",
		CrashLogDir:  "/srv/app/.ai-workflow/crash_logs",
	}, p)

	cfg.Report.Dir = "reports"
	cfg.Project.RootDir = "/opt/project"
	p, err = ResolvePaths(&cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "/opt/project/reports", p.ReportDir)

	cfg.Report.Dir = "/var/reports"
	p, err = ResolvePaths(&cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "/var/reports", p.ReportDir)
}

func TestLoadLLMConfig(t *testing.T) {
	env := map[string]string{"OPENAI_API_KEY": "sk-env", "GEMINI_API_KEY": "gm-env"}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		name string
		cfg  types.LLMConfig
		o    LLMOverrides
		want llm.Config
	}{
		{
			name: "defaults",
			cfg:  types.LLMConfig{},
			want: llm.Config{Provider: llm.ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "sk-env", Timeout: 120 * time.Second},
		},
		{
			name: "configured",
			cfg:  types.LLMConfig{Provider: "ollama", Model: "qwen2.5", BaseURL: "http://gpu:11434", TimeoutSeconds: 30},
			want: llm.Config{Provider: llm.ProviderOllama, Model: "qwen2.5", BaseURL: "http://gpu:11434", Timeout: 30 * time.Second},
		},
		{
			name: "flag provider drops configured model",
			cfg:  types.LLMConfig{Provider: "ollama", Model: "qwen2.5"},
			o:    LLMOverrides{Provider: "gemini"},
			want: llm.Config{Provider: llm.ProviderGemini, Model: "gemini-2.0-flash", APIKey: "gm-env", Timeout: 120 * time.Second},
		},
		{
			name: "flags win",
			cfg:  types.LLMConfig{Provider: "openai", APIKey: "sk-config"},
			o:    LLMOverrides{Provider: "generic", Model: "mistral", BaseURL: "http://localhost:8000/v1"},
			want: llm.Config{Provider: llm.ProviderGeneric, Model: "mistral", APIKey: "sk-config", BaseURL: "http://localhost:8000/v1", Timeout: 120 * time.Second},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAppConfig()
			cfg.LLM = tt.cfg
			got, err := LoadLLMConfig(&cfg, tt.o, getenv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	cfg := DefaultAppConfig()
	_, err := LoadLLMConfig(&cfg, LLMOverrides{Provider: "bedrock"}, getenv)
	assert.Error(t, err)
}
