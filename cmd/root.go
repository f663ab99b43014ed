/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/josephgoksu/flowkit/internal/config"
	"github.com/josephgoksu/flowkit/internal/llm"
	"github.com/josephgoksu/flowkit/internal/logger"
	"github.com/josephgoksu/flowkit/internal/logging"
	"github.com/josephgoksu/flowkit/internal/persona"
	"github.com/josephgoksu/flowkit/internal/project"
	"github.com/josephgoksu/flowkit/internal/ui"
	"github.com/josephgoksu/flowkit/internal/workflow"
	"github.com/josephgoksu/flowkit/store"
	"github.com/josephgoksu/flowkit/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is the application version.
var version = "0.3.0"

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

// cli holds everything one invocation of a binary needs. Each root command
// gets its own instance.
type cli struct {
	name string

	// Flags
	cfgFile string
	verbose bool

	// Overridable collaborators
	fs           afero.Fs
	workDir      string
	homeDir      string
	getenv       func(string) string
	now          func() time.Time
	interactive  func() bool
	asker        ui.Asker
	newChatModel func(ctx context.Context, cfg llm.Config) (model.BaseChatModel, error)
	crash        *logger.Recorder

	// Populated by setup
	v     *viper.Viper
	cfg   *types.AppConfig
	paths config.Paths
	log   *zap.Logger
}

func newCLI(name string) *cli {
	return &cli{
		name:         name,
		fs:           afero.NewOsFs(),
		getenv:       os.Getenv,
		now:          time.Now,
		interactive:  ui.IsInteractive,
		asker:        &ui.PromptAsker{},
		newChatModel: llm.NewChatModel,
		crash:        logger.Default(),
	}
}

// newRootCmd builds a root command with the shared persistent flags and
// configuration loading.
func (c *cli) newRootCmd(short, long string) *cobra.Command {
	root := &cobra.Command{
		Use:           c.name,
		Short:         short,
		Long:          long,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Sync(c.log)
		},
	}
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (default is <project>/.ai-workflow/.flowkit.yaml, $HOME/.flowkit.yaml or ./.flowkit.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose output")
	return root
}

// setup loads configuration, resolves project paths and builds the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	c.crash.SetApp(c.name)
	c.crash.SetVersion(version)
	c.crash.SetCommand(cmd.CommandPath())

	workDir := c.workDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		workDir = wd
	}
	c.workDir = workDir

	// The project root decides which config file applies, so detect it with
	// the configured directory name before the full config is read.
	configDir := c.getenv(config.EnvPrefix + "_PROJECT_CONFIGDIR")
	if configDir == "" {
		configDir = config.DefaultConfigDir
	}
	pctx, err := project.NewDetector(c.fs, configDir).Detect(workDir)
	if err != nil {
		return err
	}

	c.v = viper.New()
	_ = c.v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose"))
	cfg, err := config.Load(c.v, config.LoadOptions{
		ConfigFile: c.cfgFile,
		WorkDir:    pctx.RootPath,
		HomeDir:    c.homeDir,
	})
	if err != nil {
		return err
	}
	c.cfg = cfg

	c.paths, err = config.ResolvePaths(cfg, pctx.RootPath)
	if err != nil {
		return err
	}
	c.crash.SetBasePath(c.paths.ConfigDir)

	c.log, err = logging.New(logging.Options{
		Verbose: cfg.Verbose,
		Output:  cmd.ErrOrStderr(),
		Fields:  map[string]string{"app": c.name},
	})
	if err != nil {
		return err
	}
	c.log.Debug("project detected",
		zap.String("root", c.paths.Root),
		zap.String("marker", pctx.MarkerType.String()),
		zap.String("config", c.v.ConfigFileUsed()))
	return nil
}

// service builds the workflow service over the resolved tracking file.
func (c *cli) service() (*workflow.Service, error) {
	st := store.NewFileWorkflowStore(c.fs, c.paths.ConfigDir, c.cfg.Workflow.TrackingFile)
	return workflow.NewService(workflow.Config{
		Store:               st,
		Now:                 c.now,
		Logger:              c.log,
		EnforceDependencies: c.cfg.Workflow.EnforceDependencies,
	})
}

func (c *cli) personas() (*persona.Store, error) {
	return persona.NewStore(c.fs, c.cfg.Project.ConfigDir)
}

func (c *cli) isVerbose() bool {
	return c.cfg != nil && c.cfg.Verbose || c.verbose
}

// execute runs root and returns the process exit code. Recoverable
// conditions are reported inside the commands and exit 0.
func execute(c *cli, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		PrintError(stderr, c.isVerbose(), userMessage(err), err)
		return 1
	}
	return 0
}

// ExecuteWT runs the wt binary.
func ExecuteWT() int {
	c := newCLI("wt")
	return execute(c, newWTCmd(c), os.Args[1:], os.Stderr)
}

// ExecutePC runs the pc binary.
func ExecutePC() int {
	c := newCLI("pc")
	return execute(c, newPCCmd(c), os.Args[1:], os.Stderr)
}

// ExecuteAIW runs the aiw binary.
func ExecuteAIW() int {
	c := newCLI("aiw")
	return execute(c, newAIWCmd(c), os.Args[1:], os.Stderr)
}
