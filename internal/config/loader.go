package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/flowkit/types"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigFile is an explicit path from --config. It must exist.
	ConfigFile string
	// WorkDir is where the project config dir and ./.flowkit.yaml are looked
	// up. Defaults to the current directory.
	WorkDir string
	// HomeDir defaults to the user's home directory.
	HomeDir string
	// EnvFile is loaded before anything else when present. Defaults to .env
	// in WorkDir.
	EnvFile string
	Logger  *zap.Logger
}

// Load reads .env, environment variables and the config file into v, then
// unmarshals and validates the result.
//
// Search order when no explicit file is given: <WorkDir>/<configDir>/.flowkit.yaml
// if the workflow config directory exists, otherwise $HOME/.flowkit.yaml and
// <WorkDir>/.flowkit.yaml.
func Load(v *viper.Viper, opts LoadOptions) (*types.AppConfig, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		workDir = wd
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = filepath.Join(workDir, ".env")
	}
	// A missing .env file is fine.
	if err := godotenv.Load(envFile); err == nil {
		log.Debug("loaded env file", zap.String("path", envFile))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		projectConfigDir := filepath.Join(workDir, v.GetString("project.configDir"))
		if info, err := os.Stat(projectConfigDir); err == nil && info.IsDir() {
			v.AddConfigPath(projectConfigDir)
		} else {
			home := opts.HomeDir
			if home == "" {
				home, _ = os.UserHomeDir()
			}
			if home != "" {
				v.AddConfigPath(home)
			}
			v.AddConfigPath(workDir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.ConfigFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		log.Debug("no config file found, using defaults and environment variables")
	} else {
		log.Debug("using config file", zap.String("path", v.ConfigFileUsed()))
	}

	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := ValidateAppConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateAppConfig performs validation on the AppConfig struct.
func ValidateAppConfig(cfg *types.AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("invalid configuration: %s failed '%s' (value: '%v')", e.Namespace(), e.Tag(), e.Value())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
