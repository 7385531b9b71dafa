package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cran/rapportools/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user config directory under $HOME.
const DirName = ".rapport"

// Global configuration structure. Values act as process-wide defaults for
// the report commands; flags given on the command line override them.
type Global struct {
	TotalName    string `mapstructure:"total_name" yaml:"total_name" validate:"required"`
	UseLabels    bool   `mapstructure:"use_labels" yaml:"use_labels"`
	NARemove     bool   `mapstructure:"na_remove" yaml:"na_remove"`
	Margins      bool   `mapstructure:"margins" yaml:"margins"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" validate:"oneof=md csv json"`
	LabelsFile   string `mapstructure:"labels_file" yaml:"labels_file"`
	BatchJobs    int    `mapstructure:"batch_jobs" yaml:"batch_jobs" validate:"min=1,max=64"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat    string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
}

var validate = validator.New()

// Validate checks value ranges and enumerations.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		TotalName:    "Total",
		Margins:      true,
		OutputFormat: "md",
		BatchJobs:    4,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Path returns the config file path: cfgFile when set, otherwise
// ~/.rapport/config.yaml.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.rapport/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("RAPPORT")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("total_name", d.TotalName)
	v.SetDefault("use_labels", d.UseLabels)
	v.SetDefault("na_remove", d.NARemove)
	v.SetDefault("margins", d.Margins)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("labels_file", d.LabelsFile)
	v.SetDefault("batch_jobs", d.BatchJobs)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, DirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; a missing file leaves defaults and env in place
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case cfgFile != "" && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
